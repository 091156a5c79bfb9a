// httpserver serves the LRC scheme REST API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sharedcode/lrc"
	"github.com/sharedcode/lrc/repository"
	"github.com/sharedcode/lrc/restapi"
)

// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	var showVersion bool
	configFile := flag.String("config", "", "Path to configuration file (optional, LRC_CONFIG is used when empty)")
	listen := flag.String("listen", "", "Listen address, overrides listen of the configuration")
	flag.BoolVar(&showVersion, "version", false, "Show version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("httpserver %s\n", lrc.Version)
		return
	}
	lrc.ConfigureLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, *configFile, *listen); err != nil {
		fmt.Fprintf(os.Stderr, "httpserver: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile, listen string) error {
	cfg, err := lrc.LoadConfig(configFile)
	if err != nil {
		return err
	}
	if listen != "" {
		cfg.Listen = listen
	}
	repo, err := repository.Open(ctx, cfg.Repository)
	if err != nil {
		return err
	}
	defer repo.Close()

	return restapi.NewServer(repo, cfg.Compiler, nil).Serve(ctx, cfg.Listen)
}

// benchmark runs the insane striping benchmark described by a pattern file and appends the
// measured speeds to results.csv.
package main

import (
	"context"
	"flag"
	"fmt"
	log "log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/sharedcode/lrc"
	"github.com/sharedcode/lrc/aws_s3"
	"github.com/sharedcode/lrc/harness"
	"github.com/sharedcode/lrc/repository"
)

func main() {
	configFile := flag.String("config", "", "Path to configuration file (optional, LRC_CONFIG is used when empty)")
	pattern := flag.String("pattern", "", "Pattern file, overrides pattern_file of the configuration")
	workDir := flag.String("workdir", ".", "Folder receiving lrc_config.c and results.csv")
	searcherDir := flag.String("searcher", "searcher", "Folder of the stripe searcher sources")
	searchTimeout := flag.Duration("search-timeout", harness.DefaultSearchTimeout, "Searcher run time before it gets interrupted")
	meter := flag.String("meter", "script", "Throughput meter: 'script' (run_up, results, clean) or 'directio'")
	scriptsDir := flag.String("scripts", ".", "Folder of the run_up, results and clean scripts")
	directIOPath := flag.String("directio-path", "/tmp/lrc_directio_probe", "Target file or device of the directio meter")
	directIOBytes := flag.Int64("directio-bytes", 64<<20, "Bytes written then read per directio measurement")
	flag.Parse()

	lrc.ConfigureLogging()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, runOptions{
		configFile:    *configFile,
		pattern:       *pattern,
		workDir:       *workDir,
		searcherDir:   *searcherDir,
		searchTimeout: *searchTimeout,
		meter:         *meter,
		scriptsDir:    *scriptsDir,
		directIOPath:  *directIOPath,
		directIOBytes: *directIOBytes,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "benchmark: %v\n", err)
		os.Exit(1)
	}
}

type runOptions struct {
	configFile    string
	pattern       string
	workDir       string
	searcherDir   string
	searchTimeout time.Duration
	meter         string
	scriptsDir    string
	directIOPath  string
	directIOBytes int64
}

func newMeter(o runOptions) (harness.Meter, error) {
	switch o.meter {
	case "script":
		return harness.NewScriptMeter(o.scriptsDir), nil
	case "directio":
		return harness.NewDirectIOMeter(o.directIOPath, o.directIOBytes), nil
	}
	return nil, lrc.Errorf(lrc.ConfigurationConflict, "unknown meter %q", o.meter)
}

func run(ctx context.Context, o runOptions) error {
	cfg, err := lrc.LoadConfig(o.configFile)
	if err != nil {
		return err
	}
	if o.pattern == "" {
		o.pattern = cfg.PatternFile
	}
	p, err := harness.LoadPattern(o.pattern)
	if err != nil {
		return err
	}
	m, err := newMeter(o)
	if err != nil {
		return err
	}
	repo, err := repository.Open(ctx, cfg.Repository)
	if err != nil {
		return err
	}
	defer repo.Close()

	searcher := harness.NewSearcher(o.searcherDir)
	searcher.Timeout = o.searchTimeout
	h := &harness.Harness{
		Pattern: p,
		Resolver: &harness.Resolver{
			Repository: repo,
			Searcher:   searcher,
			Options:    cfg.Compiler,
		},
		Meter:   m,
		WorkDir: o.workDir,
	}
	if cfg.S3 != nil {
		pub, err := aws_s3.NewPublisher(*cfg.S3)
		if err != nil {
			return err
		}
		if err := pub.EnsureBucket(ctx); err != nil {
			return err
		}
		h.Publisher = pub
	}

	results, err := h.Run(ctx)
	for _, r := range results {
		log.Info("plan done", "plan", r.Plan.String(), "scheme", r.Scheme, "source", r.Source, "speeds", r.Speeds)
	}
	return err
}

// lrcgen compiles an LRC scheme descriptor into lrc_config.c.
//
//	lrcgen [flags] [descriptor]
//
// Without a descriptor argument or -scheme flag it prompts for one on stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	log "log/slog"
	"os"
	"strings"

	"github.com/sharedcode/lrc"
	"github.com/sharedcode/lrc/aws_s3"
	"github.com/sharedcode/lrc/emitter"
	"github.com/sharedcode/lrc/scheme"
)

type options struct {
	configFile   string
	descriptor   string
	out          string
	singleGlobal bool
	legacy       bool
	check        bool
	publish      bool
	showVersion  bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("lrcgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configFile, "config", "", "Path to configuration file (optional, LRC_CONFIG is used when empty)")
	fs.StringVar(&o.descriptor, "scheme", "", "Scheme descriptor, e.g. 111s1222s2333s3eg")
	fs.StringVar(&o.out, "out", emitter.ConfigFileName, "Output file, '-' writes to stdout")
	fs.BoolVar(&o.singleGlobal, "single-global", false, "Require exactly one global syndrome and emit lrc_gs as a scalar")
	fs.BoolVar(&o.legacy, "legacy", false, "Encode local syndrome sN as 0xBF+N like the original generator")
	fs.BoolVar(&o.check, "check", false, "Fail when the layout can't drive the native module")
	fs.BoolVar(&o.publish, "publish", false, "Upload the artifact to the configured S3 bucket")
	fs.BoolVar(&o.showVersion, "version", false, "Show version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.descriptor == "" && fs.NArg() > 0 {
		o.descriptor = fs.Arg(0)
	}
	return o, nil
}

func prompt(stdin io.Reader, stdout io.Writer) (string, error) {
	fmt.Fprintln(stdout, `You can input numbers 1-9, letters "s","e","g" (or "S","E","G")`)
	fmt.Fprint(stdout, "Input the scheme: ")
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if o.showVersion {
		fmt.Fprintf(stdout, "lrcgen %s\n", lrc.Version)
		return nil
	}
	cfg, err := lrc.LoadConfig(o.configFile)
	if err != nil {
		return err
	}
	opts := cfg.Compiler
	if o.legacy {
		opts.LocalSyndromeBase = lrc.LegacyLocalSyndromeBase
	}
	if o.singleGlobal {
		opts.MultiGlobal = false
	}

	if o.descriptor == "" {
		if o.descriptor, err = prompt(stdin, stdout); err != nil {
			return err
		}
	}
	l, err := scheme.Compile(o.descriptor, opts)
	if err != nil {
		return err
	}
	if err := scheme.CheckUsable(l); err != nil {
		if o.check {
			return err
		}
		log.Warn("layout is not usable by the native module", "error", err)
	}

	if o.out == "-" {
		if err := emitter.Write(stdout, l); err != nil {
			return err
		}
	} else {
		if err := emitter.WriteFile(o.out, l); err != nil {
			return err
		}
		log.Info("wrote layout", "file", o.out, "scheme", o.descriptor)
	}

	if o.publish {
		if cfg.S3 == nil {
			return lrc.Errorf(lrc.ConfigurationConflict, "-publish needs an s3 section in the configuration")
		}
		p, err := aws_s3.NewPublisher(*cfg.S3)
		if err != nil {
			return err
		}
		key, err := p.Publish(ctx, "", emitter.ConfigFileName, "text/x-c", emitter.Render(l))
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "published s3://%s/%s\n", cfg.S3.Bucket, key)
	}
	return nil
}

func main() {
	lrc.ConfigureLoggingTo(os.Stderr)
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "lrcgen: %v\n", err)
		os.Exit(1)
	}
}

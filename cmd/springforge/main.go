// Command springforge generates source trees from domain documents.
//
// Usage:
//
//	springforge [flags] [input]
//
// Flags:
//
//	-c, --config            Configuration file (yaml, json or toml)
//	-i, --input             Directory of the domain documents
//	    --lookup            Directories merged into the input groups
//	-o, --output            Root directory of the generated sources
//	-t, --target            Render target: java or go
//	    --module            Go module path of the generated tree
//	-r, --recursive         Walk subdirectories of the input
//	-w, --watch             Regenerate when documents change
//	    --conflict          Merge conflict policy: abort or skip
//	    --log-level         debug, info, warn or error
//
// Every flag may also be set in the configuration file or through a
// SPRINGFORGE_ environment variable (SPRINGFORGE_OUTPUT, SPRINGFORGE_LOG_LEVEL).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/syssam/springforge/compiler/gen"
	"github.com/syssam/springforge/config"
	"github.com/syssam/springforge/internal/logx"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "springforge: %v\n", err)
			os.Exit(1)
		}
	}
}

func run(args []string) error {
	flags := config.Flags()
	showVersion := flags.BoolP("version", "v", false, "print the version and exit")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: springforge [flags] [input]\n\n%s", flags.FlagUsages())
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *showVersion {
		fmt.Println("springforge", version)
		return nil
	}
	switch flags.NArg() {
	case 0:
	case 1:
		if err := flags.Set("input", flags.Arg(0)); err != nil {
			return err
		}
	default:
		flags.Usage()
		return fmt.Errorf("expected at most one input directory, got %d", flags.NArg())
	}

	path, _ := flags.GetString("config")
	cfg, err := config.Load(path, flags)
	if err != nil {
		return err
	}
	log := logx.New("springforge", cfg.Log)
	defer func() { _ = log.Sync() }()

	g, err := gen.New(append(cfg.Options(), gen.WithLogger(log))...)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Watch {
		dirs := append([]string{cfg.Input}, cfg.Lookup...)
		return watch(ctx, g, dirs, cfg.Recursive, log)
	}
	res, err := g.Run(ctx)
	if err != nil {
		return err
	}
	report(log, res)
	return nil
}

func report(log *zap.Logger, res *gen.Result) {
	for _, name := range res.Skipped {
		log.Warn("kept previous output of conflicting group", zap.String("group", name))
	}
	log.Info("done",
		zap.Int("written", len(res.Written)),
		zap.Int("unchanged", len(res.Unchanged)),
		zap.Int("deleted", len(res.Deleted)),
	)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"inkwell/internal/build"
	"inkwell/internal/domain/config"
	"inkwell/internal/logger"
	"inkwell/internal/serve"
)

const indexPath = ".inkwell/index.db"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "build":
		os.Exit(runBuild(os.Args[2:]))
	case "serve":
		os.Exit(runServe(os.Args[2:]))
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: inkwell <build|serve> [flags]")
}

func setup(fs *flag.FlagSet, args []string) (config.Config, *zap.Logger, int) {
	configPath := fs.String("config", "./site.yaml", "site configuration file")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, nil, 2
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return cfg, nil, 2
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err.Error())
		return cfg, nil, 2
	}
	return cfg, log, 0
}

func runBuild(args []string) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	cfg, log, code := setup(fs, args)
	if code != 0 {
		return code
	}
	defer log.Sync() //nolint:errcheck

	b := &build.Builder{Cfg: cfg, IndexPath: indexPath, Log: log}
	res, err := b.Run(context.Background())
	if err != nil {
		log.Error("build failed", zap.Error(err))
		return 1
	}
	for _, w := range res.Warnings {
		log.Warn("build warning", zap.String("path", w.Path), zap.String("msg", w.Msg))
	}
	log.Info("build complete", zap.Int("pages", res.Pages))
	return 0
}

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", ":8080", "listen address")
	cfg, log, code := setup(fs, args)
	if code != 0 {
		return code
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := serve.New(cfg, indexPath, log)
	if err != nil {
		log.Error("serve init error", zap.Error(err))
		return 1
	}
	defer s.Close()

	if err := s.ListenAndServe(ctx, *addr); err != nil {
		log.Error("serve error", zap.Error(err))
		return 1
	}
	return 0
}

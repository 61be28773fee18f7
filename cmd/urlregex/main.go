package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/muratoffalex/urlregex/internal/app"
	"github.com/muratoffalex/urlregex/internal/config"
	"github.com/muratoffalex/urlregex/internal/logger"
)

var (
	version   string
	buildTime string
)

func main() {
	fs := config.NewFlagSet("urlregex")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(app.ExitOK)
		}
		os.Exit(app.ExitError)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(app.ExitError)
	}

	logCfg := cfg.Log()
	l := logger.NewLogrusLogger(&logCfg, os.Stderr)
	l.WithFields(logger.Fields{
		"version":    version,
		"build_time": buildTime,
	}).Debug("Starting urlregex")

	application, err := app.New(cfg, l)
	if err != nil {
		os.Exit(app.ExitError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code, err := application.Run(ctx, fs.Args(), os.Stdin, os.Stdout)
	stop()
	if err != nil {
		l.WithError(err).Error("Run failed")
	}
	os.Exit(code)
}

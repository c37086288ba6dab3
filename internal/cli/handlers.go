package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/BartekS5/uncoupledetl/internal/config"
	"github.com/BartekS5/uncoupledetl/internal/etl"
	"github.com/BartekS5/uncoupledetl/pkg/database"
	"github.com/BartekS5/uncoupledetl/pkg/logger"
	"github.com/BartekS5/uncoupledetl/pkg/report"
)

const flushTimeout = 2 * time.Second

func runPipeline(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return err
	}
	defer log.Close()

	reporter, err := report.FromDSN(cfg.SentryDSN, cfg.Environment)
	if err != nil {
		log.Warnf("error reporting disabled: %v", err)
		reporter = report.Nop{}
	}
	defer reporter.Flush(flushTimeout)

	_, err = etl.NewPipeline(etl.Options{
		Sources:  cfg.Sources,
		Target:   cfg.DatabaseURL,
		DryRun:   cfg.DryRun,
		Logger:   log,
		Reporter: reporter,
	}).RunAndReport(ctx)
	return err
}

func runCheck(out io.Writer) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	target, err := database.ParseTarget(cfg.DatabaseURL)
	if err != nil {
		return err
	}

	for _, src := range []config.Source{cfg.Sources.Characters, cfg.Sources.Pokemon} {
		fmt.Fprintf(out, "source %-10s %s (%d endpoints)\n", src.Name, src.URL, len(src.Endpoints))
	}
	fmt.Fprintf(out, "target %s\n", target.Redacted())
	fmt.Fprintf(out, "dry run %v\n", cfg.DryRun)
	return nil
}

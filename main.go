package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/rsandor/Solace-sub001/config"
	"github.com/rsandor/Solace-sub001/engine"
	"github.com/rsandor/Solace-sub001/report"
)

func main() {
	cfgPath := pflag.StringP("config", "c", "", "path to the YAML config file")
	levelList := pflag.StringP("levels", "l", "", "comma separated levels to report (default 1,25,50,75,100)")
	run := pflag.Duration("run", 0, "keep the game clock running this long after the report (0 exits)")
	pflag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	var logger *zap.Logger
	var logErr error
	if cfg.Log.Debug {
		logger, logErr = zap.NewDevelopment()
	} else {
		logger, logErr = zap.NewProduction()
	}
	if logErr != nil {
		log.Fatalf("logger: %v", logErr)
	}
	defer logger.Sync()

	levels, err := report.ParseLevels(*levelList)
	if err != nil {
		logger.Fatal("levels", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Engine ----
	eng, err := engine.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("engine", zap.Error(err))
	}
	defer func() {
		if err := eng.Stop(); err != nil {
			logger.Warn("engine stop", zap.Error(err))
		}
	}()

	// ---- Report ----
	if err := report.Write(os.Stdout, levels); err != nil {
		logger.Fatal("report", zap.Error(err))
	}
	if err := report.Passives(os.Stdout, eng.Passives); err != nil {
		logger.Fatal("report", zap.Error(err))
	}

	if *run <= 0 {
		return
	}
	eng.Start()
	logger.Info("game clock running", zap.Duration("for", *run))
	select {
	case <-time.After(*run):
	case <-ctx.Done():
	}
	fmt.Fprintf(os.Stderr, "ran %d ticks, %d recovery cycles\n", eng.Clock.Now(), eng.Recovery.Cycles())
}

// Command timingtest opens a small window showing how evenly a 120Hz
// fixed-step loop runs: a hand that turns once per second of real time
// next to a graph of the last 120 tick deltas.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/erinpentecost/timingtest/internal/config"
	"github.com/erinpentecost/timingtest/internal/host"
	"github.com/erinpentecost/timingtest/internal/overlay"
)

func newLogger(cfg config.Config) zerolog.Logger {
	var log zerolog.Logger
	if cfg.Log.Pretty {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	} else {
		log = zerolog.New(os.Stderr)
	}
	return log.Level(cfg.LogLevel()).With().Timestamp().Logger()
}

func run() error {
	configPath := flag.String("config", "", "YAML config file")
	headless := flag.Bool("headless", false, "run without a window and log a summary")
	duration := flag.Duration("duration", 3*time.Second, "how long to run in headless mode")
	plotPath := flag.String("plot", "", "write a PNG chart of the delta history here when done")
	metricsAddr := flag.String("metrics", "", "serve expvar metrics on this address")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	log := newLogger(cfg)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, err := host.New(cfg, log)
	if err != nil {
		return err
	}

	if *headless {
		snap, err := h.RunFor(ctx, *duration)
		if err != nil {
			return err
		}
		h.Summarize(snap)
		if *plotPath != "" {
			return h.WritePlot(snap, *plotPath)
		}
		return nil
	}

	if err := h.Start(); err != nil {
		return err
	}
	go func() {
		select {
		case <-ctx.Done():
			h.Stop(nil)
		case <-h.Done():
		}
	}()

	game := overlay.NewGame(h, h.Done(), cfg.Window, log.With().Str("component", "overlay").Logger())
	runErr := overlay.Run(game, cfg.Window)
	h.Stop(nil)
	<-h.Done()
	if runErr != nil {
		return fmt.Errorf("window: %w", runErr)
	}
	if err := h.Err(); err != nil {
		return err
	}

	snap, _ := h.Load()
	h.Summarize(snap)
	if *plotPath != "" {
		return h.WritePlot(snap, *plotPath)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		zerolog.New(os.Stderr).Fatal().Err(err).Msg("timingtest")
	}
}

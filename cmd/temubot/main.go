package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/mbraga/temu-price-bot/internal/bot"
	"github.com/mbraga/temu-price-bot/internal/browser"
	"github.com/mbraga/temu-price-bot/internal/captcha"
	"github.com/mbraga/temu-price-bot/internal/config"
	"github.com/mbraga/temu-price-bot/internal/delay"
	"github.com/mbraga/temu-price-bot/internal/orders"
	"github.com/mbraga/temu-price-bot/internal/scheduler"
	"github.com/mbraga/temu-price-bot/internal/session"
	"github.com/mbraga/temu-price-bot/internal/statusapi"
)

func main() {
	runNow := flag.Bool("now", false, "run the bot immediately")
	runSchedule := flag.Bool("schedule", false, "run the bot on scheduled intervals")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	headless := flag.Bool("headless", false, "run the browser in headless mode")
	flag.Parse()

	if !*runNow && !*runSchedule {
		fmt.Println("Please specify a run mode: --now or --schedule")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *headless {
		cfg.Browser.Headless = true
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}

	setupLogger(cfg)
	logger := slog.Default()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := orders.NewStore(cfg.Files.OrdersFile)
	if err != nil {
		logger.Error("failed to open orders store", "error", err)
		os.Exit(1)
	}
	sched := scheduler.New(cfg.Files.SchedulerFile)

	// The status API reads whichever bot is currently running; between runs
	// it reports the last run's counters. One-shot runs don't serve it.
	var current atomic.Pointer[bot.Bot]
	if cfg.Server.Enabled && *runSchedule {
		statsSource := func() bot.Stats {
			if b := current.Load(); b != nil {
				return b.Stats().Snapshot()
			}
			return bot.Stats{}
		}
		srv := statusapi.NewServer(cfg.Server.Port, statsSource, store, sched)
		go func() {
			if err := srv.Start(); err != nil {
				logger.Error("status server failed", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	if *runNow {
		if err := runOnce(cfg, store, sched, &current); err != nil {
			logger.Error("run failed", "error", err)
		}
		next := sched.NextRunTime()
		logger.Info("next scheduled run", "at", next.Format("02/01/2006 - 15:04:05"))
		return
	}

	runScheduled(cfg, store, sched, &current)
}

// runScheduled loops forever, firing a run whenever the scheduled moment has
// passed and dozing a random interval in between so wakeups never align to a
// fixed grid.
func runScheduled(cfg *config.Config, store *orders.Store, sched *scheduler.Scheduler, current *atomic.Pointer[bot.Bot]) {
	logger := slog.Default()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	next := sched.NextRunTime()
	logger.Info("next run scheduled", "at", next.Format("02/01/2006 - 15:04:05"))

	for {
		if time.Now().After(next) {
			if err := runOnce(cfg, store, sched, current); err != nil {
				logger.Error("run failed", "error", err)
			}
			next = sched.NextRunTime()
			logger.Info("next run scheduled", "at", next.Format("02/01/2006 - 15:04:05"))
		}

		sleep := time.Duration(300+rand.Intn(1501)) * time.Second
		logger.Info("sleeping", "duration", sleep)

		select {
		case <-time.After(sleep):
		case sig := <-sigCh:
			logger.Info("shutting down", "signal", sig.String())
			return
		}
	}
}

// runOnce owns one browser lifetime: launch, run the whole workflow, close.
func runOnce(cfg *config.Config, store *orders.Store, sched *scheduler.Scheduler, current *atomic.Pointer[bot.Bot]) error {
	logger := slog.Default()
	runID := uuid.New().String()
	logger.Info("starting run", "run_id", runID)

	driver, err := browser.NewDriver(&browser.Options{
		Headless:       cfg.Browser.Headless,
		Timeout:        cfg.Browser.Timeout,
		UserAgent:      browser.DefaultOptions().UserAgent,
		ViewportWidth:  cfg.Browser.ViewportWidth,
		ViewportHeight: cfg.Browser.ViewportHeight,
		AcceptLanguage: cfg.Browser.AcceptLanguage,
		TimezoneID:     cfg.Browser.TimezoneID,
		Locale:         cfg.Browser.Locale,
	})
	if err != nil {
		return fmt.Errorf("browser init: %w", err)
	}
	defer func() {
		if err := driver.Close(); err != nil {
			logger.Error("failed to close browser", "error", err)
		}
	}()

	delays := delay.New(
		delay.Band{Min: cfg.Delays.ShortMin, Max: cfg.Delays.ShortMax},
		delay.Band{Min: cfg.Delays.LongMin, Max: cfg.Delays.LongMax},
	)

	sess := session.NewManager(driver, cfg.Files.SessionFile, cfg.Browser.BaseURL, delays)
	solver := captcha.NewAPISolver(cfg.Captcha.APIKey, cfg.Captcha.SolverURL)
	gate := captcha.NewGate(driver, solver, delays, cfg.Captcha.HumanWait)

	b := bot.New(driver, delays, store, sched, gate, sess, cfg)
	current.Store(b)

	return b.Run()
}

func setupLogger(cfg *config.Config) {
	var level slog.Level
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var w io.Writer = os.Stdout
	if cfg.Files.LogFile != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.Files.LogFile,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

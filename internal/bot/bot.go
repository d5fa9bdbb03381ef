// Package bot drives the Temu storefront through a real browser: it logs in,
// walks the order history and requests price adjustments for orders still
// inside the adjustment window.
package bot

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mbraga/temu-price-bot/internal/browser"
	"github.com/mbraga/temu-price-bot/internal/captcha"
	"github.com/mbraga/temu-price-bot/internal/config"
	"github.com/mbraga/temu-price-bot/internal/delay"
	"github.com/mbraga/temu-price-bot/internal/orders"
	"github.com/mbraga/temu-price-bot/internal/scheduler"
	"github.com/mbraga/temu-price-bot/internal/session"
)

type Bot struct {
	pc      browser.Controller
	delays  *delay.Policy
	store   *orders.Store
	sched   *scheduler.Scheduler
	gate    *captcha.Gate
	session *session.Manager
	cfg     *config.Config
	stats   *RunStats
	logger  *slog.Logger
	now     func() time.Time
}

func New(
	pc browser.Controller,
	delays *delay.Policy,
	store *orders.Store,
	sched *scheduler.Scheduler,
	gate *captcha.Gate,
	sess *session.Manager,
	cfg *config.Config,
) *Bot {
	return &Bot{
		pc:      pc,
		delays:  delays,
		store:   store,
		sched:   sched,
		gate:    gate,
		session: sess,
		cfg:     cfg,
		stats:   NewRunStats(),
		logger:  slog.Default().With("component", "bot"),
		now:     time.Now,
	}
}

// Stats exposes the current run counters, primarily for the status API.
func (b *Bot) Stats() *RunStats {
	return b.stats
}

// Run executes one full pass: login, order enumeration and processing.
// A summary box is printed regardless of outcome. The stats object is reset
// in place so the status API's pointer stays valid across runs.
func (b *Bot) Run() error {
	b.stats.Reset()
	b.logger.Info("starting run")

	defer func() {
		b.stats.Finish()
		b.stats.PrintSummary()
	}()

	if err := b.Login(); err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if err := b.openOrdersPage(); err != nil {
		return fmt.Errorf("open orders page: %w", err)
	}

	if err := b.ProcessOrders(); err != nil {
		return fmt.Errorf("process orders: %w", err)
	}

	return nil
}

func (b *Bot) ordersURL() string {
	return b.cfg.Browser.BaseURL + "/bgt_order.html"
}

func (b *Bot) loginURL() string {
	return b.cfg.Browser.BaseURL + "/login.html"
}

func (b *Bot) orderDetailURL(id string) string {
	return b.cfg.Browser.BaseURL + "/bgt_order_detail.html?parent_order_sn=" + id
}

// savePageSource dumps the current DOM to a timestamped file so a failed
// interaction can be diagnosed offline.
func (b *Bot) savePageSource(prefix string) {
	content, err := b.pc.Content()
	if err != nil {
		b.logger.Error("failed to capture page source", "error", err)
		return
	}

	if dir := b.cfg.Files.SnapshotDir; dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			b.logger.Error("failed to create snapshot dir", "error", err)
			return
		}
	}

	name := fmt.Sprintf("page_source_%s_%s.html", prefix, b.now().Format("20060102_150405"))
	path := filepath.Join(b.cfg.Files.SnapshotDir, name)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		b.logger.Error("failed to save page source", "error", err)
		return
	}

	b.logger.Error("saved page source", "file", path)
}

package bot

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mbraga/temu-price-bot/internal/browser"
	"github.com/mbraga/temu-price-bot/internal/orders"
)

// Outcome is the tri-state result of one order's processing. An attempt that
// reached a decisive site answer is Success or Unavailable; everything else
// is Indeterminate and eligible for retry.
type Outcome int

const (
	OutcomeIndeterminate Outcome = iota
	OutcomeSuccess
	OutcomeUnavailable
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// ProcessOrders expands the full order list, filters to orders still inside
// the adjustment window and processes up to the per-run cap.
func (b *Bot) ProcessOrders() error {
	b.expandOrderList()

	summaries := b.collectOrders()
	if len(summaries) == 0 {
		b.logger.Info("no orders found")
		return nil
	}

	valid := make([]orders.Summary, 0, len(summaries))
	for _, s := range summaries {
		if s.Valid {
			valid = append(valid, s)
		}
	}

	b.stats.SetOrderCounts(len(summaries), len(valid))
	b.logger.Info("order enumeration complete",
		"total", len(summaries),
		"valid", len(valid),
		"window_days", b.cfg.Processing.WindowDays)

	max := b.cfg.Processing.MaxOrdersPerRun
	if len(valid) < max {
		max = len(valid)
	}
	toProcess := valid[:max]
	b.logger.Info("processing orders in this run", "count", len(toProcess))

	for i, summary := range toProcess {
		b.stats.IncProcessed()
		b.logger.Info("processing order",
			"position", fmt.Sprintf("%d/%d", i+1, len(toProcess)),
			"id", summary.ID,
			"date", summary.DateStr,
			"items", summary.ItemCount)

		if outcome := b.processOrder(summary); outcome != OutcomeSuccess {
			b.logger.Warn("order did not reach a successful adjustment", "id", summary.ID)
		}

		b.delays.Long("between orders")
	}

	return nil
}

// processOrder runs the per-order state machine: up to MaxAttempts full
// passes over the detail page, stopping early on any decisive outcome. The
// record is persisted after every pass so partial progress survives a crash.
func (b *Bot) processOrder(summary orders.Summary) Outcome {
	record := orders.NewRecord(summary)
	outcome := OutcomeIndeterminate
	decided := false

	for record.Attempts < b.cfg.Processing.MaxAttempts && !decided {
		record.Attempts++
		b.logger.Info("order attempt",
			"id", record.ID,
			"attempt", record.Attempts,
			"max", b.cfg.Processing.MaxAttempts)

		if err := b.openOrderDetail(record.ID); err != nil {
			b.logger.Error("failed to open order detail", "id", record.ID, "error", err)
			b.handleAttemptError(record, err)
			continue
		}

		tracking, err := b.extractTracking()
		if err != nil {
			b.logger.Error("failed to extract tracking", "id", record.ID, "error", err)
			b.handleAttemptError(record, err)
			continue
		}
		record.Tracking = tracking
		record.Details = b.extractDetails(record.ID)

		b.logger.Info("tracking extracted",
			"code", tracking.TrackingNumber,
			"delivery", tracking.FormattedDelivery)

		result, refund := b.attemptAdjustment(record.ID)
		switch result {
		case OutcomeSuccess:
			b.stats.IncSuccess()
			b.sched.RecordSuccess(b.now())
			record.MarkSuccess(refund)
			outcome, decided = OutcomeSuccess, true
		case OutcomeUnavailable:
			b.stats.IncBlocked()
			record.MarkUnavailable()
			outcome, decided = OutcomeUnavailable, true
		default:
			b.stats.IncFailures()
			record.MarkFailed("Price adjustment failed")
		}

		b.persistRecord(record)

		if err := b.returnToOrdersPage(); err != nil {
			b.logger.Warn("failed to return to orders page", "error", err)
		}
	}

	return outcome
}

// handleAttemptError records a failed pass, snapshots the page for diagnosis
// and tries to get back on the orders page before the next pass.
func (b *Bot) handleAttemptError(record *orders.Record, err error) {
	b.stats.IncFailures()
	b.savePageSource("order_" + record.ID)
	record.MarkFailed(err.Error())
	b.persistRecord(record)

	if err := b.returnToOrdersPage(); err != nil {
		b.logger.Warn("failed to return to orders page", "error", err)
	}

	b.delays.Long("before next attempt")
}

func (b *Bot) persistRecord(record *orders.Record) {
	if err := b.store.Upsert(record); err != nil {
		b.logger.Error("failed to persist order record", "id", record.ID, "error", err)
	}
	if err := orders.WriteStatusFile(record, b.cfg.Files.OrdersDir); err != nil {
		b.logger.Error("failed to write status file", "id", record.ID, "error", err)
	}
}

func (b *Bot) openOrderDetail(id string) error {
	b.logger.Info("navigating to order details", "id", id)
	if err := b.pc.Navigate(b.orderDetailURL(id)); err != nil {
		return fmt.Errorf("navigate to order detail: %w", err)
	}

	if _, err := b.pc.Find(detailPageMarker, 30*time.Second); err != nil {
		return fmt.Errorf("order detail page load: %w", err)
	}
	b.delays.Long("order detail page load")

	return nil
}

// extractTracking opens the tracking panel, scrapes the carrier number and
// delivery estimate and navigates back to the detail page.
func (b *Bot) extractTracking() (orders.TrackingInfo, error) {
	info := orders.TrackingInfo{
		TrackingNumber:    orders.Sentinel,
		DeliveryText:      orders.Sentinel,
		FormattedDelivery: orders.Sentinel,
	}

	b.logger.Info("clicking track button")
	trackBtn, err := browser.Resolve(b.pc, trackButtonStrategies, 5*time.Second)
	if err != nil {
		return info, fmt.Errorf("track button: %w", err)
	}

	if err := trackBtn.ScrollIntoView(); err != nil {
		b.logger.Warn("could not scroll to track button", "error", err)
	}
	b.delays.Short("scrolling to track button")

	if err := trackBtn.ForceClick(); err != nil {
		return info, fmt.Errorf("click track button: %w", err)
	}
	b.delays.Long("after clicking track")

	if _, err := b.pc.Find(trackingPanel, 30*time.Second); err != nil {
		return info, fmt.Errorf("tracking panel: %w", err)
	}
	b.delays.Long("tracking page load")

	if el, err := browser.Resolve(b.pc, trackingNumberStrategies, 5*time.Second); err == nil {
		if text, err := el.Text(); err == nil {
			info.TrackingNumber = cleanTrackingNumber(text)
		}
	}

	info.DeliveryText = browser.ResolveText(b.pc,
		[]browser.Strategy{deliveryInfo}, 10*time.Second, orders.Sentinel)
	info.FormattedDelivery = orders.FormatDeliveryRange(info.DeliveryText)

	if err := b.pc.Back(); err != nil {
		return info, fmt.Errorf("back from tracking: %w", err)
	}
	b.delays.Long("after going back from tracking")

	return info, nil
}

// cleanTrackingNumber strips the "Tracking Number:" label, the trailing
// "copy" control caption and all whitespace.
func cleanTrackingNumber(text string) string {
	number := text
	if strings.Contains(text, "Tracking Number:") {
		parts := strings.Split(text, "Tracking Number:")
		number = strings.TrimSpace(parts[len(parts)-1])
		if idx := strings.Index(number, "copy"); idx >= 0 {
			number = strings.TrimSpace(number[:idx])
		}
	}
	return whitespacePattern.ReplaceAllString(number, "")
}

func (b *Bot) extractDetails(orderID string) orders.Details {
	return orders.Details{
		ItemName: browser.ResolveText(b.pc,
			[]browser.Strategy{itemNameText}, 10*time.Second, orders.Sentinel),
		OrderDate: browser.ResolveText(b.pc,
			[]browser.Strategy{orderTimeText}, 10*time.Second, orders.Sentinel),
		OrderID: orderID,
	}
}

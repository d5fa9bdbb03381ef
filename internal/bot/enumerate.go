package bot

import (
	"regexp"
	"strings"
	"time"

	"github.com/mbraga/temu-price-bot/internal/browser"
	"github.com/mbraga/temu-price-bot/internal/orders"
)

var (
	orderIDPattern   = regexp.MustCompile(`PO-[\w-]+`)
	itemCountPattern = regexp.MustCompile(`(\d+)\s+items?`)
)

// expandOrderList clicks "View more" until the button disappears so the full
// history is in the DOM before scraping.
func (b *Bot) expandOrderList() {
	for b.viewMorePresent() {
		if !b.clickViewMore() {
			return
		}
		b.delays.Long("loading more orders")
	}
}

func (b *Bot) viewMorePresent() bool {
	_, err := b.pc.Find(viewMoreMarker, 10*time.Second)
	return err == nil
}

func (b *Bot) clickViewMore() bool {
	btn, err := b.pc.Find(viewMoreButton, 20*time.Second)
	if err != nil {
		b.logger.Error("view more button not clickable", "error", err)
		return false
	}

	b.delays.Short("before clicking view more")
	if err := btn.Click(); err != nil {
		b.logger.Error("failed to click view more", "error", err)
		return false
	}

	if err := b.pc.WaitGone(loadingIndicator, 30*time.Second); err != nil {
		b.logger.Warn("loading indicator still visible", "error", err)
	}
	b.delays.Short("after clicking view more")

	return true
}

// collectOrders scrapes every order container on the page into summaries. A
// container that yields no order id is skipped; unparseable dates produce a
// summary that is simply not valid for processing.
func (b *Bot) collectOrders() []orders.Summary {
	elements := b.findOrderElements()
	if len(elements) == 0 {
		b.logger.Warn("no orders found using any strategy")
		return nil
	}

	summaries := make([]orders.Summary, 0, len(elements))
	for _, el := range elements {
		summaries = append(summaries, b.extractSummary(el))
	}

	return summaries
}

func (b *Bot) findOrderElements() []browser.Element {
	for i, strategy := range orderListStrategies {
		elements, err := b.pc.FindAll(strategy, 10*time.Second)
		if err == nil && len(elements) > 0 {
			b.logger.Info("found orders", "count", len(elements), "strategy", i+1)
			return elements
		}
	}
	return nil
}

// extractSummary scrapes one order container. A container without a
// recognizable order id is still enumerated with the sentinel id so it
// counts toward the run totals; only date validity excludes orders from
// processing.
func (b *Bot) extractSummary(el browser.Element) orders.Summary {
	idText := browser.TextIn(el, "", orderIDStrategies...)
	id := orderIDPattern.FindString(idText)
	if id == "" {
		b.logger.Warn("order container without recognizable id")
		id = orders.Sentinel
	}

	dateStr := strings.TrimSpace(browser.TextIn(el, orders.Sentinel, orderDateStrategies...))

	summary := orders.Summary{
		ID:        id,
		DateStr:   dateStr,
		ItemCount: orders.Sentinel,
	}

	if d, ok := orders.ParseOrderDate(dateStr); ok {
		summary.Date = &d
		summary.Valid = orders.WithinWindow(d, b.now(), b.cfg.Processing.WindowDays)
	}

	itemsText := browser.TextIn(el, "", orderItemsStrategies...)
	if m := itemCountPattern.FindStringSubmatch(itemsText); m != nil {
		summary.ItemCount = m[1]
	}

	return summary
}

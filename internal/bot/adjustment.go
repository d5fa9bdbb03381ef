package bot

import (
	"strings"
	"time"

	"github.com/mbraga/temu-price-bot/internal/browser"
	"github.com/mbraga/temu-price-bot/internal/orders"
)

// attemptAdjustment tries to open the price adjustment dialog on the current
// detail page, up to MaxSubAttempts times. A missing button triggers a
// scroll and page refresh to defeat lazy loading before the next try. The
// refund amount accompanies a successful outcome when it could be read off
// the confirmation screen.
func (b *Bot) attemptAdjustment(orderID string) (Outcome, string) {
	b.logger.Info("attempting price adjustment", "id", orderID)

	maxSub := b.cfg.Processing.MaxSubAttempts
	for attempt := 1; attempt <= maxSub; attempt++ {
		b.logger.Info("price adjustment attempt", "attempt", attempt, "max", maxSub)

		btn := b.findAdjustmentButton()
		if btn == nil {
			b.logger.Error("price adjustment button not found", "attempt", attempt)
			if attempt == maxSub {
				return OutcomeIndeterminate, ""
			}

			// Scroll to trigger lazy loading, then reload.
			if err := b.pc.ScrollBy(0, 500); err != nil {
				b.logger.Warn("scroll failed", "error", err)
			}
			b.delays.Short("scrolling to find button")
			if err := b.pc.Reload(); err != nil {
				b.logger.Warn("page refresh failed", "error", err)
			}
			b.delays.Long("page refresh")
			continue
		}

		if err := btn.ScrollIntoView(); err != nil {
			b.logger.Warn("could not scroll to adjustment button", "error", err)
		}
		b.delays.Short("after scrolling to button")

		if err := btn.Highlight("3px solid red"); err == nil {
			b.delays.Short("highlighting button")
		}

		if err := btn.ForceClick(); err != nil {
			b.logger.Error("failed to click adjustment button", "error", err)
			continue
		}
		b.logger.Info("clicked price adjustment button")

		dialog, err := b.pc.Find(anyDialog, 15*time.Second)
		if err != nil {
			b.logger.Warn("dialog did not appear after click")
			if attempt < maxSub {
				continue
			}
			return OutcomeIndeterminate, ""
		}

		switch b.classifyOpenDialog(dialog) {
		case DialogSuccess:
			b.logger.Info("price adjustment form detected")
			return b.completeAdjustmentWizard(orderID)
		case DialogFailure:
			b.logger.Info("price adjustment not available")
			return OutcomeUnavailable, ""
		default:
			b.logger.Warn("unknown dialog type after click")
			b.closeDialog()
		}
	}

	b.logger.Error("all price adjustment attempts failed")
	return OutcomeIndeterminate, ""
}

// findAdjustmentButton walks the selector chain and returns the first
// visible element whose text actually names the adjustment action.
func (b *Bot) findAdjustmentButton() browser.Element {
	for _, strategy := range adjustmentButtonStrategies {
		elements, err := b.pc.FindAll(strategy, 0)
		if err != nil {
			continue
		}
		for _, el := range elements {
			if !el.Visible() {
				continue
			}
			text, err := el.Text()
			if err != nil {
				continue
			}
			if containsAny(text, adjustmentButtonTexts) {
				return el
			}
		}
	}
	return nil
}

func (b *Bot) classifyOpenDialog(dialog browser.Element) DialogType {
	text, err := dialog.Text()
	if err != nil {
		b.logger.Error("failed to read dialog text", "error", err)
		return DialogUnknown
	}
	b.logger.Info("dialog text", "excerpt", excerpt(text, 200))

	b.delays.Long("after dialog appears")

	pageHTML, err := b.pc.Content()
	if err != nil {
		pageHTML = ""
	}
	return ClassifyDialog(text, pageHTML)
}

func (b *Bot) closeDialog() {
	closeBtn, err := b.pc.Find(dialogCloseButton, 0)
	if err != nil {
		return
	}
	if err := closeBtn.ForceClick(); err == nil {
		b.logger.Info("closed unknown dialog")
	}
}

// completeAdjustmentWizard walks the three wizard steps: request the
// adjustment, pick the instant refund method and submit, then verifies the
// confirmation message. Each button is re-verified by its visible text
// before clicking so a stale selector cannot submit the wrong action.
func (b *Bot) completeAdjustmentWizard(orderID string) (Outcome, string) {
	b.logger.Info("starting price adjustment flow")

	if _, err := b.pc.Find(adjustmentHeading, 15*time.Second); err != nil {
		b.logger.Error("price adjustment window not detected")
		return OutcomeUnavailable, ""
	}
	b.logger.Info("price adjustment window appeared")

	requestBtn := b.findByTexts(requestButtonTexts, buttonWithText)
	if requestBtn == nil {
		b.logger.Error("request button not found in adjustment window")
		return OutcomeUnavailable, ""
	}
	if !b.clickVerified(requestBtn, requestButtonTexts) {
		return OutcomeUnavailable, ""
	}
	b.delays.Short("after clicking request button")

	if _, err := b.pc.Find(refundMethodHeading, 15*time.Second); err != nil {
		b.logger.Error("refund method selection not detected")
		return OutcomeUnavailable, ""
	}
	b.logger.Info("refund method selection appeared")

	method := b.findByTexts(refundMethodTexts, elementWithText)
	if method == nil {
		b.logger.Error("refund method option not found")
		return OutcomeUnavailable, ""
	}
	if !b.clickVerified(method, refundMethodTexts) {
		return OutcomeUnavailable, ""
	}
	b.delays.Short("after selecting refund method")

	if err := method.Highlight("2px solid green"); err == nil {
		b.delays.Short("highlighting selected method")
	}

	submitBtn := b.findByTexts(submitButtonTexts, buttonWithText)
	if submitBtn == nil {
		b.logger.Error("submit button not found")
		return OutcomeUnavailable, ""
	}
	if !b.clickVerified(submitBtn, submitButtonTexts) {
		return OutcomeUnavailable, ""
	}
	b.delays.Long("after submitting request")

	for _, text := range confirmationTexts {
		if _, err := b.pc.Find(anyWithText(text), 10*time.Second); err == nil {
			b.logger.Info("confirmation found", "text", text)
			refund := b.extractRefundAmount()
			b.logger.Info("price adjustment succeeded", "id", orderID, "refund", refund)
			return OutcomeSuccess, refund
		}
	}

	b.logger.Error("confirmation message not found")
	b.savePageSource("adjustment_failure_" + orderID)
	return OutcomeUnavailable, ""
}

// findByTexts tries each candidate text with the given strategy builder and
// returns the first visible element whose text contains that candidate.
func (b *Bot) findByTexts(texts []string, build func(string) browser.Strategy) browser.Element {
	for _, text := range texts {
		elements, err := b.pc.FindAll(build(text), 0)
		if err != nil {
			continue
		}
		for _, el := range elements {
			if !el.Visible() {
				continue
			}
			actual, err := el.Text()
			if err != nil {
				continue
			}
			if strings.Contains(actual, text) {
				b.logger.Info("found element", "text", text)
				return el
			}
		}
	}
	return nil
}

// clickVerified re-checks the element text against the accepted set, scrolls
// it into view with a randomized pause and force-clicks it.
func (b *Bot) clickVerified(el browser.Element, texts []string) bool {
	text, err := el.Text()
	if err != nil || !containsAny(text, texts) {
		b.logger.Error("element text verification failed")
		return false
	}

	if err := el.ScrollIntoView(); err != nil {
		b.logger.Warn("could not scroll to element", "error", err)
	}
	b.delays.Short("after scrolling to element")

	if err := el.ForceClick(); err != nil {
		b.logger.Error("click failed", "error", err)
		return false
	}
	return true
}

func (b *Bot) extractRefundAmount() string {
	elements, err := b.pc.FindAll(refundAmountElements, 0)
	if err != nil {
		return orders.Sentinel
	}
	for _, el := range elements {
		text, err := el.Text()
		if err != nil {
			continue
		}
		if strings.Contains(text, "$") || strings.Contains(text, "R$") {
			return strings.TrimSpace(text)
		}
	}
	return orders.Sentinel
}

func containsAny(s string, candidates []string) bool {
	for _, c := range candidates {
		if strings.Contains(s, c) {
			return true
		}
	}
	return false
}

func excerpt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

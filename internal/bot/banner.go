package bot

import (
	"errors"
	"time"

	"github.com/mbraga/temu-price-bot/internal/browser"
)

// dismissPrivacyBanner closes the cookie consent overlay when present.
// Absence of the banner is not an error; a banner that resists every close
// strategy only logs a warning, since the page usually stays usable.
func (b *Bot) dismissPrivacyBanner() {
	b.delays.Short("before checking privacy banner")

	_, err := browser.Resolve(b.pc, privacyBannerStrategies, 5*time.Second)
	if err != nil {
		if errors.Is(err, browser.ErrNotFound) {
			b.logger.Info("no privacy banner found")
		} else {
			b.logger.Warn("privacy banner check failed", "error", err)
		}
		return
	}

	b.logger.Info("privacy banner found, attempting to close")

	accept, err := browser.Resolve(b.pc, acceptAllStrategies, 5*time.Second)
	if err != nil {
		// No accept button; ESC usually dismisses the overlay.
		if err := b.pc.Press("Escape"); err != nil {
			b.logger.Warn("could not close privacy banner", "error", err)
			return
		}
		b.logger.Info("pressed ESC to close privacy banner")
		return
	}

	b.delays.Short("before clicking accept all")
	if err := accept.ScrollIntoView(); err != nil {
		b.logger.Warn("could not scroll to accept button", "error", err)
	}
	b.delays.Short("scrolling to accept all")

	if err := accept.Click(); err != nil {
		if err := accept.ForceClick(); err != nil {
			b.logger.Warn("could not click accept all", "error", err)
			return
		}
	}

	b.logger.Info("accepted privacy banner")
	b.delays.Short("after closing privacy banner")
}

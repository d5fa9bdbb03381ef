package bot

import (
	"errors"
	"fmt"
	"time"

	"github.com/mbraga/temu-price-bot/internal/browser"
)

// Login signs in to the storefront. A cached session is tried first; on a
// cold login the email step is best-effort because a restored but expired
// session sometimes lands directly on the password or CAPTCHA step.
func (b *Bot) Login() error {
	b.logger.Info("navigating to login page")
	if err := b.pc.Navigate(b.loginURL()); err != nil {
		return fmt.Errorf("navigate to login page: %w", err)
	}
	b.delays.Short("login page load")

	b.dismissPrivacyBanner()

	if b.session.Restore() {
		b.logger.Info("logged in using cached session")
		return nil
	}

	b.submitEmail()

	if err := b.gate.Pass(); err != nil {
		return fmt.Errorf("captcha gate: %w", err)
	}

	password, err := b.pc.Find(passwordField, 60*time.Second)
	if err != nil {
		return fmt.Errorf("password field: %w", err)
	}
	b.delays.Short("before typing password")
	if err := password.Fill(b.cfg.Account.Password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	b.delays.Short("typing password")

	signIn, err := b.pc.Find(submitButton, 30*time.Second)
	if err != nil {
		return fmt.Errorf("sign in button: %w", err)
	}
	b.delays.Short("before clicking sign in")
	if err := signIn.Click(); err != nil {
		return fmt.Errorf("click sign in: %w", err)
	}
	b.delays.Short("after clicking sign in")

	if _, err := b.pc.Find(accountMarker, 30*time.Second); err != nil {
		return fmt.Errorf("login verification: %w", err)
	}

	if err := b.session.Save(); err != nil {
		b.logger.Warn("failed to save session", "error", err)
	}

	return nil
}

// submitEmail fills the email field and advances to the password step. The
// field being absent is tolerated: the flow proceeds to the CAPTCHA gate and
// password step regardless.
func (b *Bot) submitEmail() {
	email, err := b.pc.Find(emailField, 30*time.Second)
	if err != nil {
		if errors.Is(err, browser.ErrNotFound) {
			b.logger.Warn("email field not found, proceeding to password step")
		} else {
			b.logger.Warn("email field lookup failed", "error", err)
		}
		return
	}

	b.delays.Short("before typing email")
	if err := email.Fill(b.cfg.Account.Email); err != nil {
		b.logger.Warn("failed to fill email", "error", err)
		return
	}
	b.delays.Short("typing email")

	cont, err := b.pc.Find(submitButton, 30*time.Second)
	if err != nil {
		b.logger.Warn("continue button not found", "error", err)
		return
	}
	b.delays.Short("before clicking continue")
	if err := cont.Click(); err != nil {
		b.logger.Warn("failed to click continue", "error", err)
		return
	}
	b.delays.Short("after clicking continue")
}

// openOrdersPage clicks through to the order history after login.
func (b *Bot) openOrdersPage() error {
	b.logger.Info("navigating to orders page")

	ordersBtn, err := b.pc.Find(accountButton, 30*time.Second)
	if err != nil {
		return fmt.Errorf("orders button: %w", err)
	}
	b.delays.Short("before clicking orders")
	if err := ordersBtn.Click(); err != nil {
		return fmt.Errorf("click orders button: %w", err)
	}

	if _, err := b.pc.Find(orderContainer, 30*time.Second); err != nil {
		return fmt.Errorf("orders page load: %w", err)
	}
	b.delays.Short("orders page load")

	return nil
}

// returnToOrdersPage navigates back to the order history by URL, used after
// processing a detail page.
func (b *Bot) returnToOrdersPage() error {
	if err := b.pc.Navigate(b.ordersURL()); err != nil {
		return fmt.Errorf("navigate to orders page: %w", err)
	}
	if _, err := b.pc.Find(orderContainer, 30*time.Second); err != nil {
		return fmt.Errorf("orders page load: %w", err)
	}
	b.delays.Long("navigating back to orders page")
	return nil
}

// Package session persists authentication cookies between runs so most runs
// skip the credential + CAPTCHA login entirely.
package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mbraga/temu-price-bot/internal/browser"
	"github.com/mbraga/temu-price-bot/internal/delay"
)

// authMarker is the element only rendered for a signed-in account; its
// presence is what "the session is valid" means.
var authMarker = browser.XPath("//div[text()='Orders & Account']", browser.StatePresent)

type Manager struct {
	pc      browser.Controller
	file    string
	baseURL string
	delays  *delay.Policy
	logger  *slog.Logger
}

func NewManager(pc browser.Controller, file, baseURL string, delays *delay.Policy) *Manager {
	return &Manager{
		pc:      pc,
		file:    file,
		baseURL: baseURL,
		delays:  delays,
		logger:  slog.Default().With("component", "session"),
	}
}

// Save serializes the current cookie set. Failures are reported, never
// propagated as a run abort; a run that cannot cache its session still ran.
func (m *Manager) Save() error {
	cookies, err := m.pc.Cookies()
	if err != nil {
		m.logger.Error("failed to read cookies", "error", err)
		return fmt.Errorf("failed to read cookies: %w", err)
	}

	data, err := json.MarshalIndent(cookies, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := os.WriteFile(m.file, data, 0600); err != nil {
		m.logger.Error("failed to save session", "error", err)
		return fmt.Errorf("failed to save session: %w", err)
	}

	m.logger.Info("session saved")
	return nil
}

// Restore applies a cached cookie set and checks for the authenticated-only
// marker. Any failure along the way means the session is unusable and the
// caller must fall back to a full credential login; there is no partial
// session reuse.
func (m *Manager) Restore() bool {
	data, err := os.ReadFile(m.file)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Info("no session file found")
		} else {
			m.logger.Error("failed to read session file", "error", err)
		}
		return false
	}

	var cookies []browser.Cookie
	if err := json.Unmarshal(data, &cookies); err != nil {
		m.logger.Warn("corrupted session file", "error", err)
		return false
	}

	if err := m.pc.Navigate(m.baseURL); err != nil {
		m.logger.Error("failed to open site for session restore", "error", err)
		return false
	}

	if err := m.pc.SetCookies(sanitize(cookies)); err != nil {
		m.logger.Error("failed to apply cached cookies", "error", err)
		return false
	}

	if err := m.pc.Navigate(m.baseURL); err != nil {
		m.logger.Error("failed to reload site with session", "error", err)
		return false
	}
	m.delays.Short("after loading cached session")

	if _, err := m.pc.Find(authMarker, 15*time.Second); err != nil {
		m.logger.Warn("cached session is invalid")
		return false
	}

	m.logger.Info("cached session is valid")
	return true
}

// sanitize drops malformed sameSite values left behind by older session
// files; everything else about the cookie is kept.
func sanitize(cookies []browser.Cookie) []browser.Cookie {
	out := make([]browser.Cookie, 0, len(cookies))
	for _, c := range cookies {
		switch strings.ToLower(c.SameSite) {
		case "strict", "lax", "none":
		default:
			c.SameSite = ""
		}
		out = append(out, c)
	}
	return out
}

// Package captcha gates the login flow on the site's verification challenge:
// an automated solve through an external service first, a bounded wait for a
// human to finish the challenge as fallback.
package captcha

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fatih/color"

	"github.com/mbraga/temu-price-bot/internal/browser"
	"github.com/mbraga/temu-price-bot/internal/delay"
)

// ErrUnresolved means neither the solver nor the human window cleared the
// challenge; the login flow must fail.
var ErrUnresolved = errors.New("captcha unresolved")

// passwordField appearing is how challenge completion is detected: the site
// only renders it once the verification step is out of the way.
var passwordField = browser.XPath("//input[@aria-label='Password']", browser.StateVisible)

// Solver is the external solving capability.
type Solver interface {
	Solve(pc browser.Controller) error
}

// APISolver submits the current page to a commercial solving service.
type APISolver struct {
	apiKey string
	url    string
	client *http.Client
	logger *slog.Logger
}

func NewAPISolver(apiKey, url string) *APISolver {
	return &APISolver{
		apiKey: apiKey,
		url:    url,
		client: &http.Client{Timeout: 90 * time.Second},
		logger: slog.Default().With("component", "captcha_solver"),
	}
}

func (s *APISolver) Solve(pc browser.Controller) error {
	if s.apiKey == "" {
		return fmt.Errorf("no captcha api key configured")
	}

	html, err := pc.Content()
	if err != nil {
		return fmt.Errorf("failed to capture challenge page: %w", err)
	}

	payload, err := json.Marshal(map[string]string{"html": html})
	if err != nil {
		return fmt.Errorf("failed to encode challenge: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build solver request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("solver request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("solver returned status %d", resp.StatusCode)
	}

	var result struct {
		Solved bool `json:"solved"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode solver response: %w", err)
	}
	if !result.Solved {
		return fmt.Errorf("solver could not resolve the challenge")
	}

	s.logger.Info("captcha solved by service")
	return nil
}

// Gate wraps a solver with the human-intervention fallback.
type Gate struct {
	pc        browser.Controller
	solver    Solver
	delays    *delay.Policy
	humanWait time.Duration
	logger    *slog.Logger
}

func NewGate(pc browser.Controller, solver Solver, delays *delay.Policy, humanWait time.Duration) *Gate {
	return &Gate{
		pc:        pc,
		solver:    solver,
		delays:    delays,
		humanWait: humanWait,
		logger:    slog.Default().With("component", "captcha"),
	}
}

// Pass attempts the automated solve, then blocks for up to the human window
// waiting for the operator to finish the challenge in the browser.
func (g *Gate) Pass() error {
	g.delays.Range(3*time.Second, 6*time.Second, "before captcha solving")
	g.logger.Info("attempting to solve captcha")

	err := g.solver.Solve(g.pc)
	if err == nil {
		return nil
	}
	g.logger.Error("automated captcha solving failed", "error", err)

	g.logger.Warn("waiting for manual captcha intervention", "window", g.humanWait)
	banner := color.New(color.FgYellow, color.Bold)
	banner.Println("================================================================")
	banner.Println("CAPTCHA SOLVING FAILED - MANUAL INTERVENTION REQUIRED")
	banner.Println("Solve the challenge in the browser window; the bot resumes alone.")
	banner.Printf("You have %s to complete this action.\n", g.humanWait)
	banner.Println("================================================================")

	if _, err := g.pc.Find(passwordField, g.humanWait); err != nil {
		g.logger.Error("manual captcha window elapsed")
		return fmt.Errorf("%w after %s", ErrUnresolved, g.humanWait)
	}

	g.logger.Info("captcha resolved manually, continuing")
	return nil
}

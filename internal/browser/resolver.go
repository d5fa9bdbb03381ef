package browser

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Resolve tries each strategy in order, giving each a bounded wait for its
// readiness state, and returns the first element found. Retry across
// strategies is the resilience mechanism; a single strategy is never retried
// past its own timeout.
func Resolve(pc Controller, strategies []Strategy, timeout time.Duration) (Element, error) {
	logger := slog.Default().With("component", "resolver")

	for i, s := range strategies {
		el, err := pc.Find(s, timeout)
		if err == nil {
			logger.Debug("strategy matched", "index", i+1, "selector", s.Selector)
			return el, nil
		}
		logger.Debug("strategy missed", "index", i+1, "selector", s.Selector)
	}

	return nil, fmt.Errorf("%w after %d strategies", ErrNotFound, len(strategies))
}

// ResolveText resolves a strategy list and returns the element's trimmed text,
// or fallback when no strategy matches. Field extraction failures degrade to
// a sentinel instead of discarding the surrounding record.
func ResolveText(pc Controller, strategies []Strategy, timeout time.Duration, fallback string) string {
	el, err := Resolve(pc, strategies, timeout)
	if err != nil {
		return fallback
	}

	text, err := el.Text()
	if err != nil {
		return fallback
	}

	return strings.TrimSpace(text)
}

// ResolveIn searches within a parent element, trying each strategy without a
// wait. Used for field extraction inside already-located containers.
func ResolveIn(parent Element, strategies ...Strategy) (Element, error) {
	for _, s := range strategies {
		if el, err := parent.Find(s); err == nil {
			return el, nil
		}
	}

	return nil, fmt.Errorf("%w within parent after %d strategies", ErrNotFound, len(strategies))
}

// TextIn is ResolveIn followed by a trimmed text read, with a fallback.
func TextIn(parent Element, fallback string, strategies ...Strategy) string {
	el, err := ResolveIn(parent, strategies...)
	if err != nil {
		return fallback
	}

	text, err := el.Text()
	if err != nil {
		return fallback
	}

	return strings.TrimSpace(text)
}

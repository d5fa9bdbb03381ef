package orders

import (
	"regexp"
	"strings"
	"time"
)

const orderTimeLabel = "Order time:"

// datePatterns pairs a recognizer regex with the layouts attempted on its
// match. Order matters: month-name formats first, then numeric day-first
// before month-first. The day-first preference on numeric dates mirrors the
// site's pt-BR locale and is deliberately not locale-aware.
var datePatterns = []struct {
	re      *regexp.Regexp
	layouts []string
}{
	{regexp.MustCompile(`[A-Z][a-z]{2} \d{1,2},? \d{4}`), []string{"Jan 2 2006"}},
	{regexp.MustCompile(`\d{1,2} [A-Z][a-z]{2} \d{4}`), []string{"2 Jan 2006"}},
	{regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`), []string{"2/1/2006", "1/2/2006"}},
	{regexp.MustCompile(`\d{1,2}-\d{1,2}-\d{4}`), []string{"2-1-2006", "1-2-2006"}},
}

// ParseOrderDate extracts a calendar date from free order text. Returns
// false when no supported pattern parses. A leading "Order time:" label is
// stripped and the remainder reparsed.
func ParseOrderDate(raw string) (time.Time, bool) {
	for _, p := range datePatterns {
		match := p.re.FindString(raw)
		if match == "" {
			continue
		}

		candidate := strings.ReplaceAll(match, ",", "")
		for _, layout := range p.layouts {
			if d, err := time.Parse(layout, candidate); err == nil {
				return d, true
			}
		}
	}

	if idx := strings.Index(raw, orderTimeLabel); idx >= 0 {
		return ParseOrderDate(raw[idx+len(orderTimeLabel):])
	}

	return time.Time{}, false
}

// ValidateOrderDate reports whether the order falls inside the 30-day price
// adjustment window. The site's own dialog remains the authority; this is
// only the client-side pre-filter.
func ValidateOrderDate(d time.Time) bool {
	return WithinWindow(d, time.Now(), 30)
}

// WithinWindow reports d >= now - days. A date exactly at the boundary is
// still inside the window.
func WithinWindow(d, now time.Time, days int) bool {
	return !d.Before(now.AddDate(0, 0, -days))
}

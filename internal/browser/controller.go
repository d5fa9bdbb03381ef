package browser

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a strategy list is exhausted without a match.
var ErrNotFound = errors.New("element not found")

// ReadyState is the readiness an element must reach before a strategy succeeds.
type ReadyState string

const (
	StatePresent   ReadyState = "present"
	StateVisible   ReadyState = "visible"
	StateClickable ReadyState = "clickable"
)

// Kind selects the selector engine for a strategy.
type Kind string

const (
	ByCSS   Kind = "css"
	ByXPath Kind = "xpath"
)

// Strategy is one (selector-kind, selector-value, readiness) triple. The
// target site's class names are obfuscated and churn between deploys, so
// every lookup carries an ordered list of these instead of a single selector.
type Strategy struct {
	Kind     Kind
	Selector string
	State    ReadyState
}

func CSS(selector string, state ReadyState) Strategy {
	return Strategy{Kind: ByCSS, Selector: selector, State: state}
}

func XPath(selector string, state ReadyState) Strategy {
	return Strategy{Kind: ByXPath, Selector: selector, State: state}
}

// Cookie is a driver-independent cookie representation so sessions can be
// serialized without tying the store to a specific automation library.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// Element is a located page element.
type Element interface {
	Text() (string, error)
	HTML() (string, error)
	Visible() bool
	Click() error
	// ForceClick dispatches a script click, bypassing overlay interception.
	ForceClick() error
	Fill(value string) error
	ScrollIntoView() error
	Highlight(border string) error
	// Find searches within this element without waiting.
	Find(s Strategy) (Element, error)
}

// Controller is the page-automation capability consumed by the bot. A real
// browser driver and the test stubs both implement it.
type Controller interface {
	Navigate(url string) error
	Back() error
	Reload() error

	// Find waits up to timeout for a single element to reach the strategy's
	// readiness state. A zero timeout performs an immediate lookup.
	Find(s Strategy, timeout time.Duration) (Element, error)
	// FindAll waits up to timeout for at least one match, then returns all
	// current matches.
	FindAll(s Strategy, timeout time.Duration) ([]Element, error)
	// WaitGone blocks until the target is hidden or detached.
	WaitGone(s Strategy, timeout time.Duration) error

	Press(key string) error
	ScrollBy(x, y int) error
	Content() (string, error)

	Cookies() ([]Cookie, error)
	SetCookies(cookies []Cookie) error
}

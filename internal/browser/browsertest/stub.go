// Package browsertest provides a scriptable in-memory Controller for tests.
// Lookups resolve against a selector-keyed element map by default; func
// fields override individual operations when a test needs page behavior to
// change over time.
package browsertest

import (
	"time"

	"github.com/mbraga/temu-price-bot/internal/browser"
)

type Stub struct {
	Elements map[string]*StubElement
	HTML     string
	Jar      []browser.Cookie

	NavigateFunc func(url string) error
	FindFunc     func(s browser.Strategy, timeout time.Duration) (browser.Element, error)
	FindAllFunc  func(s browser.Strategy, timeout time.Duration) ([]browser.Element, error)
	WaitGoneFunc func(s browser.Strategy, timeout time.Duration) error

	URLs    []string
	Backs   int
	Reloads int
	Scrolls int
	Pressed []string
}

func New() *Stub {
	return &Stub{Elements: make(map[string]*StubElement)}
}

func (st *Stub) Navigate(url string) error {
	st.URLs = append(st.URLs, url)
	if st.NavigateFunc != nil {
		return st.NavigateFunc(url)
	}
	return nil
}

func (st *Stub) Back() error {
	st.Backs++
	return nil
}

func (st *Stub) Reload() error {
	st.Reloads++
	return nil
}

func (st *Stub) Find(s browser.Strategy, timeout time.Duration) (browser.Element, error) {
	if st.FindFunc != nil {
		return st.FindFunc(s, timeout)
	}
	if el, ok := st.Elements[s.Selector]; ok {
		return el, nil
	}
	return nil, browser.ErrNotFound
}

func (st *Stub) FindAll(s browser.Strategy, timeout time.Duration) ([]browser.Element, error) {
	if st.FindAllFunc != nil {
		return st.FindAllFunc(s, timeout)
	}
	if el, ok := st.Elements[s.Selector]; ok {
		return []browser.Element{el}, nil
	}
	return nil, browser.ErrNotFound
}

func (st *Stub) WaitGone(s browser.Strategy, timeout time.Duration) error {
	if st.WaitGoneFunc != nil {
		return st.WaitGoneFunc(s, timeout)
	}
	return nil
}

func (st *Stub) Press(key string) error {
	st.Pressed = append(st.Pressed, key)
	return nil
}

func (st *Stub) ScrollBy(x, y int) error {
	st.Scrolls++
	return nil
}

func (st *Stub) Content() (string, error) {
	return st.HTML, nil
}

func (st *Stub) Cookies() ([]browser.Cookie, error) {
	return st.Jar, nil
}

func (st *Stub) SetCookies(cookies []browser.Cookie) error {
	st.Jar = append(st.Jar, cookies...)
	return nil
}

type StubElement struct {
	TextValue string
	HTMLValue string
	Hidden    bool
	ClickErr  error
	Children  map[string]*StubElement

	Clicks      int
	ForceClicks int
	Filled      []string
}

func (e *StubElement) Text() (string, error) { return e.TextValue, nil }

func (e *StubElement) HTML() (string, error) { return e.HTMLValue, nil }

func (e *StubElement) Visible() bool { return !e.Hidden }

func (e *StubElement) Click() error {
	if e.ClickErr != nil {
		return e.ClickErr
	}
	e.Clicks++
	return nil
}

func (e *StubElement) ForceClick() error {
	e.ForceClicks++
	return nil
}

func (e *StubElement) Fill(value string) error {
	e.Filled = append(e.Filled, value)
	return nil
}

func (e *StubElement) ScrollIntoView() error { return nil }

func (e *StubElement) Highlight(border string) error { return nil }

func (e *StubElement) Find(s browser.Strategy) (browser.Element, error) {
	if el, ok := e.Children[s.Selector]; ok {
		return el, nil
	}
	return nil, browser.ErrNotFound
}

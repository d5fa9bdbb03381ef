package browser

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Options configures the real browser driver.
type Options struct {
	Headless       bool
	Timeout        time.Duration
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	AcceptLanguage string
	TimezoneID     string
	Locale         string
}

func DefaultOptions() *Options {
	return &Options{
		Headless:       false,
		Timeout:        30 * time.Second,
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		AcceptLanguage: "en-US,en;q=0.9,pt-BR;q=0.8",
		TimezoneID:     "America/Sao_Paulo",
		Locale:         "en-US",
	}
}

// Driver implements Controller on top of a Chromium instance. One driver owns
// one page for the whole run; the workflow is strictly sequential.
type Driver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	logger  *slog.Logger
}

func NewDriver(opts *Options) (*Driver, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-infobars",
			"--disable-notifications",
			"--disable-popup-blocking",
			"--window-size=1920,1080",
			"--start-maximized",
			"--user-agent=" + opts.UserAgent,
		},
	}

	b, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := b.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:  &opts.UserAgent,
		Locale:     &opts.Locale,
		TimezoneId: &opts.TimezoneID,
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
		ExtraHttpHeaders: map[string]string{
			"Accept-Language": opts.AcceptLanguage,
		},
	})
	if err != nil {
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page.SetDefaultTimeout(float64(opts.Timeout.Milliseconds()))

	return &Driver{
		pw:      pw,
		browser: b,
		context: context,
		page:    page,
		logger:  slog.Default().With("component", "browser"),
	}, nil
}

func (d *Driver) Close() error {
	var errs []error

	if d.context != nil {
		if err := d.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close context: %w", err))
		}
	}

	if d.browser != nil {
		if err := d.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
	}

	if d.pw != nil {
		if err := d.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}

	return nil
}

func (d *Driver) Navigate(url string) error {
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}

	return nil
}

func (d *Driver) Back() error {
	_, err := d.page.GoBack(playwright.PageGoBackOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	return err
}

func (d *Driver) Reload() error {
	_, err := d.page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	return err
}

func (d *Driver) Find(s Strategy, timeout time.Duration) (Element, error) {
	// A zero timeout means an immediate lookup, not playwright's "wait
	// forever" semantics.
	if timeout <= 0 {
		handle, err := d.page.QuerySelector(engineSelector(s))
		if err != nil || handle == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Selector)
		}
		return &pwElement{handle: handle}, nil
	}

	handle, err := d.page.WaitForSelector(engineSelector(s), playwright.PageWaitForSelectorOptions{
		State:   waitState(s.State),
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil || handle == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Selector)
	}

	if s.State == StateClickable {
		enabled, err := handle.IsEnabled()
		if err != nil || !enabled {
			return nil, fmt.Errorf("%w: %s not clickable", ErrNotFound, s.Selector)
		}
	}

	return &pwElement{handle: handle}, nil
}

func (d *Driver) FindAll(s Strategy, timeout time.Duration) ([]Element, error) {
	// Wait for at least one match, then snapshot all of them.
	if _, err := d.Find(s, timeout); err != nil {
		return nil, err
	}

	handles, err := d.page.QuerySelectorAll(engineSelector(s))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.Selector, err)
	}

	elements := make([]Element, 0, len(handles))
	for _, h := range handles {
		elements = append(elements, &pwElement{handle: h})
	}

	return elements, nil
}

func (d *Driver) WaitGone(s Strategy, timeout time.Duration) error {
	_, err := d.page.WaitForSelector(engineSelector(s), playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	return err
}

func (d *Driver) Press(key string) error {
	return d.page.Keyboard().Press(key)
}

func (d *Driver) ScrollBy(x, y int) error {
	_, err := d.page.Evaluate(fmt.Sprintf("window.scrollBy(%d, %d)", x, y))
	return err
}

func (d *Driver) Content() (string, error) {
	return d.page.Content()
}

func (d *Driver) Cookies() ([]Cookie, error) {
	raw, err := d.context.Cookies()
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}

	cookies := make([]Cookie, 0, len(raw))
	for _, c := range raw {
		cookie := Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HttpOnly,
			Secure:   c.Secure,
		}
		if c.SameSite != nil {
			cookie.SameSite = string(*c.SameSite)
		}
		cookies = append(cookies, cookie)
	}

	return cookies, nil
}

func (d *Driver) SetCookies(cookies []Cookie) error {
	converted := make([]playwright.OptionalCookie, 0, len(cookies))
	for _, c := range cookies {
		oc := playwright.OptionalCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   playwright.String(c.Domain),
			Path:     playwright.String(c.Path),
			HttpOnly: playwright.Bool(c.HTTPOnly),
			Secure:   playwright.Bool(c.Secure),
		}
		if c.Expires > 0 {
			oc.Expires = playwright.Float(c.Expires)
		}
		// Malformed sameSite values from older session files are dropped
		// rather than rejected wholesale.
		if ss := sameSite(c.SameSite); ss != nil {
			oc.SameSite = ss
		}
		converted = append(converted, oc)
	}

	if err := d.context.AddCookies(converted); err != nil {
		return fmt.Errorf("failed to set cookies: %w", err)
	}

	return nil
}

type pwElement struct {
	handle playwright.ElementHandle
}

func (e *pwElement) Text() (string, error) {
	return e.handle.InnerText()
}

func (e *pwElement) HTML() (string, error) {
	html, err := e.handle.Evaluate("el => el.outerHTML")
	if err != nil {
		return "", fmt.Errorf("failed to read element html: %w", err)
	}

	s, ok := html.(string)
	if !ok {
		return "", fmt.Errorf("unexpected html payload %T", html)
	}

	return s, nil
}

func (e *pwElement) Visible() bool {
	visible, err := e.handle.IsVisible()
	return err == nil && visible
}

func (e *pwElement) Click() error {
	return e.handle.Click()
}

func (e *pwElement) ForceClick() error {
	_, err := e.handle.Evaluate("el => el.click()")
	return err
}

func (e *pwElement) Fill(value string) error {
	return e.handle.Fill(value)
}

func (e *pwElement) ScrollIntoView() error {
	_, err := e.handle.Evaluate("el => el.scrollIntoView({block: 'center', behavior: 'smooth'})")
	return err
}

func (e *pwElement) Highlight(border string) error {
	_, err := e.handle.Evaluate(fmt.Sprintf("el => el.style.border = '%s'", border))
	return err
}

func (e *pwElement) Find(s Strategy) (Element, error) {
	handle, err := e.handle.QuerySelector(engineSelector(s))
	if err != nil || handle == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.Selector)
	}

	return &pwElement{handle: handle}, nil
}

func engineSelector(s Strategy) string {
	if s.Kind == ByXPath {
		return "xpath=" + s.Selector
	}
	return s.Selector
}

func waitState(state ReadyState) *playwright.WaitForSelectorState {
	if state == StatePresent {
		return playwright.WaitForSelectorStateAttached
	}
	return playwright.WaitForSelectorStateVisible
}

func sameSite(value string) *playwright.SameSiteAttribute {
	switch strings.ToLower(value) {
	case "strict":
		return playwright.SameSiteAttributeStrict
	case "lax":
		return playwright.SameSiteAttributeLax
	case "none":
		return playwright.SameSiteAttributeNone
	default:
		return nil
	}
}

package browser

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/entrhq/scout/pkg/capture"
	"github.com/entrhq/scout/pkg/logging"
	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
)

// Options configures the Playwright driver.
type Options struct {
	Headless bool

	// NavTimeoutMs bounds navigations; soft navigations during exploration
	// use a shorter internal timeout.
	NavTimeoutMs float64

	// ActionTimeoutMs bounds clicks and fills.
	ActionTimeoutMs float64
}

const (
	defaultNavTimeoutMs    = 30000.0
	defaultActionTimeoutMs = 5000.0
)

// PlaywrightDriver implements Driver on a Chromium page and feeds every
// observed request/response into the capture accumulator.
type PlaywrightDriver struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	acc     *capture.Accumulator
	log     *logging.Logger
	opts    Options
	reqIDs  requestRegistry
}

// requestRegistry assigns each in-flight request a stable join ID.
// Entries live from the request event until its response or failure;
// holding the request as key keeps it reachable, so its identity cannot
// be reused while a record is pending.
type requestRegistry struct {
	mu  sync.Mutex
	ids map[any]string
}

// acquire returns the key's ID, assigning one on first sight.
func (r *requestRegistry) acquire(key any) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ids == nil {
		r.ids = make(map[any]string)
	}
	id, ok := r.ids[key]
	if !ok {
		id = uuid.NewString()
		r.ids[key] = id
	}
	return id
}

// release removes the key and returns its ID, or "" when never seen.
func (r *requestRegistry) release(key any) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.ids[key]
	delete(r.ids, key)
	return id
}

// NewPlaywrightDriver launches Chromium and taps the page's network events
// into acc.
func NewPlaywrightDriver(acc *capture.Accumulator, opts Options) (*PlaywrightDriver, error) {
	if opts.NavTimeoutMs == 0 {
		opts.NavTimeoutMs = defaultNavTimeoutMs
	}
	if opts.ActionTimeoutMs == 0 {
		opts.ActionTimeoutMs = defaultActionTimeoutMs
	}

	runOpts := &playwright.RunOptions{Verbose: false, Stdout: io.Discard, Stderr: io.Discard}
	if err := playwright.Install(runOpts); err != nil {
		return nil, fmt.Errorf("failed to install playwright: %w", err)
	}
	pw, err := playwright.Run(runOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}
	page, err := browser.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	log, _ := logging.NewLogger("browser")
	d := &PlaywrightDriver{
		pw:      pw,
		browser: browser,
		page:    page,
		acc:     acc,
		log:     log,
		opts:    opts,
	}
	d.tapNetwork()
	return d, nil
}

// tapNetwork forwards the page's request/response streams to the capture
// accumulator. Response handling runs on its own goroutine because the
// risk gate behind the accumulator may block on a human decision; the
// browser's event dispatch must not stall behind it.
func (d *PlaywrightDriver) tapNetwork() {
	d.page.On("request", func(req playwright.Request) {
		headers, err := req.AllHeaders()
		if err != nil {
			headers = nil
		}
		body := ""
		if pd, err := req.PostData(); err == nil {
			body = pd
		}
		d.acc.OnRequest(d.reqIDs.acquire(req), capture.RequestInfo{
			Method:       req.Method(),
			URL:          req.URL(),
			Headers:      headers,
			Body:         body,
			ResourceType: req.ResourceType(),
		})
	})

	d.page.On("requestfailed", func(req playwright.Request) {
		if id := d.reqIDs.release(req); id != "" {
			d.acc.OnRequestFailed(id)
		}
	})

	d.page.On("response", func(resp playwright.Response) {
		req := resp.Request()
		id := d.reqIDs.release(req)
		method := req.Method()
		go func() {
			headers, err := resp.AllHeaders()
			if err != nil {
				headers = nil
			}
			d.acc.OnResponse(capture.ObservedResponse{
				RequestID:   id,
				Method:      method,
				URL:         resp.URL(),
				Status:      resp.Status(),
				Headers:     headers,
				ContentType: contentType(headers),
				Body:        resp.Text,
			})
		}()
	})
}

func contentType(headers map[string]string) string {
	for k, v := range headers {
		if strings.EqualFold(k, "content-type") {
			return v
		}
	}
	return ""
}

// Navigate loads url and waits according to the policy.
func (d *PlaywrightDriver) Navigate(ctx context.Context, url string, wait WaitPolicy) error {
	state := playwright.WaitUntilStateLoad
	switch wait {
	case WaitDOMReady:
		state = playwright.WaitUntilStateDomcontentloaded
	case WaitNetworkIdle:
		state = playwright.WaitUntilStateNetworkidle
	}
	_, err := d.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: state,
		Timeout:   playwright.Float(d.opts.NavTimeoutMs),
	})
	if err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// Screenshot captures the current viewport as PNG bytes.
func (d *PlaywrightDriver) Screenshot(ctx context.Context) ([]byte, error) {
	shot, err := d.page.Screenshot(playwright.PageScreenshotOptions{})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return shot, nil
}

// GetPageContext summarizes the current page from its rendered HTML.
func (d *PlaywrightDriver) GetPageContext(ctx context.Context) (*PageContext, error) {
	content, err := d.page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}
	return ExtractPageContext(content, d.page.URL()), nil
}

// GetNavigationCandidates lists visible navigation targets on the current
// page, deduplicated and capped.
func (d *PlaywrightDriver) GetNavigationCandidates(ctx context.Context) ([]Candidate, error) {
	content, err := d.page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}
	return ExtractCandidates(content, d.page.URL()), nil
}

// ClickByText clicks the first element containing the visible text.
func (d *PlaywrightDriver) ClickByText(ctx context.Context, text string) error {
	err := d.page.GetByText(text).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(d.opts.ActionTimeoutMs),
	})
	if err != nil {
		return fmt.Errorf("click by text %q failed: %w", text, err)
	}
	return nil
}

// ClickByRole clicks the element with the ARIA role and accessible name.
func (d *PlaywrightDriver) ClickByRole(ctx context.Context, role, name string) error {
	err := d.page.GetByRole(playwright.AriaRole(role), playwright.PageGetByRoleOptions{
		Name: name,
	}).First().Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(d.opts.ActionTimeoutMs),
	})
	if err != nil {
		return fmt.Errorf("click by role %s %q failed: %w", role, name, err)
	}
	return nil
}

// Fill fills the input matching selector with value.
func (d *PlaywrightDriver) Fill(ctx context.Context, selector, value string) error {
	err := d.page.Locator(selector).Fill(value, playwright.LocatorFillOptions{
		Timeout: playwright.Float(d.opts.ActionTimeoutMs),
	})
	if err != nil {
		return fmt.Errorf("fill %q failed: %w", selector, err)
	}
	return nil
}

// Press sends a key press to the focused element.
func (d *PlaywrightDriver) Press(ctx context.Context, key string) error {
	if err := d.page.Keyboard().Press(key); err != nil {
		return fmt.Errorf("key press %q failed: %w", key, err)
	}
	return nil
}

// GoBack navigates back in history.
func (d *PlaywrightDriver) GoBack(ctx context.Context) error {
	_, err := d.page.GoBack(playwright.PageGoBackOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(d.opts.NavTimeoutMs),
	})
	if err != nil {
		return fmt.Errorf("go back failed: %w", err)
	}
	return nil
}

// CurrentURL returns the page's current URL.
func (d *PlaywrightDriver) CurrentURL() string {
	return d.page.URL()
}

// Close shuts the browser and Playwright down.
func (d *PlaywrightDriver) Close() error {
	d.page.Close()
	d.browser.Close()
	if err := d.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

// Package rod fetches rendered HTML through a headless Chrome browser
// driven by go-rod.
package rod

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pkobus/gleaner"
)

// Ensure Fetcher implements gleaner.Fetcher at compile time.
var _ gleaner.Fetcher = (*Fetcher)(nil)

// Defaults applied when no option overrides them.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"
	DefaultWidth     = 1366
	DefaultHeight    = 768

	// networkIdleWindow is how long the network must stay quiet before
	// WaitPolicyNetworkIdle considers the page loaded.
	networkIdleWindow = 500 * time.Millisecond

	// DefaultMaxPages is how many pages a browser serves before it is
	// recycled. Chrome accumulates memory over time and the baseline never
	// returns to initial levels even with proper page cleanup.
	DefaultMaxPages = 75
)

// Fetcher retrieves rendered HTML from URLs using Chrome browser
// automation. It owns one browser session for its lifetime; each Fetch
// opens a fresh page, installs the resource gate on it, and closes it when
// done. Fetcher is safe for concurrent use, though the pipeline drives it
// serially per lane.
type Fetcher struct {
	timeout   time.Duration
	userAgent string
	width     int
	height    int
	policy    gleaner.WaitPolicy
	gate      *gleaner.ResourceGate
	proxy     string
	maxPages  int64

	mu        sync.Mutex
	browser   *rod.Browser
	launcher  *launcher.Launcher
	pageCount int64
	closed    atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-fetch navigation timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithUserAgent sets the User-Agent string applied to every page before
// navigation.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithViewport sets the fixed viewport size applied to every page before
// navigation.
func WithViewport(width, height int) Option {
	return func(f *Fetcher) { f.width, f.height = width, height }
}

// WithWaitPolicy selects the load-completion signal.
func WithWaitPolicy(policy gleaner.WaitPolicy) Option {
	return func(f *Fetcher) { f.policy = policy }
}

// WithResourceGate installs a custom resource gate. The gate is bound to
// every page the fetcher opens.
func WithResourceGate(gate *gleaner.ResourceGate) Option {
	return func(f *Fetcher) { f.gate = gate }
}

// WithProxy routes the browser session through the given proxy endpoint.
// The proxy is fixed for the session's lifetime.
func WithProxy(addr string) Option {
	return func(f *Fetcher) { f.proxy = addr }
}

// WithMaxPages sets the page count before the browser is recycled.
func WithMaxPages(n int64) Option {
	return func(f *Fetcher) { f.maxPages = n }
}

// NewFetcher launches a headless Chrome browser session.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched; callers
// treat that as fatal.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		width:     DefaultWidth,
		height:    DefaultHeight,
		policy:    gleaner.WaitPolicyNetworkIdle,
		gate:      gleaner.DefaultResourceGate(),
		maxPages:  DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	if err := f.launchBrowser(); err != nil {
		return nil, err
	}
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML snapshot taken
// after the configured load-completion signal. Cancellation of ctx is
// honored before navigation begins; an in-flight navigation completes or
// times out regardless.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := f.currentBrowser()
	if err != nil {
		return "", err
	}

	// Cancellation is a between-URLs signal, observed by the entry check
	// above and by the pipeline before the next URL. Once navigation
	// starts it runs to completion; only the per-fetch deadline bounds it.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.timeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", classifyNavError(err)
	}
	defer page.Close()

	page = page.Context(ctx)

	// Reduce trivial bot-detection signals before any request goes out.
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
		return "", classifyNavError(err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             f.width,
		Height:            f.height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return "", classifyNavError(err)
	}

	// The gate is installed per page instance: interception handlers are
	// page state, not browser state.
	router := page.HijackRequests()
	if err := router.Add("*", "", func(h *rod.Hijack) {
		if f.gate.Allow(string(h.Request.Type())) {
			h.ContinueRequest(&proto.FetchContinueRequest{})
			return
		}
		h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
	}); err != nil {
		return "", classifyNavError(err)
	}
	go router.Run()
	defer func() { _ = router.Stop() }()

	// Arm the idle waiter before navigation so early requests count.
	var waitIdle func()
	if f.policy == gleaner.WaitPolicyNetworkIdle {
		waitIdle = page.WaitRequestIdle(networkIdleWindow, nil, nil, nil)
	}

	if err := page.Navigate(url); err != nil {
		return "", classifyNavError(err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", classifyNavError(err)
	}
	if waitIdle != nil {
		waitIdle()
		if err := ctx.Err(); err != nil {
			return "", classifyNavError(err)
		}
	}

	html, err := page.HTML()
	if err != nil {
		return "", classifyNavError(err)
	}

	atomic.AddInt64(&f.pageCount, 1)
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closeBrowser()
}

// currentBrowser returns the session's browser, recycling it once the page
// count reaches maxPages.
func (f *Fetcher) currentBrowser() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.browser == nil {
		return nil, gleaner.Errorf(gleaner.EUNAVAILABLE, "browser session closed")
	}
	if atomic.LoadInt64(&f.pageCount) >= f.maxPages {
		f.recycleBrowser()
	}
	return f.browser, nil
}

// launchBrowser starts a new browser instance with stability flags.
func (f *Fetcher) launchBrowser() error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	if f.proxy != "" {
		lnchr = lnchr.Proxy(f.proxy)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = lnchr
	return nil
}

// closeBrowser shuts down the current browser and launcher.
// Must be called with mu held.
func (f *Fetcher) closeBrowser() error {
	var err error
	if f.browser != nil {
		err = f.browser.Close()
		f.browser = nil
	}
	if f.launcher != nil {
		f.launcher.Kill()
		f.launcher = nil
	}
	return err
}

// recycleBrowser starts a fresh browser and closes the old one. If the new
// launch fails the old browser is kept. Must be called with mu held.
func (f *Fetcher) recycleBrowser() {
	oldBrowser := f.browser
	oldLauncher := f.launcher
	f.browser = nil
	f.launcher = nil

	if err := f.launchBrowser(); err != nil {
		f.browser = oldBrowser
		f.launcher = oldLauncher
		return
	}

	if oldBrowser != nil {
		_ = oldBrowser.Close()
	}
	if oldLauncher != nil {
		oldLauncher.Kill()
	}
	atomic.StoreInt64(&f.pageCount, 0)
}

// classifyNavError maps transport and rendering failures onto the
// application error taxonomy: deadline problems become ETIMEOUT, everything
// else EUNAVAILABLE.
func classifyNavError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return gleaner.Errorf(gleaner.ETIMEOUT, "navigation timeout: %v", err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return gleaner.Errorf(gleaner.EUNAVAILABLE, "navigation failed: %v", err)
}

// Package browser starts Chromium sessions tuned to get past the bot
// protection in front of the DTEK shutdowns page.
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"dtek-schedule/internal/logging"
)

const (
	// DefaultUserAgent mimics a current desktop Chrome on Windows.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	acceptLanguage = "uk-UA,uk;q=0.9,en-US;q=0.8,en;q=0.7"

	hideWebdriverJS = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`
)

// SessionError means a browser could not be started or attached to.
type SessionError struct {
	Op  string
	Err error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("browser session %s: %v", e.Op, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// Options configures how sessions are created.
type Options struct {
	ExecPath  string // explicit binary; located automatically when empty
	RemoteURL string // DevTools websocket of an already running browser
	Headless  bool
	UserAgent string
}

// Provider creates one browser session per Acquire call.
type Provider struct {
	opts   Options
	locate func() string
	log    zerolog.Logger
}

func NewProvider(opts Options) *Provider {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Provider{
		opts:   opts,
		locate: locateSystemBrowser,
		log:    logging.New("browser"),
	}
}

// execPath returns the binary to launch, or "" to let chromedp search.
func (p *Provider) execPath() string {
	if p.opts.ExecPath != "" {
		return p.opts.ExecPath
	}
	return p.locate()
}

func (p *Provider) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := make([]chromedp.ExecAllocatorOption, 0, len(chromedp.DefaultExecAllocatorOptions)+8)
	opts = append(opts, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", p.opts.Headless),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.UserAgent(p.opts.UserAgent),
		chromedp.WindowSize(1366, 768),
	)
	if path := p.execPath(); path != "" {
		opts = append(opts, chromedp.ExecPath(path))
		p.log.Debug().Str("path", path).Msg("using browser binary")
	} else {
		p.log.Debug().Msg("no system browser found, falling back to chromedp lookup")
	}
	return opts
}

// Acquire starts (or attaches to) a browser and opens a fresh tab with the
// automation fingerprints suppressed. The session lives until Close or
// until ctx is done, whichever comes first.
func (p *Provider) Acquire(ctx context.Context) (*Session, error) {
	var (
		allocCtx    context.Context
		cancelAlloc context.CancelFunc
	)
	if p.opts.RemoteURL != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(ctx, p.opts.RemoteURL)
	} else {
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(ctx, p.allocatorOptions()...)
	}
	taskCtx, cancelTask := chromedp.NewContext(allocCtx)

	s := &Session{ctx: taskCtx, cancelTask: cancelTask, cancelAlloc: cancelAlloc}

	// The first Run launches the browser.
	if err := chromedp.Run(taskCtx, p.stealth()...); err != nil {
		_ = s.Close()
		return nil, &SessionError{Op: "start", Err: err}
	}
	return s, nil
}

func (p *Provider) stealth() []chromedp.Action {
	return []chromedp.Action{
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(hideWebdriverJS).Do(ctx)
			return err
		}),
		emulation.SetUserAgentOverride(p.opts.UserAgent).WithAcceptLanguage(acceptLanguage),
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": acceptLanguage}),
	}
}

// Session is one browser tab.
type Session struct {
	ctx         context.Context
	cancelTask  context.CancelFunc
	cancelAlloc context.CancelFunc

	once     sync.Once
	closeErr error
}

// Navigate loads url and waits for the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

// Evaluate runs a script expression in the page and decodes its result into res.
func (s *Session) Evaluate(ctx context.Context, expr string, res any) error {
	return s.run(ctx, chromedp.Evaluate(expr, res))
}

// HTML returns the current document markup.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	err := s.run(ctx, chromedp.Evaluate(`document.documentElement ? document.documentElement.outerHTML : ""`, &html))
	return html, err
}

// Close shuts the tab and, for locally launched browsers, the browser
// process. Safe to call more than once.
func (s *Session) Close() error {
	s.once.Do(func() {
		s.closeErr = chromedp.Cancel(s.ctx)
		s.cancelTask()
		s.cancelAlloc()
	})
	return s.closeErr
}

// run executes actions on the tab, aborting them early if ctx is done.
// Cancelling a child of the tab context stops the actions, not the tab.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

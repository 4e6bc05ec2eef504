// Package scrape drives a browser session through the DTEK shutdowns page
// and turns the injected DisconSchedule object into a schedule.Snapshot.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dtek-schedule/internal/browser"
	"dtek-schedule/internal/logging"
	"dtek-schedule/internal/schedule"
)

// Page is the part of a browser tab the pipeline needs.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Evaluate(ctx context.Context, expr string, res any) error
	HTML(ctx context.Context) (string, error)
}

// Session is a Page that must be closed.
type Session interface {
	Page
	Close() error
}

// AcquireFunc opens a new browser session.
type AcquireFunc func(ctx context.Context) (Session, error)

// BrowserSessions adapts a browser.Provider to an AcquireFunc.
func BrowserSessions(p *browser.Provider) AcquireFunc {
	return func(ctx context.Context) (Session, error) {
		s, err := p.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

// Pipeline performs one end-to-end scrape per Fetch call.
type Pipeline struct {
	url       string
	acquire   AcquireFunc
	poller    *Poller
	debugPath string
	now       func() time.Time
	log       zerolog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDebugDump writes the page markup to path when extraction fails.
func WithDebugDump(path string) Option {
	return func(p *Pipeline) { p.debugPath = path }
}

// WithClock overrides the clock used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithSleeper overrides how the readiness poll waits between checks.
func WithSleeper(s Sleeper) Option {
	return func(p *Pipeline) { p.poller.sleep = s }
}

func NewPipeline(url string, acquire AcquireFunc, policy RetryPolicy, opts ...Option) *Pipeline {
	p := &Pipeline{
		url:     url,
		acquire: acquire,
		poller:  NewPoller(policy, nil),
		now:     time.Now,
		log:     logging.New("scrape"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Fetch opens a session, loads the page, waits for the data and extracts it.
// The session is closed on every return path.
func (p *Pipeline) Fetch(ctx context.Context) (*schedule.Snapshot, error) {
	log := p.log.With().Str("attempt", uuid.NewString()).Logger()
	start := time.Now()

	session, err := p.acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire browser: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Debug().Err(err).Msg("close browser session")
		}
	}()

	log.Info().Str("url", p.url).Msg("loading page")
	if err := session.Navigate(ctx, p.url); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", p.url, err)
	}

	if err := p.poller.WaitReady(ctx, session); err != nil {
		if !errors.Is(err, ErrLoadTimeout) {
			return nil, fmt.Errorf("wait for page: %w", err)
		}
		log.Warn().Msg("page may not have fully loaded, proceeding anyway")
	}

	preset, fact := Extract(ctx, session, log)
	if preset == nil || fact == nil {
		p.dumpPage(ctx, session, log)
		return nil, &ExtractionError{MissingPreset: preset == nil, MissingFact: fact == nil}
	}

	log.Info().
		Str("update", fact.Update).
		Int("days", len(fact.Data)).
		Dur("took", time.Since(start)).
		Msg("schedule extracted")
	return &schedule.Snapshot{Preset: preset, Fact: fact, FetchedAt: p.now()}, nil
}

func (p *Pipeline) dumpPage(ctx context.Context, page Page, log zerolog.Logger) {
	if p.debugPath == "" {
		return
	}
	html, err := page.HTML(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("read page source for debug dump")
		return
	}
	if err := os.WriteFile(p.debugPath, []byte(html), 0o644); err != nil {
		log.Warn().Err(err).Str("path", p.debugPath).Msg("write debug dump")
		return
	}
	log.Info().Str("path", p.debugPath).Msg("saved page source for inspection")
}

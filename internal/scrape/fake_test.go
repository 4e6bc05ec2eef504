package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

// fakePage answers script evaluations from canned results.
type fakePage struct {
	mu sync.Mutex

	navigateErr error
	html        string

	// readySequence is consumed one entry per ReadyExpr evaluation; the
	// last entry repeats.
	readySequence []readyResult
	readyCalls    int

	preset    any // string result for presetExpr
	presetErr error
	fact      any
	factErr   error

	navigated []string
	closed    int
}

type readyResult struct {
	ready bool
	err   error
}

func (p *fakePage) Navigate(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.navigated = append(p.navigated, url)
	return p.navigateErr
}

func (p *fakePage) Evaluate(_ context.Context, expr string, res any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch expr {
	case ReadyExpr:
		var r readyResult
		if len(p.readySequence) > 0 {
			i := p.readyCalls
			if i >= len(p.readySequence) {
				i = len(p.readySequence) - 1
			}
			r = p.readySequence[i]
		}
		p.readyCalls++
		if r.err != nil {
			return r.err
		}
		*res.(*bool) = r.ready
		return nil
	case presetExpr:
		return assign(res, p.preset, p.presetErr)
	case factExpr:
		return assign(res, p.fact, p.factErr)
	}
	return errors.New("unexpected expression")
}

func assign(res any, v any, err error) error {
	if err != nil {
		return err
	}
	s, _ := v.(string)
	*res.(*string) = s
	return nil
}

func (p *fakePage) HTML(context.Context) (string, error) {
	return p.html, nil
}

func (p *fakePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed++
	return nil
}

// recordingSleeper never blocks; it records requested durations.
type recordingSleeper struct {
	mu    sync.Mutex
	slept []time.Duration
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slept = append(s.slept, d)
	return ctx.Err()
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

const (
	testPreset = `{"sch_names":{"GPV3.1":"Черга 3.1"}}`
)

var testFact = map[string]any{
	"today":  1700000000,
	"update": "16.11.2023 10:00",
	"data": map[string]any{
		"1700000000": map[string]any{
			"GPV3.1": map[string]string{"1": "no", "13": "yes", "24": "first"},
		},
	},
}

package scrape

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"dtek-schedule/internal/logging"
)

// ReadyExpr is true once the page script has populated DisconSchedule.
const ReadyExpr = `typeof DisconSchedule !== 'undefined' && !!DisconSchedule.fact && !!DisconSchedule.preset`

// ErrLoadTimeout means the readiness poll ran out of time. It is soft:
// the pipeline logs it and still attempts extraction.
var ErrLoadTimeout = errors.New("page readiness not confirmed before timeout")

// progressEvery controls how often a still-waiting poll is logged.
const progressEvery = 6 * time.Second

// RetryPolicy bounds the readiness poll.
type RetryPolicy struct {
	Interval time.Duration
	Timeout  time.Duration
}

// DefaultRetryPolicy polls every 2 seconds for up to 30 seconds.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Interval: 2 * time.Second, Timeout: 30 * time.Second}
}

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Poller waits for the page's data object to appear.
type Poller struct {
	policy RetryPolicy
	sleep  Sleeper
	log    zerolog.Logger
}

func NewPoller(policy RetryPolicy, sleep Sleeper) *Poller {
	if sleep == nil {
		sleep = sleepCtx
	}
	return &Poller{policy: policy, sleep: sleep, log: logging.New("poller")}
}

// WaitReady evaluates ReadyExpr until it is true, the policy timeout is
// used up (ErrLoadTimeout) or ctx is done. Evaluation errors count as
// "not ready yet" since the script context is unstable while the page boots.
func (p *Poller) WaitReady(ctx context.Context, page Page) error {
	var waited time.Duration
	for waited < p.policy.Timeout {
		if err := ctx.Err(); err != nil {
			return err
		}

		var ready bool
		err := page.Evaluate(ctx, ReadyExpr, &ready)
		if err == nil && ready {
			p.log.Debug().Dur("waited", waited).Msg("page ready")
			return nil
		}
		if err != nil {
			p.log.Trace().Err(err).Msg("readiness check failed")
		}

		if err := p.sleep(ctx, p.policy.Interval); err != nil {
			return err
		}
		waited += p.policy.Interval
		if waited%progressEvery == 0 {
			p.log.Info().Msgf("waiting for page to load... (%s)", waited)
		}
	}
	return ErrLoadTimeout
}

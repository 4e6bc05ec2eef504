package cache

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// StartWarmer refreshes c on the given cron schedule until the returned
// cron is stopped. An invalid expression is returned as an error.
func StartWarmer(spec string, c *Cache) (*cron.Cron, error) {
	sched := cron.New()
	_, err := sched.AddFunc(spec, func() {
		if _, err := c.Refresh(context.Background()); err != nil {
			c.log.Warn().Err(err).Msg("scheduled refresh failed")
			return
		}
		c.log.Debug().Msg("scheduled refresh done")
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression %q: %w", spec, err)
	}
	sched.Start()
	return sched, nil
}

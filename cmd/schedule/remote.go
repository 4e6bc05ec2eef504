package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"dtek-schedule/internal/client"
	"dtek-schedule/internal/schedule"
)

// fetchRemote reads the schedule from a running API and rebuilds the part of
// the fact document that render needs.
func fetchRemote(ctx context.Context, w io.Writer, c *client.Client, queue string) (*schedule.Fact, error) {
	fact := &schedule.Fact{Data: map[string]map[string]map[string]string{}}

	// The queue list carries the site's own "today". It is 404 only when
	// today's day key is absent, so any day served below is tomorrow.
	queues, err := c.Queues(ctx)
	var apiErr *client.APIError
	todayMissing := false
	switch {
	case err == nil:
		fact.Today = queues.Today
		fact.Update = queues.UpdateTime
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound:
		todayMissing = true
	default:
		return nil, err
	}

	resp, err := c.Schedule(ctx, queue, 2)
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		fmt.Fprintln(w, "Error: Could not extract schedule data for", queue)
		if len(apiErr.AvailableQueues) > 0 {
			fmt.Fprintln(w, "Available queues:", apiErr.AvailableQueues)
		}
		return nil, fmt.Errorf("queue %s: %w", queue, schedule.ErrNoDataForQueue)
	}
	if err != nil {
		return nil, err
	}

	if todayMissing && len(resp.Days) > 0 {
		fact.Today = resp.Days[0].Timestamp - schedule.DaySeconds
	}
	for _, day := range resp.Days {
		hours := make(map[string]string, len(day.Schedule))
		for _, e := range day.Schedule {
			hours[strconv.Itoa(e.Hour+1)] = e.Status
		}
		fact.Data[strconv.FormatInt(day.Timestamp, 10)] = map[string]map[string]string{queue: hours}
	}
	return fact, nil
}

func runRemote(ctx context.Context, w io.Writer, server, password, queue string) error {
	fact, err := fetchRemote(ctx, w, client.NewClient(server, password), queue)
	if err != nil {
		return err
	}
	return render(w, fact, queue, time.Now())
}

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"dtek-schedule/internal/schedule"
)

// render prints today's and tomorrow's rows for queue. It fails with
// schedule.ErrNoDataForQueue, after listing the known queues, when neither
// day has data.
func render(w io.Writer, fact *schedule.Fact, queue string, now time.Time) error {
	today := schedule.Today(fact, now)
	todayHours, okToday := schedule.Normalize(fact, queue, today)
	tomorrowHours, okTomorrow := schedule.Normalize(fact, queue, today+schedule.DaySeconds)

	if !okToday && !okTomorrow {
		fmt.Fprintln(w, "Error: Could not extract schedule data for", queue)
		if available := schedule.AvailableQueues(fact); len(available) > 0 {
			fmt.Fprintln(w, "Available queues:", available)
		}
		return fmt.Errorf("queue %s: %w", queue, schedule.ErrNoDataForQueue)
	}

	header := schedule.Header()
	block := func(title string, hours []schedule.HourStatus, ok bool) {
		fmt.Fprintf(w, "\n%s:\n%s\n", title, header)
		if ok {
			fmt.Fprintln(w, schedule.Row(hours))
		} else {
			fmt.Fprintln(w, "No data available")
		}
	}
	block("Today", todayHours, okToday)
	block("Tomorrow", tomorrowHours, okTomorrow)
	return nil
}

func banner(w io.Writer, queue string) {
	fmt.Fprintf(w, "Fetching today's schedule for %s...\n", queue)
	fmt.Fprintln(w, strings.Repeat("-", 50))
}

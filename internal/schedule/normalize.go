package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// ErrNoDataForQueue means neither requested day has an entry for the queue.
var ErrNoDataForQueue = errors.New("no schedule data for queue")

// Normalize returns the 24 hourly statuses of queue on the given day.
// Hour h is read from raw key h+1 since the upstream data uses hours 1-24.
// It reports false when the day key is missing or the queue is absent or empty.
func Normalize(fact *Fact, queue string, day int64) ([]HourStatus, bool) {
	if fact == nil {
		return nil, false
	}
	dayData, ok := fact.Data[strconv.FormatInt(day, 10)]
	if !ok {
		return nil, false
	}
	hours := dayData[queue]
	if len(hours) == 0 {
		return nil, false
	}

	out := make([]HourStatus, HoursPerDay)
	for h := range HoursPerDay {
		out[h] = ParseStatus(hours[strconv.Itoa(h+1)])
	}
	return out, true
}

// Today returns the day key of "today": the value embedded in the fact
// document, or local midnight of now when the document lacks one.
func Today(fact *Fact, now time.Time) int64 {
	if fact != nil && fact.Today != 0 {
		return fact.Today
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).Unix()
}

// Resolve normalizes queue for day offsets [0, days) starting at today.
// Days without data are skipped, so the result may be shorter than days.
func Resolve(fact *Fact, queue string, today int64, days int) []Day {
	result := make([]Day, 0, days)
	for offset := range days {
		ts := today + int64(offset)*DaySeconds
		hours, ok := Normalize(fact, queue, ts)
		if !ok {
			continue
		}
		result = append(result, Day{Timestamp: ts, Hours: hours})
	}
	return result
}

// AvailableQueues lists the queue IDs of the first known day, sorted.
// Day keys are compared numerically so the earliest day wins.
func AvailableQueues(fact *Fact) []string {
	if fact == nil || len(fact.Data) == 0 {
		return nil
	}
	var (
		first    string
		firstNum int64
	)
	for key := range fact.Data {
		n, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		if first == "" || n < firstNum {
			first, firstNum = key, n
		}
	}
	if first == "" {
		return nil
	}

	queues := make([]string, 0, len(fact.Data[first]))
	for q := range fact.Data[first] {
		queues = append(queues, q)
	}
	sort.Strings(queues)
	return queues
}

// QueueNames reads the display names from the preset document's sch_names.
// A preset without them yields an empty map.
func QueueNames(preset json.RawMessage) map[string]string {
	if len(preset) == 0 {
		return map[string]string{}
	}
	var p presetNames
	if err := json.Unmarshal(preset, &p); err != nil || p.SchNames == nil {
		return map[string]string{}
	}
	return p.SchNames
}

// Queues returns the queues available on day, with names taken from the preset.
func Queues(snap *Snapshot, day int64) ([]QueueInfo, error) {
	if snap == nil || snap.Fact == nil {
		return nil, ErrNoDataForQueue
	}
	dayData, ok := snap.Fact.Data[strconv.FormatInt(day, 10)]
	if !ok {
		return nil, fmt.Errorf("day %d: %w", day, ErrNoDataForQueue)
	}

	names := QueueNames(snap.Preset)
	queues := make([]QueueInfo, 0, len(dayData))
	for q := range dayData {
		name := q
		if n, ok := names[q]; ok {
			name = n
		}
		queues = append(queues, QueueInfo{ID: q, Name: name})
	}
	sort.Slice(queues, func(i, j int) bool { return queues[i].ID < queues[j].ID })
	return queues, nil
}

package schedule

import (
	"encoding/json"
	"time"
)

const (
	// DefaultQueue is the queue served when a request does not name one.
	DefaultQueue = "GPV3.1"
	// DaySeconds separates consecutive day keys in Fact.Data.
	DaySeconds int64 = 86400
	// HoursPerDay is the number of entries in a normalized day.
	HoursPerDay = 24
)

// Fact is the DTEK "fact" document injected into the shutdowns page as
// DisconSchedule.fact.
type Fact struct {
	// Data is keyed by unix day timestamp string, then queue ID, then hour (1-24).
	// Values: "yes" (power on), "no" (power off), "first" (off first 30min), "second" (off second 30min).
	Data map[string]map[string]map[string]string `json:"data"`

	Update string `json:"update"`
	Today  int64  `json:"today"`
}

// presetNames is the only part of DisconSchedule.preset we read.
type presetNames struct {
	SchNames map[string]string `json:"sch_names"`
}

// Snapshot is one successful scrape. It is never mutated after it is cached.
type Snapshot struct {
	Preset    json.RawMessage `json:"preset"`
	Fact      *Fact           `json:"fact"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Day is the normalized schedule of one queue for one day.
type Day struct {
	Timestamp int64
	Hours     []HourStatus
}

// QueueInfo is an entry in the queue list with ID and human-readable name.
type QueueInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

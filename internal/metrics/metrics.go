// Package metrics exposes scrape and cache counters to Prometheus.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cache request outcomes.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheStale = "stale"
)

// Recorder receives cache and fetch events.
type Recorder interface {
	ObserveFetch(d time.Duration, err error)
	CacheRequest(result string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) ObserveFetch(time.Duration, error) {}
func (Nop) CacheRequest(string)               {}

// Prom records events in Prometheus collectors.
type Prom struct {
	fetches  *prometheus.CounterVec
	duration prometheus.Histogram
	requests *prometheus.CounterVec
}

// NewProm registers the collectors on reg, reusing ones already registered.
// A nil reg means the default registerer.
func NewProm(reg prometheus.Registerer) (*Prom, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dtek_fetch_total",
		Help: "Scrapes of the DTEK shutdowns page by result",
	}, []string{"result"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dtek_fetch_duration_seconds",
		Help:    "Wall time of one scrape including browser start",
		Buckets: []float64{1, 2, 5, 10, 20, 30, 45, 60, 90},
	})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dtek_cache_requests_total",
		Help: "Snapshot cache lookups by result",
	}, []string{"result"})

	var err error
	if fetches, err = register(reg, fetches); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if requests, err = register(reg, requests); err != nil {
		return nil, err
	}
	return &Prom{fetches: fetches, duration: duration, requests: requests}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (p *Prom) ObserveFetch(d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.fetches.WithLabelValues(result).Inc()
	p.duration.Observe(d.Seconds())
}

func (p *Prom) CacheRequest(result string) {
	p.requests.WithLabelValues(result).Inc()
}

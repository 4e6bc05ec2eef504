package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dtek-schedule/internal/config"
	"dtek-schedule/internal/schedule"
)

type failingSnapshots struct{}

func (failingSnapshots) Get(context.Context) (*schedule.Snapshot, error) {
	return nil, errors.New("browser unavailable")
}

func (failingSnapshots) Stale() *schedule.Snapshot { return nil }

func TestNewApp_Routes(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	app := newApp(cfg, failingSnapshots{}, prometheus.NewRegistry())

	tests := []struct {
		target string
		want   int
	}{
		{"/", http.StatusOK},
		{"/health", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/schedule", http.StatusUnauthorized},
		{"/schedule?password=" + cfg.APIPassword, http.StatusInternalServerError},
		{"/schedule/simple?password=" + cfg.APIPassword + "&days=x", http.StatusBadRequest},
		{"/queues?password=wrong", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.target, nil), -1)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

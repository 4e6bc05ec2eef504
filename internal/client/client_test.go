package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedule", r.URL.Path)
		assert.Equal(t, "pw", r.URL.Query().Get("password"))
		assert.Equal(t, "GPV1.1", r.URL.Query().Get("queue"))
		assert.Equal(t, "2", r.URL.Query().Get("days"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"queue":"GPV1.1","update_time":"16.11.2023 10:00","days":[
			{"date":"2023-11-14","day_name":"Tuesday","timestamp":1700000000,"schedule":[{"hour":0,"status":"no"},{"hour":1,"status":"yes"}]}]}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, "pw").Schedule(context.Background(), "GPV1.1", 2)
	require.NoError(t, err)
	assert.Equal(t, "GPV1.1", resp.Queue)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, int64(1700000000), resp.Days[0].Timestamp)
	assert.Equal(t, HourEntry{Hour: 1, Status: "yes"}, resp.Days[0].Schedule[1])
}

func TestSchedule_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"No data available","message":"No schedule data found for queue GPV9.9","available_queues":["GPV1.1"]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "pw").Schedule(context.Background(), "GPV9.9", 1)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, []string{"GPV1.1"}, apiErr.AvailableQueues)
	assert.Contains(t, err.Error(), "No schedule data found for queue GPV9.9")
}

func TestQueues_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "pw").Queues(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Contains(t, apiErr.Message, "bad gateway")
}

func TestQueues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/queues", r.URL.Path)
		_, _ = w.Write([]byte(`{"today":1700000000,"update_time":"unknown","queues":[{"id":"GPV3.1","name":"Черга 3.1"}]}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, "pw").Queues(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), resp.Today)
	assert.Equal(t, []QueueInfo{{ID: "GPV3.1", Name: "Черга 3.1"}}, resp.Queues)
}

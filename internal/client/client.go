// Package client reads schedules from a running DTEK Schedule API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to the schedule API.
type Client struct {
	baseURL    string
	password   string
	httpClient *http.Client
}

// NewClient creates a client for the API at baseURL, authenticating with password.
func NewClient(baseURL, password string) *Client {
	return &Client{
		baseURL:  baseURL,
		password: password,
		httpClient: &http.Client{
			// A cache miss on the server runs a full browser scrape.
			Timeout: 2 * time.Minute,
		},
	}
}

// APIError is a non-200 answer from the API.
type APIError struct {
	Status          int      `json:"-"`
	Kind            string   `json:"error"`
	Message         string   `json:"message"`
	AvailableQueues []string `json:"available_queues"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("schedule api returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("schedule api returned %d: %s", e.Status, e.Kind)
}

type HourEntry struct {
	Hour   int    `json:"hour"`
	Status string `json:"status"`
}

type DayEntry struct {
	Date      string      `json:"date"`
	DayName   string      `json:"day_name"`
	Timestamp int64       `json:"timestamp"`
	Schedule  []HourEntry `json:"schedule"`
}

// ScheduleResponse is the body of GET /schedule.
type ScheduleResponse struct {
	Queue      string     `json:"queue"`
	UpdateTime string     `json:"update_time"`
	Days       []DayEntry `json:"days"`
}

type QueueInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// QueuesResponse is the body of GET /queues.
type QueuesResponse struct {
	Today      int64       `json:"today"`
	UpdateTime string      `json:"update_time"`
	Queues     []QueueInfo `json:"queues"`
}

// Schedule fetches the verbose schedule of queue for the given number of days.
func (c *Client) Schedule(ctx context.Context, queue string, days int) (*ScheduleResponse, error) {
	q := url.Values{}
	q.Set("queue", queue)
	q.Set("days", strconv.Itoa(days))

	var result ScheduleResponse
	if err := c.get(ctx, "/schedule", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Queues fetches today's queue list.
func (c *Client) Queues(ctx context.Context) (*QueuesResponse, error) {
	var result QueuesResponse
	if err := c.get(ctx, "/queues", url.Values{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("password", c.password)
	target := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(body, apiErr) != nil {
			apiErr.Message = string(body)
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

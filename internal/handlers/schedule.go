package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"dtek-schedule/internal/schedule"
)

const (
	DefaultDays = 2
	MaxDays     = 2

	dateLayout = "2006-01-02"
)

type hourEntry struct {
	Hour   int    `json:"hour"`
	Status string `json:"status"`
}

type dayEntry struct {
	Date      string      `json:"date"`
	DayName   string      `json:"day_name"`
	Timestamp int64       `json:"timestamp"`
	Schedule  []hourEntry `json:"schedule"`
}

type scheduleResponse struct {
	Queue      string     `json:"queue"`
	UpdateTime string     `json:"update_time"`
	Days       []dayEntry `json:"days"`
}

type simpleResponse struct {
	Q string  `json:"q"`
	D [][]int `json:"d"`
}

// Schedule handles GET /schedule?queue=&days= with per-hour status tokens.
func (h *Handlers) Schedule(c *fiber.Ctx) error {
	queue, days, ok := h.params(c)
	if !ok {
		return badDays(c)
	}
	snap, ok := h.snapshot(c)
	if !ok {
		return fetchFailed(c)
	}

	resolved := schedule.Resolve(snap.Fact, queue, schedule.Today(snap.Fact, h.Now()), days)
	if len(resolved) == 0 {
		return noData(c, snap, queue)
	}

	resp := scheduleResponse{
		Queue:      queue,
		UpdateTime: snap.Fact.Update,
		Days:       make([]dayEntry, 0, len(resolved)),
	}
	if resp.UpdateTime == "" {
		resp.UpdateTime = "unknown"
	}
	for _, d := range resolved {
		t := time.Unix(d.Timestamp, 0)
		entry := dayEntry{
			Date:      t.Format(dateLayout),
			DayName:   t.Weekday().String(),
			Timestamp: d.Timestamp,
			Schedule:  make([]hourEntry, len(d.Hours)),
		}
		for hour, s := range d.Hours {
			entry.Schedule[hour] = hourEntry{Hour: hour, Status: s.Token()}
		}
		resp.Days = append(resp.Days, entry)
	}
	return c.JSON(resp)
}

// ScheduleSimple handles GET /schedule/simple with numeric status codes only.
func (h *Handlers) ScheduleSimple(c *fiber.Ctx) error {
	queue, days, ok := h.params(c)
	if !ok {
		return badDays(c)
	}
	snap, ok := h.snapshot(c)
	if !ok {
		return fetchFailed(c)
	}

	resolved := schedule.Resolve(snap.Fact, queue, schedule.Today(snap.Fact, h.Now()), days)
	if len(resolved) == 0 {
		return noData(c, snap, queue)
	}

	resp := simpleResponse{Q: queue, D: make([][]int, 0, len(resolved))}
	for _, d := range resolved {
		codes := make([]int, len(d.Hours))
		for i, s := range d.Hours {
			codes[i] = s.Code()
		}
		resp.D = append(resp.D, codes)
	}
	return c.JSON(resp)
}

// Queues lists today's queues with their display names.
func (h *Handlers) Queues(c *fiber.Ctx) error {
	snap, ok := h.snapshot(c)
	if !ok {
		return fetchFailed(c)
	}

	today := schedule.Today(snap.Fact, h.Now())
	queues, err := schedule.Queues(snap, today)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "No data available",
			"message": "No queues found for today",
		})
	}
	update := snap.Fact.Update
	if update == "" {
		update = "unknown"
	}
	return c.JSON(fiber.Map{
		"today":       today,
		"update_time": update,
		"queues":      queues,
	})
}

// params reads queue and days. A non-integer days is rejected; other values
// are clamped to [1, MaxDays].
func (h *Handlers) params(c *fiber.Ctx) (string, int, bool) {
	queue := c.Query("queue", h.DefaultQueue)

	days := DefaultDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return "", 0, false
		}
		days = min(max(n, 1), MaxDays)
	}
	return queue, days, true
}

// snapshot fetches through the cache, falling back to the last snapshot when
// ServeStale is set.
func (h *Handlers) snapshot(c *fiber.Ctx) (*schedule.Snapshot, bool) {
	snap, err := h.Cache.Get(c.UserContext())
	if err == nil && snap.Fact != nil {
		return snap, true
	}
	if err == nil {
		h.log.Error().Msg("cached snapshot has no fact document")
	} else {
		h.log.Error().Err(err).Msg("fetch schedule")
	}

	if h.ServeStale {
		if stale := h.Cache.Stale(); stale != nil && stale.Fact != nil {
			h.log.Warn().Time("fetched_at", stale.FetchedAt).Msg("serving stale snapshot")
			c.Set(StaleHeader, "true")
			return stale, true
		}
	}
	return nil, false
}

func badDays(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   "Bad request",
		"message": "days must be an integer",
	})
}

func fetchFailed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Failed to fetch schedule data",
		"message": "Could not retrieve data from DTEK website",
	})
}

func noData(c *fiber.Ctx, snap *schedule.Snapshot, queue string) error {
	available := schedule.AvailableQueues(snap.Fact)
	if available == nil {
		available = []string{}
	}
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":            "No data available",
		"message":          "No schedule data found for queue " + queue,
		"available_queues": available,
	})
}

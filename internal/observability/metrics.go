package observability

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valter-silva-au/pomotask/internal/core"
)

// Metrics holds usage figures derived from the event log.
type Metrics struct {
	TasksAdded     int        `json:"tasks_added"`
	TasksCompleted int        `json:"tasks_completed"`
	TasksReopened  int        `json:"tasks_reopened"`
	TasksDeleted   int        `json:"tasks_deleted"`
	FocusIntervals int        `json:"focus_intervals"`
	BreakIntervals int        `json:"break_intervals"`
	FocusSeconds   int        `json:"focus_seconds"`
	Failures       int        `json:"failures"`
	EventCount     int        `json:"event_count"`
	OldestEvent    *time.Time `json:"oldest_event,omitempty"`
	NewestEvent    *time.Time `json:"newest_event,omitempty"`
}

// FocusTime is FocusSeconds as a Duration.
func (m *Metrics) FocusTime() time.Duration {
	return time.Duration(m.FocusSeconds) * time.Second
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a new MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them into metrics.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{EventCount: len(events)}

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		if event.Level == LevelError {
			m.Failures++
		}

		switch event.Type {
		case core.EventTaskAdded:
			m.TasksAdded++
		case core.EventTaskCompleted:
			m.TasksCompleted++
		case core.EventTaskReopened:
			m.TasksReopened++
		case core.EventTaskDeleted:
			m.TasksDeleted++
		case core.EventIntervalCompleted:
			mode, _ := event.Data["mode"].(string)
			switch mode {
			case "focus":
				m.FocusIntervals++
				m.FocusSeconds += intValue(event.Data["seconds"])
			case "break":
				m.BreakIntervals++
			}
		}
	}

	return m, nil
}

// intValue reads a number decoded from JSON, which arrives as float64.
func intValue(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

// ErrInvalidSince is returned by ParseSince for malformed windows.
var ErrInvalidSince = errors.New("invalid duration")

// ParseSince parses a window like "7d", "30d" or "24h" into the instant that
// far before now. An empty window means seven days.
func ParseSince(s string, now time.Time) (time.Time, error) {
	now = now.UTC()
	s = strings.TrimSpace(s)
	if s == "" {
		return now.AddDate(0, 0, -7), nil
	}

	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n < 0 {
		return time.Time{}, fmt.Errorf("%w %q (use e.g. 7d, 30d, 24h)", ErrInvalidSince, s)
	}

	switch s[len(s)-1] {
	case 'd':
		return now.AddDate(0, 0, -n), nil
	case 'h':
		return now.Add(-time.Duration(n) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("%w %q (use e.g. 7d, 30d, 24h)", ErrInvalidSince, s)
	}
}

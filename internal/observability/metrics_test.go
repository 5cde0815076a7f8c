package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/valter-silva-au/pomotask/internal/core"
	"github.com/valter-silva-au/pomotask/internal/storage"
)

func TestMetricsCalculator_Calculate(t *testing.T) {
	log := newTestLog(t)

	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	writeAll(t, log, []Event{
		{Time: base, Level: LevelInfo, Type: core.EventTaskAdded, Data: map[string]any{"task_id": "a"}},
		{Time: base.Add(time.Minute), Level: LevelInfo, Type: core.EventTaskAdded, Data: map[string]any{"task_id": "b"}},
		{Time: base.Add(2 * time.Minute), Level: LevelInfo, Type: core.EventTimerStarted},
		{Time: base.Add(27 * time.Minute), Level: LevelInfo, Type: core.EventIntervalCompleted, Data: map[string]any{"mode": "focus", "seconds": 1500, "new_mode": "break"}},
		{Time: base.Add(42 * time.Minute), Level: LevelInfo, Type: core.EventIntervalCompleted, Data: map[string]any{"mode": "break", "seconds": 900, "new_mode": "focus"}},
		{Time: base.Add(43 * time.Minute), Level: LevelInfo, Type: core.EventTaskCompleted, Data: map[string]any{"task_id": "a"}},
		{Time: base.Add(44 * time.Minute), Level: LevelInfo, Type: core.EventTaskReopened, Data: map[string]any{"task_id": "a"}},
		{Time: base.Add(45 * time.Minute), Level: LevelInfo, Type: core.EventTaskDeleted, Data: map[string]any{"task_id": "b"}},
		{Time: base.Add(46 * time.Minute), Level: LevelError, Type: "tasks.save.failed"},
	})

	m, err := NewMetricsCalculator(log).Calculate(base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("calculating metrics: %v", err)
	}

	if m.TasksAdded != 2 {
		t.Errorf("expected 2 tasks added, got %d", m.TasksAdded)
	}
	if m.TasksCompleted != 1 || m.TasksReopened != 1 || m.TasksDeleted != 1 {
		t.Errorf("unexpected task counts: %+v", m)
	}
	if m.FocusIntervals != 1 || m.BreakIntervals != 1 {
		t.Errorf("expected 1 focus and 1 break interval, got %d and %d", m.FocusIntervals, m.BreakIntervals)
	}
	if m.FocusTime() != 25*time.Minute {
		t.Errorf("expected 25m focus time, got %v", m.FocusTime())
	}
	if m.Failures != 1 {
		t.Errorf("expected 1 failure, got %d", m.Failures)
	}
	if m.EventCount != 9 {
		t.Errorf("expected 9 events, got %d", m.EventCount)
	}
	if m.OldestEvent == nil || !m.OldestEvent.Equal(base) {
		t.Errorf("unexpected oldest event: %v", m.OldestEvent)
	}
	if m.NewestEvent == nil || !m.NewestEvent.Equal(base.Add(46*time.Minute)) {
		t.Errorf("unexpected newest event: %v", m.NewestEvent)
	}
}

func TestMetricsCalculator_SinceExcludesOlderEvents(t *testing.T) {
	log := newTestLog(t)
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	writeAll(t, log, []Event{
		{Time: base, Level: LevelInfo, Type: core.EventTaskAdded},
		{Time: base.Add(48 * time.Hour), Level: LevelInfo, Type: core.EventTaskAdded},
	})

	m, err := NewMetricsCalculator(log).Calculate(base.Add(24 * time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if m.TasksAdded != 1 {
		t.Errorf("expected 1 task added in window, got %d", m.TasksAdded)
	}
}

func TestMetricsCalculator_EmptyLog(t *testing.T) {
	m, err := NewMetricsCalculator(newTestLog(t)).Calculate(time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if m.EventCount != 0 || m.OldestEvent != nil || m.NewestEvent != nil {
		t.Errorf("expected zero metrics, got %+v", m)
	}
}

func TestMetricsCalculator_ThroughLogger(t *testing.T) {
	log := newTestLog(t)
	logger := NewLogger(log)
	for i := 0; i < 3; i++ {
		_ = logger.LogEvent(core.EventIntervalCompleted, map[string]any{"mode": "focus", "seconds": 60})
	}

	m, err := NewMetricsCalculator(log).Calculate(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if m.FocusIntervals != 3 || m.FocusSeconds != 180 {
		t.Errorf("expected 3 intervals and 180s, got %d and %d", m.FocusIntervals, m.FocusSeconds)
	}
}

func TestMetricsCalculator_CountsTaskManagerEvents(t *testing.T) {
	log := newTestLog(t)
	ctx := context.Background()
	tm := core.NewTaskManager(core.NewTaskIDGenerator(), storage.NewMemoryKVStore(), NewLogger(log))

	a, err := tm.AddTask(ctx, "write report")
	if err != nil {
		t.Fatal(err)
	}
	b, err := tm.AddTask(ctx, "water plants")
	if err != nil {
		t.Fatal(err)
	}
	if err := tm.ToggleComplete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if err := tm.ToggleComplete(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if err := tm.DeleteTask(ctx, b.ID); err != nil {
		t.Fatal(err)
	}

	m, err := NewMetricsCalculator(log).Calculate(time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if m.TasksAdded != 2 || m.TasksCompleted != 1 || m.TasksReopened != 1 || m.TasksDeleted != 1 {
		t.Errorf("unexpected task counts: %+v", m)
	}
	if m.EventCount != 5 {
		t.Errorf("expected 5 events, got %d", m.EventCount)
	}
}

func TestParseSince(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{input: "", want: now.AddDate(0, 0, -7)},
		{input: "7d", want: now.AddDate(0, 0, -7)},
		{input: " 30d ", want: now.AddDate(0, 0, -30)},
		{input: "24h", want: now.Add(-24 * time.Hour)},
		{input: "0d", want: now},
		{input: "d", wantErr: true},
		{input: "7w", wantErr: true},
		{input: "xd", wantErr: true},
		{input: "-3d", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSince(tt.input, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSince(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidSince) {
					t.Errorf("expected ErrInvalidSince, got %v", err)
				}
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseSince(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

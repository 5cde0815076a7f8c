package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/valter-silva-au/pomotask/pkg/models"
)

// NewTimerState returns a paused focus interval with the given durations.
// Non-positive durations fall back to the defaults.
func NewTimerState(focusSeconds, breakSeconds int) TimerState {
	if focusSeconds <= 0 {
		focusSeconds = models.DefaultFocusDurationSeconds
	}
	if breakSeconds <= 0 {
		breakSeconds = models.DefaultBreakDurationSeconds
	}
	return TimerState{models.TimerState{
		FocusDurationSeconds: focusSeconds,
		BreakDurationSeconds: breakSeconds,
		RemainingSeconds:     focusSeconds,
		Mode:                 models.ModeFocus,
	}}
}

// TimerState wraps models.TimerState with the Pomodoro transitions. All
// methods have value receivers and return the next state.
type TimerState struct {
	models.TimerState
}

// DurationFor returns the configured full duration of mode in seconds.
func (s TimerState) DurationFor(mode models.TimerMode) int {
	if mode == models.ModeBreak {
		return s.BreakDurationSeconds
	}
	return s.FocusDurationSeconds
}

// StartPause toggles Running. RemainingSeconds is not touched.
func (s TimerState) StartPause() TimerState {
	s.Running = !s.Running
	return s
}

// Tick advances a running timer by one second. When the remaining time would
// reach zero the mode flips, the new mode's full duration is loaded and the
// timer keeps running. A paused timer is returned unchanged.
func (s TimerState) Tick() (TimerState, bool) {
	if !s.Running {
		return s, false
	}
	if s.RemainingSeconds <= 1 {
		s.Mode = s.Mode.Other()
		s.RemainingSeconds = s.DurationFor(s.Mode)
		return s, true
	}
	s.RemainingSeconds--
	return s, false
}

// Restart stops the timer and refills the current mode's full duration.
func (s TimerState) Restart() TimerState {
	s.Running = false
	s.RemainingSeconds = s.DurationFor(s.Mode)
	return s
}

// SettingsInput is the raw content of the settings editor. Minute fields are
// free text; TargetMode is nil when the editor does not offer mode selection.
type SettingsInput struct {
	FocusMinutes string
	BreakMinutes string
	TargetMode   *models.TimerMode
}

// SettingsResult reports which settings fields were applied and which were
// ignored as invalid.
type SettingsResult struct {
	FocusChanged bool
	BreakChanged bool
	Ignored      []string
}

// ApplySettings applies the editor input. Each minute field must parse as a
// positive integer; anything else leaves that duration unchanged and is
// listed in SettingsResult.Ignored. The timer is always stopped.
func (s TimerState) ApplySettings(in SettingsInput) (TimerState, SettingsResult) {
	var res SettingsResult
	prevActive := s.DurationFor(s.Mode)

	if secs, ok, present := parseMinutes(in.FocusMinutes); ok {
		res.FocusChanged = secs != s.FocusDurationSeconds
		s.FocusDurationSeconds = secs
	} else if present {
		res.Ignored = append(res.Ignored, "focus")
	}
	if secs, ok, present := parseMinutes(in.BreakMinutes); ok {
		res.BreakChanged = secs != s.BreakDurationSeconds
		s.BreakDurationSeconds = secs
	} else if present {
		res.Ignored = append(res.Ignored, "break")
	}

	s.Running = false

	if in.TargetMode != nil {
		s.Mode = *in.TargetMode
		s.RemainingSeconds = s.DurationFor(s.Mode)
		return s, res
	}

	if active := s.DurationFor(s.Mode); active != prevActive {
		s.RemainingSeconds = active
	}
	return s, res
}

// parseMinutes converts a minutes field to seconds. Values outside
// [1, models.MaxDurationMinutes] are rejected. present is false for an empty
// field.
func parseMinutes(raw string) (seconds int, ok bool, present bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > models.MaxDurationMinutes {
		return 0, false, true
	}
	return n * 60, true, true
}

// ProgressFraction is the share of the current interval still remaining, in
// [0, 1].
func (s TimerState) ProgressFraction() float64 {
	d := s.DurationFor(s.Mode)
	if d <= 0 {
		return 0
	}
	return float64(s.RemainingSeconds) / float64(d)
}

// FormattedTime renders RemainingSeconds as MM:SS.
func (s TimerState) FormattedTime() string {
	return FormatSeconds(s.RemainingSeconds)
}

// FormatSeconds renders a second count as zero-padded MM:SS. Minutes are not
// wrapped into hours.
func FormatSeconds(total int) string {
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

var (
	focusEncouragements = [4]string{
		"Fresh start. Settle in and focus.",
		"Good rhythm, keep going.",
		"Past halfway. Stay with it.",
		"Almost there, finish strong!",
	}
	breakEncouragements = [4]string{
		"Step away from the screen.",
		"Stretch, breathe, drink some water.",
		"Enjoy the rest of your break.",
		"Break is nearly over. Get ready.",
	}
)

// Encouragement picks a message for the current mode from the remaining
// progress, banded at 0.75, 0.50 and 0.25.
func (s TimerState) Encouragement() string {
	msgs := focusEncouragements
	if s.Mode == models.ModeBreak {
		msgs = breakEncouragements
	}
	p := s.ProgressFraction()
	switch {
	case p > 0.75:
		return msgs[0]
	case p > 0.50:
		return msgs[1]
	case p > 0.25:
		return msgs[2]
	default:
		return msgs[3]
	}
}

package models

// TimerMode is the interval type the Pomodoro timer is counting down.
type TimerMode string

const (
	ModeFocus TimerMode = "focus"
	ModeBreak TimerMode = "break"
)

// Other returns the mode the timer switches into when an interval ends.
func (m TimerMode) Other() TimerMode {
	if m == ModeFocus {
		return ModeBreak
	}
	return ModeFocus
}

// Label returns a human-readable name for the mode.
func (m TimerMode) Label() string {
	if m == ModeBreak {
		return "Break"
	}
	return "Focus"
}

const (
	DefaultFocusDurationSeconds = 25 * 60
	DefaultBreakDurationSeconds = 15 * 60

	// MaxDurationMinutes bounds a single interval to one day.
	MaxDurationMinutes = 24 * 60
)

// TimerState is the complete state of one Pomodoro timer. RemainingSeconds is
// always within [0, duration of Mode].
type TimerState struct {
	FocusDurationSeconds int       `yaml:"focus_duration_seconds" json:"focusDurationSeconds"`
	BreakDurationSeconds int       `yaml:"break_duration_seconds" json:"breakDurationSeconds"`
	RemainingSeconds     int       `yaml:"remaining_seconds" json:"remainingSeconds"`
	Mode                 TimerMode `yaml:"mode" json:"mode"`
	Running              bool      `yaml:"running" json:"running"`
}

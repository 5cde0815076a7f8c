package core

import (
	"time"

	"github.com/valter-silva-au/pomotask/pkg/models"
)

// TickInterval is the period of the Pomodoro tick source.
const TickInterval = time.Second

// Ticker is a stoppable periodic tick source.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tick sources. Tests substitute a manual clock.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

type realClock struct{}

type realTicker struct {
	t *time.Ticker
}

// NewRealClock returns a Clock backed by time.Ticker.
func NewRealClock() Clock {
	return realClock{}
}

func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()               { r.t.Stop() }

// PomodoroTimer owns a TimerState and at most one active tick source. It is
// driven by a single goroutine: the owner selects on Ticks() and calls Tick
// for every value received. No method is safe for concurrent use.
type PomodoroTimer struct {
	state  TimerState
	clock  Clock
	ticker Ticker
	events EventLogger
}

// NewPomodoroTimer creates a paused timer. events may be nil.
func NewPomodoroTimer(state TimerState, clock Clock, events EventLogger) *PomodoroTimer {
	if clock == nil {
		clock = NewRealClock()
	}
	return &PomodoroTimer{state: state, clock: clock, events: events}
}

// State returns a copy of the current state.
func (p *PomodoroTimer) State() TimerState {
	return p.state
}

// Ticks returns the active tick channel, or nil when the timer is disarmed.
// Receiving from a nil channel blocks forever, so a select over Ticks() is
// inert while paused.
func (p *PomodoroTimer) Ticks() <-chan time.Time {
	if p.ticker == nil {
		return nil
	}
	return p.ticker.C()
}

// Armed reports whether a tick source is currently held.
func (p *PomodoroTimer) Armed() bool {
	return p.ticker != nil
}

// StartPause toggles running and arms or disarms the tick source.
func (p *PomodoroTimer) StartPause() {
	p.state = p.state.StartPause()
	if p.state.Running {
		p.arm()
		p.logEvent(EventTimerStarted, nil)
	} else {
		p.disarm()
		p.logEvent(EventTimerPaused, nil)
	}
}

// Tick applies one tick. It returns true when the tick completed an
// interval and switched mode.
func (p *PomodoroTimer) Tick() bool {
	prevMode := p.state.Mode
	next, switched := p.state.Tick()
	p.state = next
	if switched {
		p.logEvent(EventIntervalCompleted, map[string]any{
			"mode":     string(prevMode),
			"seconds":  p.state.DurationFor(prevMode),
			"new_mode": string(p.state.Mode),
		})
	}
	return switched
}

// Restart disarms the tick source and refills the current interval.
func (p *PomodoroTimer) Restart() {
	p.disarm()
	p.state = p.state.Restart()
	p.logEvent(EventTimerRestarted, nil)
}

// ApplySettings disarms the tick source and applies the editor input.
func (p *PomodoroTimer) ApplySettings(in SettingsInput) SettingsResult {
	p.disarm()
	next, res := p.state.ApplySettings(in)
	p.state = next
	p.logEvent(EventSettingsApplied, map[string]any{
		"focus_seconds": p.state.FocusDurationSeconds,
		"break_seconds": p.state.BreakDurationSeconds,
		"mode":          string(p.state.Mode),
		"ignored":       res.Ignored,
	})
	return res
}

// Close releases the tick source. The timer must not be used afterwards.
func (p *PomodoroTimer) Close() {
	p.disarm()
	p.state.Running = false
}

func (p *PomodoroTimer) arm() {
	p.disarm()
	p.ticker = p.clock.NewTicker(TickInterval)
}

func (p *PomodoroTimer) disarm() {
	if p.ticker != nil {
		p.ticker.Stop()
		p.ticker = nil
	}
}

func (p *PomodoroTimer) logEvent(eventType string, data map[string]any) {
	if p.events == nil {
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	data["remaining"] = p.state.RemainingSeconds
	_ = p.events.LogEvent(eventType, data)
}

// Mode is a convenience accessor for the current mode.
func (p *PomodoroTimer) Mode() models.TimerMode {
	return p.state.Mode
}

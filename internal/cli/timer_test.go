package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/pomotask/internal/core"
	"github.com/valter-silva-au/pomotask/pkg/models"
)

// bufferedClock hands out tickers whose channel is pre-filled with ticks.
type bufferedClock struct {
	ticks   int
	tickers []*bufferedTicker
}

type bufferedTicker struct {
	ch      chan time.Time
	stopped bool
}

func (c *bufferedClock) NewTicker(time.Duration) core.Ticker {
	t := &bufferedTicker{ch: make(chan time.Time, c.ticks)}
	for i := 0; i < c.ticks; i++ {
		t.ch <- time.Time{}
	}
	c.tickers = append(c.tickers, t)
	return t
}

func (t *bufferedTicker) C() <-chan time.Time { return t.ch }
func (t *bufferedTicker) Stop()               { t.stopped = true }

func TestRunHeadlessTimer_StopsAfterIntervals(t *testing.T) {
	clock := &bufferedClock{ticks: 10}
	timer := core.NewPomodoroTimer(core.NewTimerState(2, 1), clock, nil)

	var out bytes.Buffer
	if err := runHeadlessTimer(context.Background(), &out, timer, 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Focus 00:02",
		"Focus complete. Starting Break.",
		"Break complete. Starting Focus.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%q", want, got)
		}
	}
	if len(clock.tickers) != 1 {
		t.Errorf("expected a single tick source across intervals, got %d", len(clock.tickers))
	}
	if !clock.tickers[0].stopped {
		t.Error("tick source should be released on return")
	}
	if timer.Armed() {
		t.Error("timer should be disarmed on return")
	}
	if st := timer.State(); st.Mode != models.ModeFocus || st.RemainingSeconds != 2 {
		t.Errorf("expected fresh focus interval, got %+v", st.TimerState)
	}
}

func TestRunHeadlessTimer_CancelledContext(t *testing.T) {
	clock := &bufferedClock{}
	timer := core.NewPomodoroTimer(core.NewTimerState(60, 60), clock, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if err := runHeadlessTimer(ctx, &out, timer, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if timer.State().RemainingSeconds != 60 {
		t.Error("no tick should be applied after cancellation")
	}
	if len(clock.tickers) != 1 || !clock.tickers[0].stopped {
		t.Error("tick source should be released on cancellation")
	}
}

func TestTimerCommand_RejectsInvalidFlags(t *testing.T) {
	resetFlags := func() {
		for _, name := range []string{"focus", "break", "intervals"} {
			f := timerCmd.Flags().Lookup(name)
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	}
	t.Cleanup(resetFlags)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"zero focus", []string{"timer", "--focus", "0"}, "--focus must be positive"},
		{"negative break", []string{"timer", "--break", "-3"}, "--break must be positive"},
		{"oversized focus", []string{"timer", "--focus", "153722867280912931"}, "--focus must be at most"},
		{"oversized break", []string{"timer", "--break", "1441"}, "--break must be at most"},
		{"negative intervals", []string{"timer", "--intervals", "-1"}, "--intervals"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			_, err := runRoot(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/valter-silva-au/pomotask/internal/core"
	"github.com/valter-silva-au/pomotask/pkg/models"
)

// timerTickMsg is delivered by the tick command scheduled while the timer is
// armed. gen identifies the tick source that scheduled it.
type timerTickMsg struct {
	gen int
}

// teaClock issues tick-source tokens to core.PomodoroTimer. The bubbletea
// runtime delivers the ticks; once a token is stopped or replaced, ticks
// carrying its generation are dropped.
type teaClock struct {
	next    int
	current *teaTicker
}

type teaTicker struct {
	gen     int
	stopped bool
}

func (c *teaClock) NewTicker(time.Duration) core.Ticker {
	c.next++
	c.current = &teaTicker{gen: c.next}
	return c.current
}

func (t *teaTicker) C() <-chan time.Time { return nil }
func (t *teaTicker) Stop()               { t.stopped = true }

// active returns the generation of the live tick source, if any.
func (c *teaClock) active() (int, bool) {
	if c.current == nil || c.current.stopped {
		return 0, false
	}
	return c.current.gen, true
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(core.TickInterval, func(time.Time) tea.Msg {
		return timerTickMsg{gen: gen}
	})
}

// Settings editor fields.
const (
	fieldFocus = iota
	fieldBreak
	fieldMode
)

type timerModel struct {
	timer    *core.PomodoroTimer
	clock    *teaClock
	progress progress.Model

	// targetMode enables the "switch into" selector in the editor.
	targetMode bool

	editing    bool
	field      int
	focusInput textinput.Model
	breakInput textinput.Model
	target     models.TimerMode

	notice string
}

func newTimerModel(cfg models.TimerConfig, events core.EventLogger) timerModel {
	clock := &teaClock{}
	state := core.NewTimerState(cfg.FocusMinutes*60, cfg.BreakMinutes*60)

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 40

	return timerModel{
		timer:      core.NewPomodoroTimer(state, clock, events),
		clock:      clock,
		progress:   bar,
		targetMode: cfg.TargetMode,
		focusInput: newMinutesInput("focus minutes"),
		breakInput: newMinutesInput("break minutes"),
	}
}

func newMinutesInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 4
	ti.Width = 10
	return ti
}

// capturing reports whether the settings editor owns keyboard input.
func (m timerModel) capturing() bool {
	return m.editing
}

// teardown releases the tick source. Ticks already in flight are dropped.
func (m timerModel) teardown() {
	m.timer.Close()
}

func (m timerModel) Update(msg tea.Msg) (timerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		gen, ok := m.clock.active()
		if !ok || msg.gen != gen {
			return m, nil
		}
		m.timer.Tick()
		return m, tickCmd(gen)

	case tea.WindowSizeMsg:
		w := msg.Width - 16
		if w > 60 {
			w = 60
		}
		if w < 20 {
			w = 20
		}
		m.progress.Width = w
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditor(msg)
		}
		switch msg.String() {
		case " ", "enter":
			m.notice = ""
			m.timer.StartPause()
			return m, m.schedule()
		case "r":
			m.notice = ""
			m.timer.Restart()
			return m, nil
		case "s":
			return m, m.openEditor()
		}
	}
	return m, nil
}

// schedule starts the tick chain for a freshly armed tick source.
func (m timerModel) schedule() tea.Cmd {
	if gen, ok := m.clock.active(); ok {
		return tickCmd(gen)
	}
	return nil
}

func (m *timerModel) openEditor() tea.Cmd {
	st := m.timer.State()
	m.editing = true
	m.notice = ""
	m.field = fieldFocus
	m.target = st.Mode
	m.focusInput.SetValue(strconv.Itoa(st.FocusDurationSeconds / 60))
	m.breakInput.SetValue(strconv.Itoa(st.BreakDurationSeconds / 60))
	m.breakInput.Blur()
	return m.focusInput.Focus()
}

func (m *timerModel) closeEditor() {
	m.editing = false
	m.focusInput.Blur()
	m.breakInput.Blur()
}

func (m timerModel) fieldCount() int {
	if m.targetMode {
		return 3
	}
	return 2
}

func (m *timerModel) focusField(field int) tea.Cmd {
	m.field = field
	m.focusInput.Blur()
	m.breakInput.Blur()
	switch field {
	case fieldFocus:
		return m.focusInput.Focus()
	case fieldBreak:
		return m.breakInput.Focus()
	}
	return nil
}

func (m timerModel) updateEditor(msg tea.KeyMsg) (timerModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeEditor()
		return m, nil
	case "enter":
		m.applyEditor()
		return m, nil
	case "tab", "down":
		return m, m.focusField((m.field + 1) % m.fieldCount())
	case "shift+tab", "up":
		return m, m.focusField((m.field - 1 + m.fieldCount()) % m.fieldCount())
	}

	var cmd tea.Cmd
	switch m.field {
	case fieldFocus:
		m.focusInput, cmd = m.focusInput.Update(msg)
	case fieldBreak:
		m.breakInput, cmd = m.breakInput.Update(msg)
	case fieldMode:
		switch msg.String() {
		case "left", "right", "h", "l", " ":
			m.target = m.target.Other()
		}
	}
	return m, cmd
}

func (m *timerModel) applyEditor() {
	in := core.SettingsInput{
		FocusMinutes: m.focusInput.Value(),
		BreakMinutes: m.breakInput.Value(),
	}
	if m.targetMode {
		target := m.target
		in.TargetMode = &target
	}
	res := m.timer.ApplySettings(in)
	m.closeEditor()
	if len(res.Ignored) > 0 {
		m.notice = fmt.Sprintf("Ignored invalid %s minutes; enter a whole number above zero.", strings.Join(res.Ignored, " and "))
	}
}

func (m timerModel) View() string {
	st := m.timer.State()

	var b strings.Builder
	modeStyle := focusModeStyle
	if st.Mode == models.ModeBreak {
		modeStyle = breakModeStyle
	}
	b.WriteString(modeStyle.Render(st.Mode.Label()))
	b.WriteString("\n\n")
	b.WriteString(clockStyle.Render(st.FormattedTime()))
	b.WriteString("\n\n")
	b.WriteString(m.progress.ViewAs(st.ProgressFraction()))
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(st.Encouragement()))
	b.WriteString("\n\n")

	status := "Paused"
	if st.Running {
		status = "Running"
	}
	b.WriteString(fmt.Sprintf("%s  ·  focus %s  ·  break %s",
		status,
		core.FormatSeconds(st.FocusDurationSeconds),
		core.FormatSeconds(st.BreakDurationSeconds),
	))

	if m.editing {
		b.WriteString("\n\n")
		b.WriteString(m.editorView())
	}
	if m.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(noticeStyle.Render(m.notice))
	}
	return b.String()
}

func (m timerModel) editorView() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Timer Settings"))
	b.WriteString("\n\n")
	b.WriteString(m.fieldLabel(fieldFocus, "Focus (min)") + m.focusInput.View() + "\n")
	b.WriteString(m.fieldLabel(fieldBreak, "Break (min)") + m.breakInput.View() + "\n")
	if m.targetMode {
		b.WriteString(m.fieldLabel(fieldMode, "Switch to") + "< " + m.target.Label() + " >\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("tab: next field | enter: save | esc: cancel"))
	return modalStyle.Render(b.String())
}

func (m timerModel) fieldLabel(field int, label string) string {
	prefix := "  "
	if m.field == field {
		prefix = cursorStyle.Render("> ")
	}
	return fmt.Sprintf("%s%-12s ", prefix, label)
}

func (m timerModel) help() string {
	if m.editing {
		return ""
	}
	return "space: start/pause | r: restart | s: settings"
}

package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/valter-silva-au/pomotask/internal/core"
	"github.com/valter-silva-au/pomotask/pkg/models"
)

type screen int

const (
	screenLoading screen = iota
	screenOnboarding
	screenMain
)

// Main view tabs.
const (
	tabTasks = iota
	tabTimer
	tabCount
)

// identityLoadedMsg carries the persisted identity read at startup.
type identityLoadedMsg struct {
	identity models.Identity
	found    bool
	err      error
}

// shellDeps are the services the interface runs against.
type shellDeps struct {
	identity    core.IdentityManager
	picker      core.ImagePicker
	tasks       core.TaskManager
	events      core.EventLogger
	timer       models.TimerConfig
	identityCfg models.IdentityConfig
}

// shellModel routes between onboarding and the two-tab main view.
type shellModel struct {
	deps   shellDeps
	screen screen
	tab    int
	width  int
	height int

	user       models.Identity
	onboarding onboardingModel
	tasks      tasksModel
	timer      timerModel

	err error
}

func newShellModel(deps shellDeps) shellModel {
	return shellModel{
		deps:       deps,
		screen:     screenLoading,
		onboarding: newOnboardingModel(deps.identity, deps.picker, deps.events),
		tasks:      newTasksModel(deps.tasks),
		timer:      newTimerModel(deps.timer, deps.events),
	}
}

func (m shellModel) Init() tea.Cmd {
	mgr, events := m.deps.identity, m.deps.events
	return func() tea.Msg {
		id, found, err := mgr.Load(context.Background())
		if err != nil && events != nil {
			_ = events.LogEvent(core.EventIdentityLoadFailed, map[string]any{"error": err.Error()})
		}
		return identityLoadedMsg{identity: id, found: found, err: err}
	}
}

// teardown releases the timer's tick source.
func (m shellModel) teardown() {
	m.timer.teardown()
}

func (m shellModel) capturing() bool {
	switch m.screen {
	case screenOnboarding:
		return true
	case screenMain:
		return m.tasks.capturing() || m.timer.capturing()
	}
	return false
}

func (m shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.teardown()
			return m, tea.Quit
		case "q", "esc":
			if !m.capturing() {
				m.teardown()
				return m, tea.Quit
			}
		case "tab", "shift+tab":
			if m.screen == screenMain && !m.capturing() {
				m.tab = (m.tab + 1) % tabCount
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd

	case identityLoadedMsg:
		m.screen = screenOnboarding
		if msg.err != nil {
			m.onboarding.notice = noticeLoadFailed
			return m, nil
		}
		if msg.found {
			if m.deps.identityCfg.SkipWhenSaved {
				return m.enterMain(msg.identity), nil
			}
			m.onboarding.prefill(msg.identity)
		}
		return m, nil

	case timerTickMsg:
		// Ticks reach the timer whichever tab is showing.
		var cmd tea.Cmd
		m.timer, cmd = m.timer.Update(msg)
		return m, cmd

	case storeResetMsg:
		var cmd tea.Cmd
		m.onboarding, cmd = m.onboarding.Update(msg)
		if msg.err == nil {
			if err := m.deps.tasks.Load(context.Background()); err != nil {
				m.onboarding.notice = noticeSaveFailed
			}
		}
		return m, cmd
	}

	switch m.screen {
	case screenOnboarding:
		var cmd tea.Cmd
		m.onboarding, cmd = m.onboarding.Update(msg)
		if m.onboarding.done {
			return m.enterMain(m.onboarding.complete), cmd
		}
		return m, cmd
	case screenMain:
		var cmd tea.Cmd
		if m.tab == tabTasks {
			m.tasks, cmd = m.tasks.Update(msg)
		} else {
			m.timer, cmd = m.timer.Update(msg)
		}
		return m, cmd
	}
	return m, nil
}

// enterMain hands the identity to the main view by value.
func (m shellModel) enterMain(id models.Identity) shellModel {
	m.user = id
	m.tasks.username = id.Username
	m.screen = screenMain
	m.tab = tabTasks
	return m
}

func (m shellModel) View() string {
	title := titleStyle.Render(" pomotask ")

	var body, help string
	switch m.screen {
	case screenLoading:
		return title + "\n\n  Loading..."
	case screenOnboarding:
		body = m.onboarding.View()
		help = m.onboarding.help()
	case screenMain:
		body = m.tabsView() + "\n\n"
		if m.tab == tabTasks {
			body += m.tasks.View()
			help = m.tasks.help()
		} else {
			body += m.timer.View()
			help = m.timer.help()
		}
		if !m.capturing() {
			help += " | tab: switch tab | q: quit"
		}
	}

	width := m.width - 4
	if width < 40 {
		width = 40
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		lipgloss.NewStyle().MaxWidth(width).Render(body),
		"",
		helpStyle.Render(help),
	)
}

func (m shellModel) tabsView() string {
	labels := []string{"Tasks", "Timer"}
	rendered := make([]string, len(labels))
	for i, l := range labels {
		if i == m.tab {
			rendered[i] = activeTabStyle.Render(l)
		} else {
			rendered[i] = inactiveTabStyle.Render(l)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

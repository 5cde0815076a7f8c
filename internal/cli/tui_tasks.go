package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/valter-silva-au/pomotask/internal/core"
	"github.com/valter-silva-au/pomotask/pkg/models"
)

const (
	noticeEmptyTask  = "Task cannot be empty."
	noticeSaveFailed = "Something went wrong saving your tasks. Please try again."
)

var taskViews = []models.TaskView{models.TaskViewDaily, models.TaskViewWeekly}

type tasksModel struct {
	mgr      core.TaskManager
	username string

	view   int
	cursor int

	// Modal state. editID is empty when adding.
	editing bool
	editID  string
	input   textinput.Model

	notice string
}

func newTasksModel(mgr core.TaskManager) tasksModel {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 200
	ti.Width = 40
	return tasksModel{mgr: mgr, input: ti}
}

func (m tasksModel) capturing() bool {
	return m.editing
}

func (m tasksModel) currentView() models.TaskView {
	return taskViews[m.view]
}

func (m tasksModel) visible() []models.Task {
	return m.mgr.Tasks(m.currentView())
}

func (m tasksModel) Update(msg tea.Msg) (tasksModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.editing {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if m.editing {
		return m.updateModal(keyMsg)
	}

	tasks := m.visible()
	switch keyMsg.String() {
	case "left", "h":
		m.view = (m.view - 1 + len(taskViews)) % len(taskViews)
		m.cursor = 0
	case "right", "l":
		m.view = (m.view + 1) % len(taskViews)
		m.cursor = 0
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(tasks)-1 {
			m.cursor++
		}
	case "a":
		return m, m.openModal("", "")
	case "e":
		if task, ok := m.selected(tasks); ok {
			return m, m.openModal(task.ID, task.Text)
		}
	case " ", "x":
		if task, ok := m.selected(tasks); ok {
			m.report(m.mgr.ToggleComplete(context.Background(), task.ID))
		}
	case "d", "delete":
		if task, ok := m.selected(tasks); ok {
			m.report(m.mgr.DeleteTask(context.Background(), task.ID))
			m.clampCursor()
		}
	}
	return m, nil
}

func (m tasksModel) selected(tasks []models.Task) (models.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return models.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *tasksModel) clampCursor() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// report turns a mutation error into a notice. Validation errors name the
// problem; store failures get a generic message.
func (m *tasksModel) report(err error) {
	switch {
	case err == nil:
		m.notice = ""
	case errors.Is(err, core.ErrEmptyTaskText):
		m.notice = noticeEmptyTask
	default:
		m.notice = noticeSaveFailed
	}
}

func (m *tasksModel) openModal(id, text string) tea.Cmd {
	m.editing = true
	m.editID = id
	m.notice = ""
	m.input.SetValue(text)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *tasksModel) closeModal() {
	m.editing = false
	m.editID = ""
	m.input.Blur()
	m.input.Reset()
}

func (m tasksModel) updateModal(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeModal()
		m.notice = ""
		return m, nil
	case "enter":
		ctx := context.Background()
		var err error
		if m.editID == "" {
			_, err = m.mgr.AddTask(ctx, m.input.Value())
		} else {
			err = m.mgr.EditTask(ctx, m.editID, m.input.Value())
		}
		m.report(err)
		if err != nil {
			return m, nil
		}
		if m.editID == "" {
			m.cursor = len(m.visible()) - 1
		}
		m.closeModal()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m tasksModel) View() string {
	var b strings.Builder

	name := m.username
	if name == "" {
		name = core.DefaultUsername
	}
	counts := m.mgr.Counts()
	b.WriteString(headerStyle.Render(fmt.Sprintf("Hello, %s!", name)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d of %d tasks done", counts.Completed, counts.Total)))
	b.WriteString("\n\n")

	for i, v := range taskViews {
		label := strings.ToUpper(string(v[:1])) + string(v[1:])
		if i == m.view {
			b.WriteString(activeTabStyle.Render(label))
		} else {
			b.WriteString(inactiveTabStyle.Render(label))
		}
	}
	b.WriteString("\n\n")

	tasks := m.visible()
	if len(tasks) == 0 {
		b.WriteString(dimStyle.Render("  No tasks yet"))
		b.WriteString("\n")
	}
	for i, t := range tasks {
		check := "[ ]"
		text := t.Text
		if t.Completed {
			check = "[x]"
			text = completedStyle.Render(text)
		}
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", prefix, check, text))
	}

	if m.editing {
		b.WriteString("\n")
		b.WriteString(m.modalView())
	}
	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(m.notice))
	}
	return b.String()
}

func (m tasksModel) modalView() string {
	label := "Add Task"
	if m.editID != "" {
		label = "Update Task"
	}
	body := headerStyle.Render(label) + "\n\n" + m.input.View() + "\n\n" +
		helpStyle.Render("enter: "+strings.ToLower(label)+" | esc: cancel")
	return modalStyle.Render(body)
}

func (m tasksModel) help() string {
	if m.editing {
		return ""
	}
	return "a: add | e: edit | space: toggle | d: delete | ←/→: daily/weekly"
}

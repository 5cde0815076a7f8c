package core

import (
	"errors"
	"strings"

	"github.com/valter-silva-au/pomotask/pkg/models"
)

// ErrEmptyTaskText is returned when a task would be created or edited with
// text that is empty after trimming.
var ErrEmptyTaskText = errors.New("task cannot be empty")

// TaskList is an ordered, immutable collection of tasks. Every transition
// returns a new TaskList and leaves the receiver untouched, so callers can
// keep the previous value for rollback.
type TaskList struct {
	tasks []models.Task
}

// NewTaskList builds a TaskList from existing tasks, preserving order.
func NewTaskList(tasks []models.Task) TaskList {
	if len(tasks) == 0 {
		return TaskList{}
	}
	cp := make([]models.Task, len(tasks))
	copy(cp, tasks)
	return TaskList{tasks: cp}
}

// Add appends a new incomplete task with the given id. The list is unchanged
// and ErrEmptyTaskText is returned if text is blank.
func (l TaskList) Add(id, text string) (TaskList, models.Task, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return l, models.Task{}, ErrEmptyTaskText
	}

	task := models.Task{ID: id, Text: trimmed}
	next := make([]models.Task, len(l.tasks), len(l.tasks)+1)
	copy(next, l.tasks)
	next = append(next, task)
	return TaskList{tasks: next}, task, nil
}

// Edit replaces the text of the task with the given id, keeping its position
// and completion flag. An unknown id is a no-op.
func (l TaskList) Edit(id, text string) (TaskList, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return l, ErrEmptyTaskText
	}
	idx := l.indexOf(id)
	if idx < 0 {
		return l, nil
	}
	next := l.clone()
	next.tasks[idx].Text = trimmed
	return next, nil
}

// Delete removes the task with the given id. An unknown id is a no-op.
func (l TaskList) Delete(id string) TaskList {
	idx := l.indexOf(id)
	if idx < 0 {
		return l
	}
	next := make([]models.Task, 0, len(l.tasks)-1)
	next = append(next, l.tasks[:idx]...)
	next = append(next, l.tasks[idx+1:]...)
	return TaskList{tasks: next}
}

// Toggle flips the completion flag of the task with the given id. An unknown
// id is a no-op.
func (l TaskList) Toggle(id string) TaskList {
	idx := l.indexOf(id)
	if idx < 0 {
		return l
	}
	next := l.clone()
	next.tasks[idx].Completed = !next.tasks[idx].Completed
	return next
}

// Get returns the task with the given id.
func (l TaskList) Get(id string) (models.Task, bool) {
	idx := l.indexOf(id)
	if idx < 0 {
		return models.Task{}, false
	}
	return l.tasks[idx], true
}

// View returns the tasks shown under the given view. Daily and weekly
// currently select the same collection; partitioning by date would hook in
// here.
func (l TaskList) View(_ models.TaskView) []models.Task {
	return l.Tasks()
}

// Tasks returns a copy of all tasks in insertion order.
func (l TaskList) Tasks() []models.Task {
	out := make([]models.Task, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Len returns the number of tasks.
func (l TaskList) Len() int {
	return len(l.tasks)
}

// Counts returns the total and completed task counts.
func (l TaskList) Counts() models.TaskCounts {
	c := models.TaskCounts{Total: len(l.tasks)}
	for _, t := range l.tasks {
		if t.Completed {
			c.Completed++
		}
	}
	return c
}

func (l TaskList) indexOf(id string) int {
	for i, t := range l.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (l TaskList) clone() TaskList {
	return NewTaskList(l.tasks)
}

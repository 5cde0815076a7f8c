package core

import (
	"context"
	"fmt"

	"github.com/valter-silva-au/pomotask/pkg/models"
	"gopkg.in/yaml.v3"
)

// TasksKey is the store key holding the task snapshot when persistence is on.
const TasksKey = "tasks"

// TaskManager defines the interface for task list operations. Operations on
// an unknown id are silent no-ops.
type TaskManager interface {
	AddTask(ctx context.Context, text string) (models.Task, error)
	EditTask(ctx context.Context, id, text string) error
	DeleteTask(ctx context.Context, id string) error
	ToggleComplete(ctx context.Context, id string) error
	Tasks(view models.TaskView) []models.Task
	GetTask(id string) (models.Task, bool)
	Counts() models.TaskCounts
	Load(ctx context.Context) error
}

// taskSnapshot is the persisted form of the task list.
type taskSnapshot struct {
	Version string        `yaml:"version"`
	Tasks   []models.Task `yaml:"tasks"`
}

// taskManager owns the current TaskList. When store is non-nil every
// successful mutation is written through; a failed write leaves the previous
// list in place.
type taskManager struct {
	list   TaskList
	idGen  TaskIDGenerator
	store  KeyValueStore
	events EventLogger
}

// NewTaskManager creates a TaskManager. store may be nil for a
// process-lifetime list; events may be nil to disable logging.
func NewTaskManager(idGen TaskIDGenerator, store KeyValueStore, events EventLogger) TaskManager {
	if idGen == nil {
		idGen = NewTaskIDGenerator()
	}
	return &taskManager{idGen: idGen, store: store, events: events}
}

// Load replaces the in-memory list with the persisted snapshot, if any.
func (tm *taskManager) Load(ctx context.Context) error {
	if tm.store == nil {
		return nil
	}
	raw, ok, err := tm.store.Get(ctx, TasksKey)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	if !ok {
		tm.list = TaskList{}
		return nil
	}
	var snap taskSnapshot
	if err := yaml.Unmarshal([]byte(raw), &snap); err != nil {
		return fmt.Errorf("loading tasks: decoding snapshot: %w", err)
	}
	tm.list = NewTaskList(snap.Tasks)
	return nil
}

// AddTask appends a new task. Blank text returns ErrEmptyTaskText.
func (tm *taskManager) AddTask(ctx context.Context, text string) (models.Task, error) {
	id, err := tm.idGen.GenerateTaskID()
	if err != nil {
		return models.Task{}, fmt.Errorf("adding task: %w", err)
	}
	next, task, err := tm.list.Add(id, text)
	if err != nil {
		return models.Task{}, err
	}
	if err := tm.commit(ctx, next); err != nil {
		return models.Task{}, fmt.Errorf("adding task: %w", err)
	}
	logEvent(tm.events, EventTaskAdded, map[string]any{"task_id": task.ID})
	return task, nil
}

// EditTask replaces the text of a task.
func (tm *taskManager) EditTask(ctx context.Context, id, text string) error {
	next, err := tm.list.Edit(id, text)
	if err != nil {
		return err
	}
	if _, ok := tm.list.Get(id); !ok {
		return nil
	}
	if err := tm.commit(ctx, next); err != nil {
		return fmt.Errorf("editing task %s: %w", id, err)
	}
	logEvent(tm.events, EventTaskEdited, map[string]any{"task_id": id})
	return nil
}

// DeleteTask removes a task. There is no undo.
func (tm *taskManager) DeleteTask(ctx context.Context, id string) error {
	if _, ok := tm.list.Get(id); !ok {
		return nil
	}
	if err := tm.commit(ctx, tm.list.Delete(id)); err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	logEvent(tm.events, EventTaskDeleted, map[string]any{"task_id": id})
	return nil
}

// ToggleComplete flips a task's completion flag.
func (tm *taskManager) ToggleComplete(ctx context.Context, id string) error {
	if _, ok := tm.list.Get(id); !ok {
		return nil
	}
	next := tm.list.Toggle(id)
	if err := tm.commit(ctx, next); err != nil {
		return fmt.Errorf("toggling task %s: %w", id, err)
	}
	task, _ := next.Get(id)
	eventType := EventTaskReopened
	if task.Completed {
		eventType = EventTaskCompleted
	}
	logEvent(tm.events, eventType, map[string]any{"task_id": id})
	return nil
}

// Tasks returns the tasks shown under view.
func (tm *taskManager) Tasks(view models.TaskView) []models.Task {
	return tm.list.View(view)
}

// GetTask returns a task by id.
func (tm *taskManager) GetTask(id string) (models.Task, bool) {
	return tm.list.Get(id)
}

// Counts returns total and completed counts.
func (tm *taskManager) Counts() models.TaskCounts {
	return tm.list.Counts()
}

func (tm *taskManager) commit(ctx context.Context, next TaskList) error {
	if tm.store != nil {
		data, err := yaml.Marshal(taskSnapshot{Version: "1.0", Tasks: next.Tasks()})
		if err != nil {
			return fmt.Errorf("encoding snapshot: %w", err)
		}
		if err := tm.store.Set(ctx, TasksKey, string(data)); err != nil {
			logEvent(tm.events, EventTasksSaveFailed, map[string]any{"error": err.Error()})
			return fmt.Errorf("saving snapshot: %w", err)
		}
	}
	tm.list = next
	return nil
}

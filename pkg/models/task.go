package models

// Task is a single entry in the task list. ID is assigned at creation time
// and never changes; Text is always stored trimmed and non-empty.
type Task struct {
	ID        string `yaml:"id" json:"id"`
	Text      string `yaml:"text" json:"text"`
	Completed bool   `yaml:"completed" json:"completed"`
}

// TaskView selects which labelled view of the task list is shown.
type TaskView string

const (
	TaskViewDaily  TaskView = "daily"
	TaskViewWeekly TaskView = "weekly"
)

// TaskCounts summarises a task list for headers and stats.
type TaskCounts struct {
	Total     int
	Completed int
}

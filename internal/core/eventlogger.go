package core

import "context"

// EventLogger is the subset of the observability event log that core
// services need. Defining it here avoids importing the observability package.
// Event types ending in ".failed" are recorded at ERROR level.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}

// Event types emitted by core services and the interface. The metrics
// calculator keys on these names.
const (
	EventTaskAdded          = "task.added"
	EventTaskEdited         = "task.edited"
	EventTaskDeleted        = "task.deleted"
	EventTaskCompleted      = "task.completed"
	EventTaskReopened       = "task.reopened"
	EventTasksSaveFailed    = "tasks.save.failed"
	EventTimerStarted       = "timer.started"
	EventTimerPaused        = "timer.paused"
	EventTimerRestarted     = "timer.restarted"
	EventIntervalCompleted  = "timer.interval_completed"
	EventSettingsApplied    = "timer.settings_applied"
	EventIdentitySaved      = "identity.saved"
	EventIdentitySaveFailed = "identity.save.failed"
	EventIdentityLoadFailed = "identity.load.failed"
	EventStoreCleared       = "store.cleared"
	EventStoreClearFailed   = "store.clear.failed"
	EventAvatarPickFailed   = "avatar.pick.failed"
)

// KeyValueStore is the subset of storage.KVStore that core services need.
// Values are opaque strings; encoding is the caller's concern.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
}

func logEvent(l EventLogger, eventType string, data map[string]any) {
	if l == nil {
		return
	}
	_ = l.LogEvent(eventType, data)
}

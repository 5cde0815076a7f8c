package core

import (
	"fmt"

	"github.com/google/uuid"
)

// TaskIDGenerator defines the interface for generating unique task IDs.
type TaskIDGenerator interface {
	GenerateTaskID() (string, error)
}

// uuidTaskIDGenerator issues UUIDv7 identifiers. The leading 48 bits are the
// Unix millisecond timestamp at creation, so IDs sort in creation order.
type uuidTaskIDGenerator struct{}

// NewTaskIDGenerator creates a TaskIDGenerator backed by time-ordered UUIDs.
func NewTaskIDGenerator() TaskIDGenerator {
	return uuidTaskIDGenerator{}
}

// GenerateTaskID returns a new UUIDv7 string.
func (uuidTaskIDGenerator) GenerateTaskID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating task id: %w", err)
	}
	return id.String(), nil
}

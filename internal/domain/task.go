package domain

import "time"

// TaskStatus enumerates lifecycle states for tasks.
type TaskStatus string

const (
	TaskStatusUnfinished TaskStatus = "UNFINISHED"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

// Valid reports whether the status is a known value.
func (s TaskStatus) Valid() bool {
	return s == TaskStatusUnfinished || s == TaskStatusCompleted
}

// TaskPriority enumerates urgency levels.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "LOW"
	TaskPriorityMedium TaskPriority = "MEDIUM"
	TaskPriorityHigh   TaskPriority = "HIGH"
)

// Valid reports whether the priority is a known value.
func (p TaskPriority) Valid() bool {
	return p == TaskPriorityLow || p == TaskPriorityMedium || p == TaskPriorityHigh
}

// Task is the aggregate for user to-do items.
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Deadline    time.Time
	Priority    TaskPriority
	Status      TaskStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

package events

import (
	"time"

	"github.com/spec-kit/task-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTaskCreated     EventType = "task_created"
	EventTaskUpdated     EventType = "task_updated"
	EventTaskCompleted   EventType = "task_completed"
	EventTaskDeleted     EventType = "task_deleted"
	EventUserRegistered  EventType = "user_registered"
	EventUserRoleChanged EventType = "user_role_changed"
	EventUserDeleted     EventType = "user_deleted"
)

// Actor identifies who triggered an event.
type Actor struct {
	UserID   string      `json:"user_id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TaskPayload describes the task an event refers to.
type TaskPayload struct {
	TaskID   string              `json:"task_id"`
	Title    string              `json:"title"`
	Priority domain.TaskPriority `json:"priority"`
	Status   domain.TaskStatus   `json:"status"`
	Deadline time.Time           `json:"deadline"`
}

// UserAdminPayload describes user administration changes.
type UserAdminPayload struct {
	TargetUserID string       `json:"target_user_id"`
	Username     string       `json:"username,omitempty"`
	OldRole      *domain.Role `json:"old_role,omitempty"`
	NewRole      *domain.Role `json:"new_role,omitempty"`
}

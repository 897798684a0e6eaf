package dto

import (
	"time"

	"github.com/spec-kit/task-service/internal/domain"
)

// TaskRequest payload for creating or updating tasks. Deadline is RFC 3339.
type TaskRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Deadline    time.Time           `json:"deadline"`
	Priority    domain.TaskPriority `json:"priority"`
	Status      domain.TaskStatus   `json:"status"`
}

// Validate aggregates field violations into a single map rather than failing
// on the first one.
func (r TaskRequest) Validate() map[string]any {
	details := map[string]any{}
	if r.Title == "" {
		details["title"] = "is required"
	}
	if r.Deadline.IsZero() {
		details["deadline"] = "is required"
	}
	if r.Priority != "" && !r.Priority.Valid() {
		details["priority"] = "must be LOW, MEDIUM or HIGH"
	}
	if r.Status != "" && !r.Status.Valid() {
		details["status"] = "must be UNFINISHED or COMPLETED"
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// TaskResponse is the outbound task shape.
type TaskResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Deadline    time.Time           `json:"deadline"`
	Priority    domain.TaskPriority `json:"priority"`
	Status      domain.TaskStatus   `json:"status"`
	Owner       string              `json:"owner"`
}

// NewTaskResponse maps a task and its owner's username to the response shape.
func NewTaskResponse(task domain.Task, owner string) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Deadline:    task.Deadline,
		Priority:    task.Priority,
		Status:      task.Status,
		Owner:       owner,
	}
}

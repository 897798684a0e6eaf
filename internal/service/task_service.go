package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/repository"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

// TaskService coordinates task workflows and enforces the ownership gate.
type TaskService struct {
	tasks      repository.TaskRepository
	dispatcher events.Dispatcher
}

// TaskInput describes task create/update payloads.
type TaskInput struct {
	Title       string
	Description string
	Deadline    time.Time
	Priority    domain.TaskPriority
	Status      domain.TaskStatus
}

// NewTaskService constructs the service.
func NewTaskService(tasks repository.TaskRepository, dispatcher events.Dispatcher) *TaskService {
	return &TaskService{tasks: tasks, dispatcher: dispatcher}
}

// CreateTask creates a task owned by the caller.
func (s *TaskService) CreateTask(ctx context.Context, user *domain.User, input TaskInput) (*domain.Task, error) {
	task := &domain.Task{
		UserID:      user.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Deadline:    input.Deadline,
		Priority:    input.Priority,
		Status:      input.Status,
	}
	if task.Priority == "" {
		task.Priority = domain.TaskPriorityMedium
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusUnfinished
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	s.publishTaskEvent(ctx, events.EventTaskCreated, user, task)
	return task, nil
}

// ListTasks returns the caller's tasks, optionally filtered by status.
func (s *TaskService) ListTasks(ctx context.Context, user *domain.User, status *domain.TaskStatus) ([]domain.Task, error) {
	return s.tasks.ListByUser(ctx, user.ID, status)
}

// UpdateTask updates a task after the ownership gate passes.
func (s *TaskService) UpdateTask(ctx context.Context, user *domain.User, taskID string, input TaskInput) (*domain.Task, error) {
	task, err := s.loadOwned(ctx, user, taskID)
	if err != nil {
		return nil, err
	}
	applyInput(task, input)
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	s.publishTaskEvent(ctx, events.EventTaskUpdated, user, task)
	return task, nil
}

// DeleteTask removes a task after the ownership gate passes.
func (s *TaskService) DeleteTask(ctx context.Context, user *domain.User, taskID string) error {
	task, err := s.loadOwned(ctx, user, taskID)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return err
	}
	s.publishTaskEvent(ctx, events.EventTaskDeleted, user, task)
	return nil
}

// CompleteTask marks a task completed; completing twice is a conflict.
func (s *TaskService) CompleteTask(ctx context.Context, user *domain.User, taskID string) (*domain.Task, error) {
	task, err := s.loadOwned(ctx, user, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status == domain.TaskStatusCompleted {
		return nil, apperrors.NewAlreadyCompleted("task is already completed")
	}
	task.Status = domain.TaskStatusCompleted
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	s.publishTaskEvent(ctx, events.EventTaskCompleted, user, task)
	return task, nil
}

// ListAllTasks returns every task in the system.
func (s *TaskService) ListAllTasks(ctx context.Context) ([]domain.Task, error) {
	return s.tasks.ListAll(ctx)
}

// UpdateTaskAsAdmin updates any task without an ownership check.
func (s *TaskService) UpdateTaskAsAdmin(ctx context.Context, admin *domain.User, taskID string, input TaskInput) (*domain.Task, error) {
	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	applyInput(task, input)
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	s.publishTaskEvent(ctx, events.EventTaskUpdated, admin, task)
	return task, nil
}

// DeleteTaskAsAdmin removes any task without an ownership check.
func (s *TaskService) DeleteTaskAsAdmin(ctx context.Context, admin *domain.User, taskID string) error {
	task, err := s.load(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return err
	}
	s.publishTaskEvent(ctx, events.EventTaskDeleted, admin, task)
	return nil
}

func (s *TaskService) load(ctx context.Context, taskID string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", map[string]any{"task_id": taskID})
		}
		return nil, err
	}
	return task, nil
}

// loadOwned checks existence before ownership: a missing task reports
// NOT_FOUND even when the caller would also fail the ownership gate. Owners
// and admins pass; everyone else gets UNAUTHORIZED_ACTION.
func (s *TaskService) loadOwned(ctx context.Context, user *domain.User, taskID string) (*domain.Task, error) {
	task, err := s.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != user.ID && user.Role != domain.RoleAdmin {
		return nil, apperrors.NewUnauthorizedAction("you can't modify tasks that don't belong to you")
	}
	return task, nil
}

func applyInput(task *domain.Task, input TaskInput) {
	task.Title = strings.TrimSpace(input.Title)
	task.Description = strings.TrimSpace(input.Description)
	task.Deadline = input.Deadline
	task.Priority = input.Priority
	task.Status = input.Status
}

func (s *TaskService) publishTaskEvent(ctx context.Context, eventType events.EventType, actor *domain.User, task *domain.Task) {
	publishEvent(ctx, s.dispatcher, events.Event{
		Type:  eventType,
		Actor: events.Actor{UserID: actor.ID, Username: actor.Username, Role: actor.Role},
		Payload: events.TaskPayload{
			TaskID:   task.ID,
			Title:    task.Title,
			Priority: task.Priority,
			Status:   task.Status,
			Deadline: task.Deadline,
		},
	})
}

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}

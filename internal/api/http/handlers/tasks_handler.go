package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/api/dto"
	"github.com/spec-kit/task-service/internal/auth"
	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/service"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

// TasksHandler exposes task CRUD for owners and admins.
type TasksHandler struct {
	tasks *service.TaskService
	users *service.UserService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService, userService *service.UserService) *TasksHandler {
	return &TasksHandler{tasks: taskService, users: userService}
}

// Create handles POST /tasks.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	principal, input, err := taskRequest(c)
	if err != nil {
		return err
	}

	task, err := h.tasks.CreateTask(c.Context(), principal.User, *input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewTaskResponse(*task, principal.User.Username),
	})
}

// List handles GET /tasks with an optional status filter.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	principal := mustPrincipal(c)

	var status *domain.TaskStatus
	if raw := c.Query("status"); raw != "" {
		parsed := domain.TaskStatus(raw)
		if !parsed.Valid() {
			return apperrors.NewValidationError("validation failed",
				map[string]any{"status": "must be UNFINISHED or COMPLETED"})
		}
		status = &parsed
	}

	tasks, err := h.tasks.ListTasks(c.Context(), principal.User, status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponses(tasks, map[string]string{
		principal.User.ID: principal.User.Username,
	})})
}

// Update handles PATCH /tasks/:id.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	principal, input, err := taskRequest(c)
	if err != nil {
		return err
	}

	task, err := h.tasks.UpdateTask(c.Context(), principal.User, c.Params("id"), *input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(*task, principal.User.Username)})
}

// Delete handles DELETE /tasks/:id.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	principal := mustPrincipal(c)
	if err := h.tasks.DeleteTask(c.Context(), principal.User, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// Complete handles PATCH /tasks/:id/complete.
func (h *TasksHandler) Complete(c *fiber.Ctx) error {
	principal := mustPrincipal(c)
	task, err := h.tasks.CompleteTask(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(*task, principal.User.Username)})
}

// ListAll handles GET /tasks/all (admin).
func (h *TasksHandler) ListAll(c *fiber.Ctx) error {
	tasks, err := h.tasks.ListAllTasks(c.Context())
	if err != nil {
		return err
	}
	usernames, err := h.usernamesByID(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": taskResponses(tasks, usernames)})
}

// UpdateAsAdmin handles PATCH /tasks/:id/admin.
func (h *TasksHandler) UpdateAsAdmin(c *fiber.Ctx) error {
	principal, input, err := taskRequest(c)
	if err != nil {
		return err
	}

	task, err := h.tasks.UpdateTaskAsAdmin(c.Context(), principal.User, c.Params("id"), *input)
	if err != nil {
		return err
	}
	usernames, err := h.usernamesByID(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(*task, usernames[task.UserID])})
}

// DeleteAsAdmin handles DELETE /tasks/:id/admin.
func (h *TasksHandler) DeleteAsAdmin(c *fiber.Ctx) error {
	principal := mustPrincipal(c)
	if err := h.tasks.DeleteTaskAsAdmin(c.Context(), principal.User, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func (h *TasksHandler) usernamesByID(c *fiber.Ctx) (map[string]string, error) {
	users, err := h.users.ListUsers(c.Context())
	if err != nil {
		return nil, err
	}
	usernames := make(map[string]string, len(users))
	for _, user := range users {
		usernames[user.ID] = user.Username
	}
	return usernames, nil
}

func taskRequest(c *fiber.Ctx) (*auth.Principal, *service.TaskInput, error) {
	principal := mustPrincipal(c)

	var req dto.TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, nil, apperrors.NewValidationError("invalid payload", nil)
	}
	if details := req.Validate(); details != nil {
		return nil, nil, apperrors.NewValidationError("validation failed", details)
	}

	return principal, &service.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		Priority:    req.Priority,
		Status:      req.Status,
	}, nil
}

// mustPrincipal is safe behind the role gates: gated routes never reach a
// handler without an attached principal.
func mustPrincipal(c *fiber.Ctx) *auth.Principal {
	principal, _ := auth.PrincipalFromContext(c)
	return principal
}

func taskResponses(tasks []domain.Task, usernames map[string]string) []dto.TaskResponse {
	responses := make([]dto.TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, dto.NewTaskResponse(task, usernames[task.UserID]))
	}
	return responses
}

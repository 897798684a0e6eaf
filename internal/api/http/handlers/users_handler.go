package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/api/dto"
	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/service"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

// UsersHandler exposes admin account management endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.ListUsers(c.Context())
	if err != nil {
		return err
	}
	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}
	return c.JSON(fiber.Map{"data": responses})
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	principal := mustPrincipal(c)
	if err := h.users.DeleteUser(c.Context(), principal.User, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// UpdateRole handles PATCH /users/:id/role?role=.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	principal := mustPrincipal(c)
	role := domain.Role(c.Query("role"))
	if role == "" {
		return apperrors.NewValidationError("validation failed",
			map[string]any{"role": "is required"})
	}

	user, err := h.users.UpdateUserRole(c.Context(), principal.User, c.Params("id"), role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":    dto.NewUserResponse(*user),
		"message": fmt.Sprintf("user role updated to %s", user.Role),
	})
}

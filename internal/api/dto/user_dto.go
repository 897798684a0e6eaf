package dto

import "github.com/spec-kit/task-service/internal/domain"

// UserResponse is the outbound account shape; the password hash never leaves
// the service.
type UserResponse struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// NewUserResponse maps a user to the response shape.
func NewUserResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
	}
}

package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-service/internal/domain"
	apperrors "github.com/spec-kit/task-service/pkg/util"
)

// RoleSet is the set of roles permitted to invoke a route.
type RoleSet map[domain.Role]struct{}

// NewRoleSet builds a set from the listed roles.
func NewRoleSet(roles ...domain.Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// Decide evaluates the route role gate: nil for allowed, UNAUTHORIZED when no
// principal is attached, FORBIDDEN when the principal's role is not in the set.
func Decide(principal *Principal, allowed RoleSet) error {
	if principal == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if len(allowed) == 0 {
		return nil
	}
	if _, ok := allowed[principal.Role]; !ok {
		return apperrors.NewForbidden("insufficient role")
	}
	return nil
}

// RequireRoles returns a handler enforcing the role gate for a route.
func RequireRoles(roles ...domain.Role) fiber.Handler {
	allowed := NewRoleSet(roles...)
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if err := Decide(principal, allowed); err != nil {
			return err
		}
		return c.Next()
	}
}

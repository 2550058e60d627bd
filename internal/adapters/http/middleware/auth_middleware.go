package middleware

import (
	"errors"
	"strings"

	"cmcs-claims/internal/core/access"
	"cmcs-claims/internal/core/domain"
	"cmcs-claims/internal/pkg/jwt"
	"cmcs-claims/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys
const (
	LocalRole   = "role"
	LocalUserID = "userID"
)

// ResolveRole reads the Bearer token issued by the identity service and stores
// the caller's role and user id. A request without a token continues with an
// empty role so the workflow can answer "no role selected".
func ResolveRole(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return response.Unauthorized(c, "Invalid authorization header")
		}

		claims, err := jwt.ValidateAccessToken(strings.TrimPrefix(authHeader, "Bearer "), secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		role, err := access.ParseRole(claims.Role)
		if err != nil {
			return response.Forbidden(c, "Unknown role")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RoleMiddleware allows the request through when allowed accepts the caller's role
func RoleMiddleware(allowed func(domain.Role) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if err := access.RequireRole(role); err != nil {
			return response.Unauthorized(c, "No role selected")
		}
		if !allowed(role) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}

// LecturerOnly middleware allows only the Lecturer role
func LecturerOnly() fiber.Handler {
	return RoleMiddleware(access.CanLecturerAct)
}

// ManagersOnly middleware allows Manager1 or Manager2
func ManagersOnly() fiber.Handler {
	return RoleMiddleware(access.CanManagerAct)
}

// HROnly middleware allows only the HR role
func HROnly() fiber.Handler {
	return RoleMiddleware(access.CanReportAct)
}

// GetRole returns the resolved role or an empty role
func GetRole(c *fiber.Ctx) domain.Role {
	role, _ := c.Locals(LocalRole).(domain.Role)
	return role
}

// GetUserID returns the resolved user id or 0
func GetUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalUserID).(uint)
	return id
}

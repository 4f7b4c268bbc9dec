package middleware

import (
	"errors"
	"strings"

	"labops-backend/internal/adapters/persistence/repositories"
	"labops-backend/internal/config"
	"labops-backend/internal/pkg/jwt"
	"labops-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthMiddleware creates authentication middleware. Tokens are accepted
// from the Authorization header only (Bearer scheme). A valid signature is
// not enough: the claimed user must still exist, so tokens outlive their
// account by at most one request.
func AuthMiddleware(cfg *config.Config, users repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var accessToken string

		authHeader := c.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			accessToken = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if accessToken == "" {
			return response.Unauthorized(c, "Not authenticated")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Token has expired")
			}
			return response.Unauthorized(c, "Could not validate credentials")
		}

		if _, err := users.GetByID(c.Context(), claims.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.Unauthorized(c, "User not found")
			}
			return response.InternalServerError(c, "Failed to load user")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("email", claims.Email)
		c.Locals("role", claims.Role)

		return c.Next()
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Not authenticated")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to perform this action")
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware("admin")
}

// AdminOrManager middleware allows admin or manager roles
func AdminOrManager() fiber.Handler {
	return RoleMiddleware("admin", "manager")
}

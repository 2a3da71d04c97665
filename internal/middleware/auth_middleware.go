package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"go-branchpos-ws/internal/model"
	"go-branchpos-ws/internal/repository"
	"go-branchpos-ws/pkg/jwt"
)

// RequireAuth validates the JWT, enforces the single-session token version
// against the database, and stores the Actor in the request context.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}
		if !user.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "User account is inactive"})
		}
		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}

		c.Locals("actor", user.Actor())
		return c.Next()
	}
}

// Actor retrieves the identity context set by RequireAuth.
func Actor(c *fiber.Ctx) model.Actor {
	if actor, ok := c.Locals("actor").(model.Actor); ok {
		return actor
	}
	return model.Actor{}
}

// RequireRole allows only the listed roles past this point.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := Actor(c)
		for _, role := range roles {
			if actor.Role == role {
				return c.Next()
			}
		}
		return c.Status(403).JSON(fiber.Map{"error": "Forbidden: role not permitted"})
	}
}

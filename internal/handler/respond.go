package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"go-branchpos-ws/internal/apperr"
)

// respondError maps the error taxonomy to HTTP statuses. Validation and
// authorization block the request; insufficient stock is a conflict the user
// resolves by reducing quantity; commit failures prompt a retry with the cart
// left intact client-side.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case apperr.IsValidation(err):
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrUnauthorized):
		return c.Status(403).JSON(fiber.Map{"error": err.Error()})
	case apperr.IsInsufficientStock(err):
		return c.Status(409).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, apperr.ErrCommitFailed):
		return c.Status(500).JSON(fiber.Map{"error": "Transaction failed, please try again", "detail": err.Error()})
	default:
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}

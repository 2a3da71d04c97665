package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-branchpos-ws/internal/middleware"
	"go-branchpos-ws/internal/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// GetUsers lists staff in the actor's branch
// GET /api/v1/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.service.GetStaff(middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// GetUser returns one staff member
// GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	user, err := h.service.GetStaffByID(middleware.Actor(c), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// CreateUser adds a staff account in the actor's branch (admin only)
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req service.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := h.service.CreateStaff(middleware.Actor(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "User created", "data": user})
}

// SetUserActive toggles a staff account (admin only)
// PUT /api/v1/users/:id/active
func (h *UserHandler) SetUserActive(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.SetActive(middleware.Actor(c), userID, req.IsActive); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User updated"})
}

// DeleteUser removes a staff account (admin only)
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid user ID"})
	}

	if err := h.service.DeleteStaff(middleware.Actor(c), userID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

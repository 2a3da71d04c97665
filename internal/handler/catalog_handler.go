package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-branchpos-ws/internal/middleware"
	"go-branchpos-ws/internal/model"
	"go-branchpos-ws/internal/service"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// GetItems lists the actor's branch catalog, optionally filtered by name
// GET /api/v1/items?search=
func (h *CatalogHandler) GetItems(c *fiber.Ctx) error {
	actor := middleware.Actor(c)
	items, err := h.service.GetItems(actor, c.Query("search"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// GetItem returns one item
// GET /api/v1/items/:id
func (h *CatalogHandler) GetItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	item, err := h.service.GetItem(middleware.Actor(c), itemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// CreateItem adds a catalog item (admin only)
// POST /api/v1/items
func (h *CatalogHandler) CreateItem(c *fiber.Ctx) error {
	var item model.Item
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateItem(middleware.Actor(c), &item); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Item created", "data": item})
}

// UpdateItem edits a catalog item (admin only)
// PUT /api/v1/items/:id
func (h *CatalogHandler) UpdateItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	var item model.Item
	if err := c.BodyParser(&item); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateItem(middleware.Actor(c), itemID, &item)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item updated", "data": updated})
}

// DeleteItem removes a catalog item (admin only)
// DELETE /api/v1/items/:id
func (h *CatalogHandler) DeleteItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	if err := h.service.DeleteItem(middleware.Actor(c), itemID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item deleted"})
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-branchpos-ws/internal/middleware"
	"go-branchpos-ws/internal/service"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetStats returns the branch overview numbers
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.service.GetStats(middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// GetStockMovement returns per-weekday IN/OUT quantity sums
// GET /api/v1/dashboard/stock-movement
func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	series, err := h.service.GetWeeklySeries(middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(series)
}

// GetLowStock lists items below the reorder threshold, lowest first
// GET /api/v1/dashboard/low-stock
func (h *DashboardHandler) GetLowStock(c *fiber.Ctx) error {
	items, err := h.service.GetLowStock(middleware.Actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

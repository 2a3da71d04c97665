package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-branchpos-ws/internal/cart"
	"go-branchpos-ws/internal/middleware"
	"go-branchpos-ws/internal/model"
	"go-branchpos-ws/internal/service"
	"go-branchpos-ws/pkg/validator"
)

type TransactionHandler struct {
	txService      service.TransactionService
	catalogService service.CatalogService
}

func NewTransactionHandler(txService service.TransactionService, catalogService service.CatalogService) *TransactionHandler {
	return &TransactionHandler{txService: txService, catalogService: catalogService}
}

// CommitLineRequest is one cart line in the commit payload.
type CommitLineRequest struct {
	ItemID    *uuid.UUID `json:"item_id"`
	Name      string     `json:"name"`
	Quantity  int        `json:"quantity"`
	UnitPrice int64      `json:"unit_price"`
	IsService bool       `json:"is_service"`
}

// CommitRequest is the finalized cart sent by the client.
type CommitRequest struct {
	TransactionType model.TransactionType `json:"transaction_type" validate:"required,oneof=IN OUT"`
	Notes           string                `json:"notes"`
	Lines           []CommitLineRequest   `json:"lines" validate:"required,min=1"`
}

// CreateTransaction rebuilds the cart server-side (re-running every add-time
// validation against current stock) and commits it
// POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req CommitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		first := errs[0]
		return c.Status(400).JSON(fiber.Map{"error": "Validation failed: field " + first.FailedField + " failed on rule " + first.Tag})
	}

	actor := middleware.Actor(c)

	basket := cart.New(req.TransactionType)
	for _, line := range req.Lines {
		if line.IsService {
			if err := basket.AddServiceLine(line.Name, line.UnitPrice); err != nil {
				return respondError(c, err)
			}
			continue
		}
		if line.ItemID == nil {
			return c.Status(400).JSON(fiber.Map{"error": "item_id is required for stocked lines"})
		}
		item, err := h.catalogService.GetItem(actor, *line.ItemID)
		if err != nil {
			return respondError(c, err)
		}
		if err := basket.AddStockedLine(item, line.Quantity); err != nil {
			return respondError(c, err)
		}
	}

	group, err := h.txService.Commit(actor, req.TransactionType, basket.Lines(), req.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Transaction recorded", "data": group})
}

// GetTransactions lists recent groups for the actor's branch
// GET /api/v1/transactions?limit=
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	groups, err := h.txService.GetGroups(middleware.Actor(c), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(groups)
}

// GetTransaction returns one committed group with its lines
// GET /api/v1/transactions/:id
func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	groupID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	group, err := h.txService.GetGroupByID(middleware.Actor(c), groupID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(group)
}

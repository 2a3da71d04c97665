package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-branchpos-ws/internal/alert"
	"go-branchpos-ws/internal/apperr"
	"go-branchpos-ws/internal/cache"
	"go-branchpos-ws/internal/cart"
	"go-branchpos-ws/internal/model"
	"go-branchpos-ws/internal/repository"
	"go-branchpos-ws/internal/ws"
)

type TransactionService interface {
	// Commit writes the finalized cart as one group, its lines, and the stock
	// mutations, all inside a single storage transaction.
	Commit(actor model.Actor, direction model.TransactionType, lines []cart.Line, notes string) (*model.GroupResponse, error)
	GetGroups(actor model.Actor, limit int) ([]model.GroupResponse, error)
	GetGroupByID(actor model.Actor, id uuid.UUID) (*model.GroupResponse, error)
}

type transactionService struct {
	store             repository.Store
	wsHub             *ws.Hub
	statsCache        cache.StatsCache
	notifier          alert.Notifier
	lowStockThreshold int
}

func NewTransactionService(store repository.Store, hub *ws.Hub, statsCache cache.StatsCache, notifier alert.Notifier, lowStockThreshold int) TransactionService {
	return &transactionService{
		store:             store,
		wsHub:             hub,
		statsCache:        statsCache,
		notifier:          notifier,
		lowStockThreshold: lowStockThreshold,
	}
}

func (s *transactionService) Commit(actor model.Actor, direction model.TransactionType, lines []cart.Line, notes string) (*model.GroupResponse, error) {
	// Preconditions, checked before any write happens.
	if len(lines) == 0 {
		return nil, apperr.Validationf("cart is empty")
	}
	if direction != model.TxIn && direction != model.TxOut {
		return nil, apperr.Validationf("transaction type must be IN or OUT")
	}
	if !actor.Role.CanCommit(direction) {
		return nil, apperr.ErrUnauthorized
	}

	var total int64
	for _, line := range lines {
		total += line.Subtotal()
	}

	now := time.Now()
	group := &model.TransactionGroup{
		TransactionType: direction,
		TotalAmount:     total,
		TransactionDate: now,
		Notes:           notes,
		BranchID:        actor.BranchID,
		UserID:          actor.UserID,
	}
	group.CreatedBy = actor.UserID.String()
	group.UpdatedBy = actor.UserID.String()

	// Group insert happens-before line inserts happens-before stock
	// mutations. Any failure rolls the whole block back; the stock re-check
	// is the conditional adjustment inside AdjustStock.
	err := s.store.Atomic(func(tx repository.Store) error {
		if err := tx.Ledger().InsertGroup(group); err != nil {
			return err
		}

		txLines := make([]model.TransactionLine, 0, len(lines))
		for _, line := range lines {
			row := model.TransactionLine{
				GroupID:         group.ID,
				Quantity:        line.Quantity(),
				Price:           line.UnitPrice(),
				Subtotal:        line.Subtotal(),
				TransactionType: direction,
				TransactionDate: now,
				BranchID:        actor.BranchID,
				UserID:          actor.UserID,
			}
			row.CreatedBy = actor.UserID.String()
			row.UpdatedBy = actor.UserID.String()

			switch l := line.(type) {
			case *cart.StockedLine:
				itemID := l.ItemID
				row.ItemID = &itemID
			case *cart.ServiceLine:
				row.IsService = true
				row.Description = l.Description
			}
			txLines = append(txLines, row)
		}
		if err := tx.Ledger().InsertLines(txLines); err != nil {
			return err
		}

		for _, line := range lines {
			stocked, ok := line.(*cart.StockedLine)
			if !ok {
				continue // Service lines never touch stock
			}
			delta := stocked.Qty
			if direction == model.TxOut {
				delta = -delta
			}
			if err := tx.Catalog().AdjustStock(stocked.ItemID, delta, actor.UserID.String()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.CommitFailed(err)
	}

	go s.afterCommit(actor, direction, lines)

	// Denormalized response straight from the cart, so the client can render
	// an invoice without a re-fetch.
	resp := &model.GroupResponse{
		GroupID:         group.ID,
		TransactionType: direction,
		TotalAmount:     total,
		TransactionDate: now,
		Notes:           notes,
		Username:        actor.Username,
		Lines:           make([]model.LineResponse, 0, len(lines)),
	}
	for _, line := range lines {
		lr := model.LineResponse{
			ItemName: line.Name(),
			Quantity: line.Quantity(),
			Price:    line.UnitPrice(),
			Subtotal: line.Subtotal(),
		}
		switch l := line.(type) {
		case *cart.StockedLine:
			itemID := l.ItemID
			lr.ItemID = &itemID
		case *cart.ServiceLine:
			lr.IsService = true
			lr.Description = l.Description
		}
		resp.Lines = append(resp.Lines, lr)
	}
	return resp, nil
}

// afterCommit fans out the side effects that must not block or fail the
// commit: change events, stats cache invalidation, low-stock alerts.
func (s *transactionService) afterCommit(actor model.Actor, direction model.TransactionType, lines []cart.Line) {
	s.statsCache.Invalidate(context.Background(), actor.BranchID.String())

	s.wsHub.NotifyChange("transaction_groups", "insert")
	s.wsHub.NotifyChange("transactions", "insert")

	touchedStock := false
	for _, line := range lines {
		if _, ok := line.(*cart.StockedLine); ok {
			touchedStock = true
			break
		}
	}
	if touchedStock {
		s.wsHub.NotifyChange("items", "update")
	}

	if direction != model.TxOut {
		return
	}
	for _, line := range lines {
		stocked, ok := line.(*cart.StockedLine)
		if !ok {
			continue
		}
		item, err := s.store.Catalog().FindByID(stocked.ItemID)
		if err != nil {
			continue
		}
		if item.Stock < s.lowStockThreshold {
			s.notifier.LowStock(*item)
		}
	}
}

func (s *transactionService) GetGroups(actor model.Actor, limit int) ([]model.GroupResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 50
	}
	groups, err := s.store.Ledger().FindGroups(actor.BranchID, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]model.GroupResponse, 0, len(groups))
	for i := range groups {
		responses = append(responses, groups[i].ToResponse())
	}
	return responses, nil
}

func (s *transactionService) GetGroupByID(actor model.Actor, id uuid.UUID) (*model.GroupResponse, error) {
	group, err := s.store.Ledger().FindGroupByID(id)
	if err != nil {
		return nil, err
	}
	if group.BranchID != actor.BranchID {
		return nil, apperr.ErrNotFound
	}
	resp := group.ToResponse()
	return &resp, nil
}

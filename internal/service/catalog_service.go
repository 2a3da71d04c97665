package service

import (
	"context"

	"github.com/google/uuid"

	"go-branchpos-ws/internal/apperr"
	"go-branchpos-ws/internal/cache"
	"go-branchpos-ws/internal/model"
	"go-branchpos-ws/internal/repository"
	"go-branchpos-ws/internal/ws"
	"go-branchpos-ws/pkg/validator"
)

type CatalogService interface {
	CreateItem(actor model.Actor, req *model.Item) error
	UpdateItem(actor model.Actor, id uuid.UUID, req *model.Item) (*model.Item, error)
	DeleteItem(actor model.Actor, id uuid.UUID) error
	GetItems(actor model.Actor, search string) ([]model.Item, error)
	GetItem(actor model.Actor, id uuid.UUID) (*model.Item, error)
}

type catalogService struct {
	store      repository.Store
	wsHub      *ws.Hub
	statsCache cache.StatsCache
}

func NewCatalogService(store repository.Store, hub *ws.Hub, statsCache cache.StatsCache) CatalogService {
	return &catalogService{store: store, wsHub: hub, statsCache: statsCache}
}

func (s *catalogService) CreateItem(actor model.Actor, req *model.Item) error {
	if !actor.Role.CanManageCatalog() {
		return apperr.ErrUnauthorized
	}

	// Items always live in the acting admin's branch.
	req.BranchID = actor.BranchID
	req.CreatedBy = actor.UserID.String()
	req.UpdatedBy = actor.UserID.String()

	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return apperr.Validationf("field %s failed on rule %s", first.FailedField, first.Tag)
	}

	if err := s.store.Catalog().Create(req); err != nil {
		return err
	}

	go s.notifyCatalogChange(actor, "insert")
	return nil
}

func (s *catalogService) UpdateItem(actor model.Actor, id uuid.UUID, req *model.Item) (*model.Item, error) {
	if !actor.Role.CanManageCatalog() {
		return nil, apperr.ErrUnauthorized
	}

	existing, err := s.store.Catalog().FindByID(id)
	if err != nil {
		return nil, err
	}
	if existing.BranchID != actor.BranchID {
		return nil, apperr.ErrNotFound
	}

	existing.ItemName = req.ItemName
	existing.Description = req.Description
	existing.Stock = req.Stock // Direct admin edit is the only stock write outside the committer
	existing.PurchasePrice = req.PurchasePrice
	existing.SellingPrice = req.SellingPrice
	existing.Category = req.Category
	existing.UpdatedBy = actor.UserID.String()

	if errs := validator.ValidateStruct(existing); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validationf("field %s failed on rule %s", first.FailedField, first.Tag)
	}

	if err := s.store.Catalog().Update(existing); err != nil {
		return nil, err
	}

	go s.notifyCatalogChange(actor, "update")
	return existing, nil
}

func (s *catalogService) DeleteItem(actor model.Actor, id uuid.UUID) error {
	if !actor.Role.CanManageCatalog() {
		return apperr.ErrUnauthorized
	}

	existing, err := s.store.Catalog().FindByID(id)
	if err != nil {
		return err
	}
	if existing.BranchID != actor.BranchID {
		return apperr.ErrNotFound
	}

	if err := s.store.Catalog().Delete(id); err != nil {
		return err
	}

	go s.notifyCatalogChange(actor, "delete")
	return nil
}

func (s *catalogService) GetItems(actor model.Actor, search string) ([]model.Item, error) {
	return s.store.Catalog().FindAll(actor.BranchID, search)
}

func (s *catalogService) GetItem(actor model.Actor, id uuid.UUID) (*model.Item, error) {
	item, err := s.store.Catalog().FindByID(id)
	if err != nil {
		return nil, err
	}
	if item.BranchID != actor.BranchID {
		return nil, apperr.ErrNotFound
	}
	return item, nil
}

func (s *catalogService) notifyCatalogChange(actor model.Actor, action string) {
	s.statsCache.Invalidate(context.Background(), actor.BranchID.String())
	s.wsHub.NotifyChange("items", action)
}

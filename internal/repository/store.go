package repository

import (
	"github.com/google/uuid"

	"go-branchpos-ws/internal/model"
)

// Store bundles the repositories over one backing database. Atomic yields a
// transaction-scoped Store; any error rolls the whole block back.
type Store interface {
	Catalog() CatalogRepository
	Ledger() LedgerRepository
	Users() UserRepository
	Branches() BranchRepository
	Atomic(fn func(Store) error) error
}

// CatalogRepository is the mutable item catalog, scoped by branch.
type CatalogRepository interface {
	Create(item *model.Item) error
	FindAll(branchID uuid.UUID, search string) ([]model.Item, error)
	FindByID(id uuid.UUID) (*model.Item, error)
	Update(item *model.Item) error
	Delete(id uuid.UUID) error
	// AdjustStock applies delta atomically and fails with
	// InsufficientStockError when the result would go negative.
	AdjustStock(id uuid.UUID, delta int, updatedBy string) error
	CountByBranch(branchID uuid.UUID) (int64, error)
	LowStock(branchID uuid.UUID, threshold int) ([]model.Item, error)
}

// LedgerRepository is the append-only record of transaction groups and lines.
// No update or delete path exists: committed rows are immutable.
type LedgerRepository interface {
	InsertGroup(group *model.TransactionGroup) error
	InsertLines(lines []model.TransactionLine) error
	FindGroups(branchID uuid.UUID, limit int) ([]model.TransactionGroup, error)
	FindGroupByID(id uuid.UUID) (*model.TransactionGroup, error)
	SumQuantityByType(branchID uuid.UUID, txType model.TransactionType) (int64, error)
	// ProfitTotal is the signed sum over all lines: OUT subtotals count as
	// revenue, IN subtotals as cost. A running proxy, not matched accounting.
	ProfitTotal(branchID uuid.UUID) (int64, error)
	// RecentLines returns the newest lines first, capped at limit.
	RecentLines(branchID uuid.UUID, limit int) ([]model.TransactionLine, error)
}

type UserRepository interface {
	FindByEmail(email string) (*model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)
	FindByBranch(branchID uuid.UUID) ([]model.User, error)
	Create(user *model.User) error
	Update(user *model.User) error
	Delete(id uuid.UUID) error
	UpdatePassword(userID uuid.UUID, hashedPassword string) error
	UpdateTokenVersion(userID uuid.UUID, version string) error
	UpdateLastSeen(userID uuid.UUID) error
}

type BranchRepository interface {
	Create(branch *model.Branch) error
	FindAll() ([]model.Branch, error)
	FindByID(id uuid.UUID) (*model.Branch, error)
	FindByName(name string) (*model.Branch, error)
}

// DashboardStats is the rolled-up overview for one branch.
type DashboardStats struct {
	TotalItems    int64 `json:"total_items"`
	TotalStockIn  int64 `json:"total_stock_in"`
	TotalStockOut int64 `json:"total_stock_out"`
	TotalProfit   int64 `json:"total_profit"`
}

package repository

import (
	"gorm.io/gorm"
)

type gormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a gorm connection in the Store interface.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Catalog() CatalogRepository {
	return &catalogRepo{db: s.db}
}

func (s *gormStore) Ledger() LedgerRepository {
	return &ledgerRepo{db: s.db}
}

func (s *gormStore) Users() UserRepository {
	return &userRepo{db: s.db}
}

func (s *gormStore) Branches() BranchRepository {
	return &branchRepo{db: s.db}
}

// Atomic runs fn inside a single database transaction.
func (s *gormStore) Atomic(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

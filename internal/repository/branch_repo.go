package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-branchpos-ws/internal/apperr"
	"go-branchpos-ws/internal/model"
)

type branchRepo struct {
	db *gorm.DB
}

func (r *branchRepo) Create(branch *model.Branch) error {
	return r.db.Create(branch).Error
}

func (r *branchRepo) FindAll() ([]model.Branch, error) {
	var branches []model.Branch
	err := r.db.Order("branch_name ASC").Find(&branches).Error
	return branches, err
}

func (r *branchRepo) FindByID(id uuid.UUID) (*model.Branch, error) {
	var branch model.Branch
	if err := r.db.First(&branch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &branch, nil
}

func (r *branchRepo) FindByName(name string) (*model.Branch, error) {
	var branch model.Branch
	if err := r.db.First(&branch, "branch_name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &branch, nil
}

package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-branchpos-ws/internal/apperr"
	"go-branchpos-ws/internal/model"
)

type ledgerRepo struct {
	db *gorm.DB
}

func (r *ledgerRepo) InsertGroup(group *model.TransactionGroup) error {
	return r.db.Create(group).Error
}

func (r *ledgerRepo) InsertLines(lines []model.TransactionLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.db.Create(&lines).Error
}

func (r *ledgerRepo) FindGroups(branchID uuid.UUID, limit int) ([]model.TransactionGroup, error) {
	var groups []model.TransactionGroup
	err := r.db.Preload("Lines").Preload("Lines.Item").Preload("User").
		Where("branch_id = ?", branchID).
		Order("transaction_date DESC").
		Limit(limit).
		Find(&groups).Error
	return groups, err
}

func (r *ledgerRepo) FindGroupByID(id uuid.UUID) (*model.TransactionGroup, error) {
	var group model.TransactionGroup
	err := r.db.Preload("Lines").Preload("Lines.Item").Preload("User").
		First(&group, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &group, nil
}

func (r *ledgerRepo) SumQuantityByType(branchID uuid.UUID, txType model.TransactionType) (int64, error) {
	var total int64
	err := r.db.Model(&model.TransactionLine{}).
		Where("branch_id = ? AND transaction_type = ?", branchID, txType).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *ledgerRepo) ProfitTotal(branchID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.Model(&model.TransactionLine{}).
		Where("branch_id = ?", branchID).
		Select("COALESCE(SUM(CASE WHEN transaction_type = 'OUT' THEN subtotal ELSE -subtotal END), 0)").
		Scan(&total).Error
	return total, err
}

func (r *ledgerRepo) RecentLines(branchID uuid.UUID, limit int) ([]model.TransactionLine, error) {
	var lines []model.TransactionLine
	err := r.db.Where("branch_id = ?", branchID).
		Order("transaction_date DESC").
		Limit(limit).
		Find(&lines).Error
	return lines, err
}

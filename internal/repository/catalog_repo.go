package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-branchpos-ws/internal/apperr"
	"go-branchpos-ws/internal/model"
)

type catalogRepo struct {
	db *gorm.DB
}

func (r *catalogRepo) Create(item *model.Item) error {
	return r.db.Create(item).Error
}

func (r *catalogRepo) FindAll(branchID uuid.UUID, search string) ([]model.Item, error) {
	var items []model.Item
	q := r.db.Where("branch_id = ?", branchID).Order("item_name ASC")
	if search != "" {
		q = q.Where("item_name ILIKE ?", "%"+search+"%")
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *catalogRepo) FindByID(id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepo) Update(item *model.Item) error {
	return r.db.Save(item).Error
}

func (r *catalogRepo) Delete(id uuid.UUID) error {
	res := r.db.Delete(&model.Item{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// AdjustStock applies the delta with a conditional UPDATE so two concurrent
// OUT commits can never drive the counter negative.
func (r *catalogRepo) AdjustStock(id uuid.UUID, delta int, updatedBy string) error {
	res := r.db.Model(&model.Item{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		item, err := r.FindByID(id)
		if err != nil {
			return err
		}
		return &apperr.InsufficientStockError{
			ItemName:  item.ItemName,
			Requested: -delta,
			Available: item.Stock,
		}
	}
	return nil
}

func (r *catalogRepo) CountByBranch(branchID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Item{}).Where("branch_id = ?", branchID).Count(&count).Error
	return count, err
}

func (r *catalogRepo) LowStock(branchID uuid.UUID, threshold int) ([]model.Item, error) {
	var items []model.Item
	err := r.db.Where("branch_id = ? AND stock < ?", branchID, threshold).
		Order("stock ASC").
		Find(&items).Error
	return items, err
}

package model

import "github.com/google/uuid"

// Item is a stocked catalog entry. Stock is only ever mutated by the
// transaction committer (atomic adjustment) or a direct admin edit.
type Item struct {
	BaseModel
	ItemName      string    `gorm:"type:varchar(255);not null" json:"item_name" validate:"required"`
	Description   string    `gorm:"type:text" json:"description"`
	Stock         int       `gorm:"default:0" json:"stock" validate:"gte=0"`
	PurchasePrice int64     `gorm:"default:0" json:"purchase_price" validate:"gte=0"`
	SellingPrice  int64     `gorm:"default:0" json:"selling_price" validate:"gte=0"`
	Category      string    `gorm:"type:varchar(100)" json:"category"`
	BranchID      uuid.UUID `gorm:"type:uuid;not null;index" json:"branch_id" validate:"uuid_required"`
	Branch        *Branch   `gorm:"foreignKey:BranchID" json:"branch,omitempty" validate:"-"`
}

func (Item) TableName() string {
	return "items"
}

// UnitPrice returns the price snapshot a cart line should carry:
// purchase price for goods received, selling price for goods sold.
func (i *Item) UnitPrice(t TransactionType) int64 {
	if t == TxIn {
		return i.PurchasePrice
	}
	return i.SellingPrice
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TxIn  TransactionType = "IN"
	TxOut TransactionType = "OUT"
)

// TransactionGroup is the unit of commit: one user action grouping multiple
// line items. Groups and their lines are immutable once written.
type TransactionGroup struct {
	BaseModel
	TransactionType TransactionType `gorm:"type:varchar(10);not null" json:"transaction_type" validate:"required,oneof=IN OUT"`
	TotalAmount     int64           `gorm:"not null" json:"total_amount"` // Sum of line subtotals at commit time
	TransactionDate time.Time       `gorm:"not null;index" json:"transaction_date"`
	Notes           string          `gorm:"type:text" json:"notes"`
	BranchID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"branch_id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null" json:"user_id"`
	User            *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Lines []TransactionLine `gorm:"foreignKey:GroupID" json:"lines,omitempty"`
}

func (TransactionGroup) TableName() string {
	return "transaction_groups"
}

// TransactionLine is one entry inside a committed group: either a stocked-item
// movement (ItemID set) or a standalone service charge (ItemID nil, Description
// set). Branch, type, date, and actor are denormalized from the group so
// dashboard scans never need the parent row.
type TransactionLine struct {
	BaseModel
	GroupID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"group_id"`
	ItemID          *uuid.UUID      `gorm:"type:uuid;index" json:"item_id"`
	Item            *Item           `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	Price           int64           `gorm:"not null" json:"price"`
	Subtotal        int64           `gorm:"not null" json:"subtotal"`
	IsService       bool            `gorm:"default:false" json:"is_service"`
	Description     string          `gorm:"type:text" json:"description"` // Populated only for service lines
	TransactionType TransactionType `gorm:"type:varchar(10);not null;index" json:"transaction_type"`
	TransactionDate time.Time       `gorm:"not null;index" json:"transaction_date"`
	BranchID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"branch_id"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null" json:"user_id"`
}

func (TransactionLine) TableName() string {
	return "transactions"
}

// DisplayName resolves the human label for a line: the item name for stocked
// lines, the free-text description for service lines.
func (l *TransactionLine) DisplayName() string {
	if l.Item != nil {
		return l.Item.ItemName
	}
	if l.Description != "" {
		return l.Description
	}
	return "Jasa Service"
}

// GroupResponse denormalizes a committed group for API responses, so the
// client can render an invoice without a re-fetch.
type GroupResponse struct {
	GroupID         uuid.UUID       `json:"group_id"`
	TransactionType TransactionType `json:"transaction_type"`
	TotalAmount     int64           `json:"total_amount"`
	TransactionDate time.Time       `json:"transaction_date"`
	Notes           string          `json:"notes,omitempty"`
	Username        string          `json:"username"`
	Lines           []LineResponse  `json:"lines"`
}

type LineResponse struct {
	TransactionID uuid.UUID  `json:"transaction_id"`
	ItemID        *uuid.UUID `json:"item_id,omitempty"`
	ItemName      string     `json:"item_name"`
	Quantity      int        `json:"quantity"`
	Price         int64      `json:"price"`
	Subtotal      int64      `json:"subtotal"`
	IsService     bool       `json:"is_service"`
	Description   string     `json:"description,omitempty"`
}

// ToResponse converts a group (with preloaded lines) to its API shape.
func (g *TransactionGroup) ToResponse() GroupResponse {
	resp := GroupResponse{
		GroupID:         g.ID,
		TransactionType: g.TransactionType,
		TotalAmount:     g.TotalAmount,
		TransactionDate: g.TransactionDate,
		Notes:           g.Notes,
		Username:        "Unknown",
		Lines:           make([]LineResponse, 0, len(g.Lines)),
	}
	if g.User != nil {
		resp.Username = g.User.Username
	}
	for _, line := range g.Lines {
		resp.Lines = append(resp.Lines, LineResponse{
			TransactionID: line.ID,
			ItemID:        line.ItemID,
			ItemName:      line.DisplayName(),
			Quantity:      line.Quantity,
			Price:         line.Price,
			Subtotal:      line.Subtotal,
			IsService:     line.IsService,
			Description:   line.Description,
		})
	}
	return resp
}

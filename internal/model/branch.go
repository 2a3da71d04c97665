package model

// Branch is the scoping unit for items, transactions, and staff.
// Every actor belongs to exactly one branch.
type Branch struct {
	BaseModel
	BranchName string `gorm:"type:varchar(255);uniqueIndex;not null" json:"branch_name" validate:"required"`
	Address    string `gorm:"type:text" json:"address"`
}

func (Branch) TableName() string {
	return "branches"
}

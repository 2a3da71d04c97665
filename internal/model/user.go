package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role is a closed enum: the three staff roles the app knows about.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleStafGudang Role = "staf-gudang" // Warehouse staff: stock-in only
	RoleStafKasir  Role = "staf-kasir"  // Cashier: stock-out only
)

// Valid reports whether the role is one of the known codes.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStafGudang || r == RoleStafKasir
}

// CanCommit reports whether the role may commit a transaction in the given
// direction: warehouse staff only IN, cashiers only OUT, admin both.
func (r Role) CanCommit(t TransactionType) bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleStafGudang:
		return t == TxIn
	case RoleStafKasir:
		return t == TxOut
	}
	return false
}

// CanManageCatalog reports whether the role may create/edit/delete items.
func (r Role) CanManageCatalog() bool {
	return r == RoleAdmin
}

// User represents an authenticated staff member, always scoped to one branch.
type User struct {
	BaseModel
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password     string     `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	Username     string     `gorm:"type:varchar(255);not null" json:"username" validate:"required"`
	Role         Role       `gorm:"type:varchar(20);not null" json:"role" validate:"required,oneof=admin staf-gudang staf-kasir"`
	BranchID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"branch_id" validate:"uuid_required"`
	Branch       *Branch    `gorm:"foreignKey:BranchID" json:"branch,omitempty" validate:"-"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	TokenVersion string     `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
	LastSeenAt   *time.Time `json:"last_seen_at,omitempty"`                // For user presence
}

func (User) TableName() string {
	return "app_users"
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Actor is the explicit identity context passed into every cart / committer
// call instead of ambient session state.
type Actor struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
	BranchID uuid.UUID `json:"branch_id"`
}

// Actor builds the identity context for this user.
func (u *User) Actor() Actor {
	return Actor{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		BranchID: u.BranchID,
	}
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID         uuid.UUID  `json:"id"`
	Email      string     `json:"email"`
	Username   string     `json:"username"`
	Role       Role       `json:"role"`
	BranchID   uuid.UUID  `json:"branch_id"`
	Branch     *Branch    `json:"branch,omitempty"`
	IsActive   bool       `json:"is_active"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		Role:       u.Role,
		BranchID:   u.BranchID,
		Branch:     u.Branch,
		IsActive:   u.IsActive,
		LastSeenAt: u.LastSeenAt,
	}
}

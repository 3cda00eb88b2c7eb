package models

import "time"

// Category kinds.
const (
	CategoryTypeIncome  = "income"
	CategoryTypeExpense = "expense"
)

// DefaultCategoryName is the sentinel label transactions fall back to when
// the category they reference is deleted.
const DefaultCategoryName = "Uncategorized"

// Category represents an income/expense label owned by a single user.
// Names are stored lowercased; uniqueness of (user, name) is checked on
// create only.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Type      string    `gorm:"size:16;index;not null" json:"type"` // income / expense
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValidCategoryType reports whether t is one of the allowed kinds.
func IsValidCategoryType(t string) bool {
	return t == CategoryTypeIncome || t == CategoryTypeExpense
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single income or expense record.
//
// Category is a denormalized copy of a category name, not a foreign key;
// the category handlers keep it in sync on rename/delete. Amount is a
// positive magnitude — the sign is implied by Type and applied only when
// aggregating.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"index;not null" json:"user_id"`
	Type        string          `gorm:"size:16;index;not null" json:"type"` // income / expense
	Category    string          `gorm:"size:64;not null;default:Uncategorized" json:"category"`
	Amount      decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	Date        time.Time       `gorm:"index;not null" json:"date"`
	Description string          `gorm:"size:255" json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

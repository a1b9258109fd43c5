package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Balances and rewards go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// User is a chat-platform user who earns rewards.
// ID is the platform's own numeric id, so it is never auto-assigned.
type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Balance   Amount `gorm:"not null;default:0" json:"balance"`
	CreatedAt int64  `gorm:"not null" json:"created_at"` // unix seconds
}

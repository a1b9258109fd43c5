// models/click.go
package models

import "github.com/shopspring/decimal"

// Click records one successful reward claim. Rows are append-only.
// Points is a snapshot of the ad's reward at claim time.
type Click struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	UserID    int64  `gorm:"not null;index:idx_clicks_user_ad_ts,priority:1" json:"user_id"`
	AdID      int64  `gorm:"not null;index:idx_clicks_user_ad_ts,priority:2" json:"ad_id"`
	Points    Amount `gorm:"not null" json:"points"`
	Timestamp int64  `gorm:"not null;index:idx_clicks_user_ad_ts,priority:3" json:"timestamp"` // unix seconds

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT" json:"-"`
	Ad   *Ad   `gorm:"foreignKey:AdID;constraint:OnDelete:RESTRICT" json:"-"`
}

// HistoryEntry is one line of a user's claim history.
type HistoryEntry struct {
	Title     string          `json:"title"`
	Points    decimal.Decimal `json:"points"`
	Timestamp int64           `json:"timestamp"`
}

package models

import "github.com/shopspring/decimal"

// Ad is a sponsored link that credits Reward to whoever claims it.
type Ad struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"not null" json:"title"`
	Slug      string `gorm:"uniqueIndex;not null" json:"-"`
	URL       string `gorm:"not null" json:"url"`
	Reward    Amount `gorm:"not null" json:"reward"`
	CreatedAt int64  `gorm:"not null" json:"-"` // unix seconds
}

// SampleAds are inserted at startup when bootstrap seeding is enabled.
var SampleAds = []Ad{
	{Title: "🎮 Premium Game Access", URL: "https://example.com/game1", Reward: NewAmount(decimal.RequireFromString("0.02"))},
	{Title: "🛍️ Exclusive Shopping Deal", URL: "https://example.com/shop1", Reward: NewAmount(decimal.RequireFromString("0.03"))},
	{Title: "🎬 Movie Streaming Offer", URL: "https://example.com/movie1", Reward: NewAmount(decimal.RequireFromString("0.015"))},
	{Title: "🎵 Music Premium Trial", URL: "https://example.com/music1", Reward: NewAmount(decimal.RequireFromString("0.01"))},
	{Title: "📚 Online Course Discount", URL: "https://example.com/course1", Reward: NewAmount(decimal.RequireFromString("0.025"))},
}

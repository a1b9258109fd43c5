// Package store is the only place that reads or writes the users, ads and clicks
// tables. Every other package goes through a *Store handed to it explicitly.
package store

import (
	"context"
	"errors"
	"fmt"

	"earn-chain/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("record not found")

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn against a Store bound to one database transaction.
// Returning an error from fn rolls back every write made through tx.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) lockRows(db *gorm.DB) *gorm.DB {
	// SQLite has no row locks; its single connection already serializes writers.
	if s.db.Dialector.Name() == DriverPostgres {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func (s *Store) FindUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	return &user, nil
}

// InsertUserIfAbsent creates the user with a zero balance. It reports whether a
// new row was written; an existing user is left untouched.
func (s *Store) InsertUserIfAbsent(ctx context.Context, userID, now int64) (bool, error) {
	user := models.User{ID: userID, Balance: models.NewAmount(decimal.Zero), CreatedAt: now}
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&user)
	if res.Error != nil {
		return false, fmt.Errorf("failed to insert user %d: %w", userID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) FindAd(ctx context.Context, adID int64) (*models.Ad, error) {
	var ad models.Ad
	if err := s.db.WithContext(ctx).First(&ad, "id = ?", adID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load ad %d: %w", adID, err)
	}
	return &ad, nil
}

// FindRecentClaim returns the newest claim of adID by userID strictly after since.
func (s *Store) FindRecentClaim(ctx context.Context, userID, adID, since int64) (*models.Click, error) {
	var click models.Click
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND ad_id = ? AND timestamp > ?", userID, adID, since).
		Order("timestamp DESC").
		First(&click).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up recent claim: %w", err)
	}
	return &click, nil
}

func (s *Store) InsertClaim(ctx context.Context, click *models.Click) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(click).Error; err != nil {
		return fmt.Errorf("failed to insert claim: %w", err)
	}
	return nil
}

// IncrementBalance adds amount to the user's balance and returns the new balance.
// The sum is computed in decimal arithmetic, not by the database.
func (s *Store) IncrementBalance(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	var user models.User
	err := s.lockRows(s.db.WithContext(ctx)).First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, ErrNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to load balance of user %d: %w", userID, err)
	}

	balance := user.Balance.Add(amount)
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("balance", models.NewAmount(balance))
	if res.Error != nil {
		return decimal.Zero, fmt.Errorf("failed to update balance of user %d: %w", userID, res.Error)
	}
	return balance, nil
}

// LockUser takes the row lock on the user for the rest of the transaction.
// It is a plain read on SQLite.
func (s *Store) LockUser(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	if err := s.lockRows(s.db.WithContext(ctx)).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock user %d: %w", userID, err)
	}
	return &user, nil
}

// ListAdsExcludingClaimedSince lists ads the user has not claimed after since,
// ordered by id.
func (s *Store) ListAdsExcludingClaimedSince(ctx context.Context, userID, since int64) ([]models.Ad, error) {
	ads := []models.Ad{}
	err := s.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM clicks c WHERE c.ad_id = ads.id AND c.user_id = ? AND c.timestamp > ?)", userID, since).
		Order("id ASC").
		Find(&ads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list available ads: %w", err)
	}
	return ads, nil
}

// RecentHistory returns the user's newest claims joined with the ad title.
func (s *Store) RecentHistory(ctx context.Context, userID int64, limit int) ([]models.HistoryEntry, error) {
	entries := []models.HistoryEntry{}
	err := s.db.WithContext(ctx).
		Table("clicks").
		Select("ads.title AS title, clicks.points AS points, clicks.timestamp AS timestamp").
		Joins("JOIN ads ON ads.id = clicks.ad_id").
		Where("clicks.user_id = ?", userID).
		Order("clicks.timestamp DESC").
		Order("clicks.id DESC").
		Limit(limit).
		Scan(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history of user %d: %w", userID, err)
	}
	return entries, nil
}

func (s *Store) CreateAd(ctx context.Context, ad *models.Ad) error {
	if err := s.db.WithContext(ctx).Create(ad).Error; err != nil {
		return fmt.Errorf("failed to create ad: %w", err)
	}
	return nil
}

// UpsertAdBySlug inserts the ad unless one with the same slug exists.
func (s *Store) UpsertAdBySlug(ctx context.Context, ad *models.Ad) (bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(ad)
	if res.Error != nil {
		return false, fmt.Errorf("failed to seed ad %q: %w", ad.Slug, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ClaimsAfterID returns up to limit claims with an id greater than afterID,
// in id order.
func (s *Store) ClaimsAfterID(ctx context.Context, afterID int64, limit int) ([]models.Click, error) {
	clicks := []models.Click{}
	err := s.db.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&clicks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	return clicks, nil
}

// BalanceMismatch describes a user whose stored balance differs from the sum of
// the points of their claims.
type BalanceMismatch struct {
	UserID   int64
	Balance  decimal.Decimal
	Expected decimal.Decimal
}

// BalanceMismatches recomputes every balance from the clicks table.
func (s *Store) BalanceMismatches(ctx context.Context) ([]BalanceMismatch, error) {
	db := s.db.WithContext(ctx)

	expected := map[int64]decimal.Decimal{}
	rows, err := db.Model(&models.Click{}).Select("user_id, points").Rows()
	if err != nil {
		return nil, fmt.Errorf("failed to read claims: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var userID int64
		var points models.Amount
		if err := rows.Scan(&userID, &points); err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		expected[userID] = expected[userID].Add(points.Decimal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read claims: %w", err)
	}
	rows.Close()

	var users []models.User
	if err := db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	var mismatches []BalanceMismatch
	for _, u := range users {
		want := expected[u.ID]
		if !u.Balance.Equal(want) {
			mismatches = append(mismatches, BalanceMismatch{UserID: u.ID, Balance: u.Balance.Decimal, Expected: want})
		}
	}
	return mismatches, nil
}

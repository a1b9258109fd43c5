package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"earn-chain/models"
	"earn-chain/store"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var epoch = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	db      *gorm.DB
	store   *store.Store
	clock   *clockwork.FakeClock
	users   *UserService
	ads     *AdService
	claims  *ClaimService
	queries *QueryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "earn.db"), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	st := store.New(db)
	clock := clockwork.NewFakeClockAt(epoch)
	return &fixture{
		db:      db,
		store:   st,
		clock:   clock,
		users:   NewUserService(st, clock),
		ads:     NewAdService(st, clock),
		claims:  NewClaimService(st, clock),
		queries: NewQueryService(st, clock),
	}
}

func (f *fixture) register(t *testing.T, userID int64) {
	t.Helper()
	_, err := f.users.Register(context.Background(), userID)
	require.NoError(t, err)
}

func (f *fixture) createAd(t *testing.T, title, reward string) *models.Ad {
	t.Helper()
	ad, err := f.ads.CreateAd(context.Background(), title, "https://example.com/"+title, dec(reward))
	require.NoError(t, err)
	return ad
}

func (f *fixture) balance(t *testing.T, userID int64) decimal.Decimal {
	t.Helper()
	b, err := f.queries.GetBalance(context.Background(), userID)
	require.NoError(t, err)
	return b
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "want %s, got %s", want, got)
}

package workers

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"earn-chain/models"
	"earn-chain/services"
	"earn-chain/store"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type upload struct {
	key         string
	contentType string
	body        []byte
}

type memoryUploader struct {
	uploads []upload
	err     error
}

func (m *memoryUploader) Upload(ctx context.Context, key, contentType string, body []byte) error {
	if m.err != nil {
		return m.err
	}
	m.uploads = append(m.uploads, upload{key: key, contentType: contentType, body: body})
	return nil
}

type env struct {
	db     *gorm.DB
	store  *store.Store
	clock  *clockwork.FakeClock
	claims *services.ClaimService
	adID   int64
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := store.Open(store.DriverSQLite, filepath.Join(t.TempDir(), "ledger.db"), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	st := store.New(db)
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()
	_, err = services.NewUserService(st, clock).Register(ctx, 1)
	require.NoError(t, err)
	_, err = services.NewUserService(st, clock).Register(ctx, 2)
	require.NoError(t, err)
	ad, err := services.NewAdService(st, clock).CreateAd(ctx, "Game", "https://example.com/game", models.SampleAds[0].Reward.Decimal)
	require.NoError(t, err)

	return &env{db: db, store: st, clock: clock, claims: services.NewClaimService(st, clock), adID: ad.ID}
}

func TestAuditBalancesClean(t *testing.T) {
	e := newEnv(t)
	_, err := e.claims.Claim(context.Background(), 1, e.adID)
	require.NoError(t, err)

	w := NewLedgerWorker(e.store, e.clock, nil)
	mismatches, err := w.AuditBalances(context.Background())
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestAuditBalancesReportsDrift(t *testing.T) {
	e := newEnv(t)
	_, err := e.claims.Claim(context.Background(), 1, e.adID)
	require.NoError(t, err)
	require.NoError(t, e.db.Model(&models.User{}).Where("id = ?", 1).Update("balance", "5").Error)

	w := NewLedgerWorker(e.store, e.clock, nil)
	mismatches, err := w.AuditBalances(context.Background())
	require.NoError(t, err)
	require.Len(t, mismatches, 1)
	assert.Equal(t, int64(1), mismatches[0].UserID)
}

func TestExportClaimsWithoutUploaderIsNoop(t *testing.T) {
	e := newEnv(t)
	key, err := NewLedgerWorker(e.store, e.clock, nil).ExportClaims(context.Background())
	require.NoError(t, err)
	assert.Empty(t, key)
}

func TestExportClaimsUploadsOnlyNewClaims(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	up := &memoryUploader{}
	w := NewLedgerWorker(e.store, e.clock, up)

	key, err := w.ExportClaims(ctx)
	require.NoError(t, err)
	assert.Empty(t, key)
	assert.Empty(t, up.uploads)

	_, err = e.claims.Claim(ctx, 1, e.adID)
	require.NoError(t, err)
	_, err = e.claims.Claim(ctx, 2, e.adID)
	require.NoError(t, err)

	key, err = w.ExportClaims(ctx)
	require.NoError(t, err)
	require.Len(t, up.uploads, 1)
	assert.True(t, strings.HasPrefix(key, "exports/claims/2026-10-17/"), key)
	assert.True(t, strings.HasSuffix(key, ".json"), key)
	assert.Equal(t, "application/json", up.uploads[0].contentType)

	var doc ClaimExport
	require.NoError(t, json.Unmarshal(up.uploads[0].body, &doc))
	require.Len(t, doc.Claims, 2)
	assert.Equal(t, doc.Claims[0].ID, doc.FromID)
	assert.Equal(t, doc.Claims[1].ID, doc.ToID)
	assert.Equal(t, int64(1), doc.Claims[0].UserID)

	// nothing new since the last run
	key, err = w.ExportClaims(ctx)
	require.NoError(t, err)
	assert.Empty(t, key)

	e.clock.Advance(services.CooldownWindow)
	_, err = e.claims.Claim(ctx, 1, e.adID)
	require.NoError(t, err)
	_, err = w.ExportClaims(ctx)
	require.NoError(t, err)
	require.Len(t, up.uploads, 2)
	require.NoError(t, json.Unmarshal(up.uploads[1].body, &doc))
	assert.Len(t, doc.Claims, 1)
}

func TestExportClaimsRetriesAfterUploadFailure(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	up := &memoryUploader{err: errors.New("r2 unavailable")}
	w := NewLedgerWorker(e.store, e.clock, up)

	_, err := e.claims.Claim(ctx, 1, e.adID)
	require.NoError(t, err)

	_, err = w.ExportClaims(ctx)
	assert.ErrorContains(t, err, "r2 unavailable")

	up.err = nil
	_, err = w.ExportClaims(ctx)
	require.NoError(t, err)
	require.Len(t, up.uploads, 1)
}

func TestStartLedgerSchedulerRegistersJobs(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched, err := StartLedgerScheduler(ctx, NewLedgerWorker(e.store, e.clock, &memoryUploader{}), e.clock, time.Hour, 24*time.Hour)
	require.NoError(t, err)
	assert.Len(t, sched.Jobs(), 2)

	sched, err = StartLedgerScheduler(ctx, NewLedgerWorker(e.store, e.clock, nil), e.clock, time.Hour, 24*time.Hour)
	require.NoError(t, err)
	assert.Len(t, sched.Jobs(), 1)
}

package services

import (
	"context"
	"errors"

	"earn-chain/models"
	"earn-chain/store"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
)

// HistoryLimit caps how many claims GetHistory returns.
const HistoryLimit = 20

type QueryService struct {
	store *store.Store
	clock clockwork.Clock
}

func NewQueryService(st *store.Store, clock clockwork.Clock) *QueryService {
	return &QueryService{store: st, clock: clock}
}

// ListAvailableAds returns the ads the user can claim right now, by id.
func (s *QueryService) ListAvailableAds(ctx context.Context, userID int64) ([]models.Ad, error) {
	return s.store.ListAdsExcludingClaimedSince(ctx, userID, cooldownStart(s.clock.Now()))
}

func (s *QueryService) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	user, err := s.store.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return decimal.Zero, ErrUserNotFound
		}
		return decimal.Zero, err
	}
	return user.Balance.Decimal, nil
}

// GetHistory returns the user's latest claims, newest first.
func (s *QueryService) GetHistory(ctx context.Context, userID int64) ([]models.HistoryEntry, error) {
	return s.store.RecentHistory(ctx, userID, HistoryLimit)
}

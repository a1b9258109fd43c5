// services/claim_service.go
package services

import (
	"context"
	"errors"
	"time"

	"earn-chain/models"
	"earn-chain/store"

	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// CooldownWindow is the rolling period during which a user cannot claim the
// same ad twice. It is measured back from now, never reset at midnight.
const CooldownWindow = 24 * time.Hour

type ClaimService struct {
	store *store.Store
	clock clockwork.Clock
	locks *keyedLock
}

func NewClaimService(st *store.Store, clock clockwork.Clock) *ClaimService {
	return &ClaimService{store: st, clock: clock, locks: newKeyedLock()}
}

// cooldownStart returns the unix second after which a claim still blocks a new one.
func cooldownStart(now time.Time) int64 {
	return now.Unix() - int64(CooldownWindow/time.Second)
}

// Claim credits the ad's reward to the user and records the click.
// It fails with ErrUserNotFound, ErrAdNotFound or ErrCooldownActive, checked in
// that order. The click insert and the balance update commit together or not at all.
func (s *ClaimService) Claim(ctx context.Context, userID, adID int64) (decimal.Decimal, error) {
	unlock, err := s.locks.Lock(ctx, claimKey{userID: userID, adID: adID})
	if err != nil {
		return decimal.Zero, err
	}
	defer unlock()

	var awarded decimal.Decimal
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := tx.LockUser(ctx, userID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		ad, err := tx.FindAd(ctx, adID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAdNotFound
			}
			return err
		}

		now := s.clock.Now()
		_, err = tx.FindRecentClaim(ctx, userID, adID, cooldownStart(now))
		switch {
		case err == nil:
			return ErrCooldownActive
		case !errors.Is(err, store.ErrNotFound):
			return err
		}

		click := &models.Click{
			UserID:    userID,
			AdID:      adID,
			Points:    ad.Reward,
			Timestamp: now.Unix(),
		}
		if err := tx.InsertClaim(ctx, click); err != nil {
			return err
		}
		if _, err := tx.IncrementBalance(ctx, userID, ad.Reward.Decimal); err != nil {
			return err
		}

		awarded = ad.Reward.Decimal
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"ad_id":   adID,
		"points":  awarded.String(),
	}).Info("💰 Reward claimed")
	return awarded, nil
}

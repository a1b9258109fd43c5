package services

import (
	"context"
	"net/url"
	"strings"

	"earn-chain/models"
	"earn-chain/store"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// maxReward is the first value with more integer digits than an amount column holds.
var maxReward = decimal.New(1, models.MaxAmountDigits)

type AdService struct {
	store *store.Store
	clock clockwork.Clock
}

func NewAdService(st *store.Store, clock clockwork.Clock) *AdService {
	return &AdService{store: st, clock: clock}
}

// CreateAd validates and stores a new ad. Admin-created ads get a unique slug
// so two ads may share a title.
func (s *AdService) CreateAd(ctx context.Context, title, link string, reward decimal.Decimal) (*models.Ad, error) {
	title = strings.TrimSpace(title)
	link = strings.TrimSpace(link)
	if title == "" || link == "" {
		return nil, invalid("title, url, and reward required")
	}
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, invalid("url must be an absolute http(s) URL")
	}
	if !reward.IsPositive() {
		return nil, invalid("reward must be greater than zero")
	}
	if !reward.Equal(reward.Truncate(models.AmountPlaces)) {
		return nil, invalid("reward allows at most 8 decimal places")
	}
	if reward.GreaterThanOrEqual(maxReward) {
		return nil, invalid("reward must be less than 1000000000000")
	}

	ad := &models.Ad{
		Title:     title,
		Slug:      adSlug(title) + "-" + uuid.NewString()[:8],
		URL:       link,
		Reward:    models.NewAmount(reward),
		CreatedAt: s.clock.Now().Unix(),
	}
	if err := s.store.CreateAd(ctx, ad); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"ad_id": ad.ID, "title": ad.Title}).Info("📢 Ad created")
	return ad, nil
}

// SeedSampleAds inserts every sample ad that is not stored yet and returns how
// many were added. Existing ads and their claims are never touched.
func (s *AdService) SeedSampleAds(ctx context.Context) (int, error) {
	added := 0
	now := s.clock.Now().Unix()
	for _, sample := range models.SampleAds {
		ad := sample
		ad.Slug = adSlug(ad.Title)
		ad.CreatedAt = now
		created, err := s.store.UpsertAdBySlug(ctx, &ad)
		if err != nil {
			return added, err
		}
		if created {
			added++
		}
	}
	logrus.WithField("added", added).Info("🌱 Sample ads seeded")
	return added, nil
}

func adSlug(title string) string {
	if sl := slug.Make(title); sl != "" {
		return sl
	}
	return "ad"
}

package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListAvailableAdsHidesClaimedUntilWindowPasses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, 1)
	game := f.createAd(t, "game", "0.02")
	shop := f.createAd(t, "shop", "0.03")

	ads, err := f.queries.ListAvailableAds(ctx, 1)
	require.NoError(t, err)
	require.Len(t, ads, 2)
	assert.Equal(t, game.ID, ads[0].ID)
	assert.Equal(t, shop.ID, ads[1].ID)

	_, err = f.claims.Claim(ctx, 1, game.ID)
	require.NoError(t, err)

	ads, err = f.queries.ListAvailableAds(ctx, 1)
	require.NoError(t, err)
	require.Len(t, ads, 1)
	assert.Equal(t, shop.ID, ads[0].ID)

	f.clock.Advance(CooldownWindow - time.Second)
	ads, err = f.queries.ListAvailableAds(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, ads, 1)

	f.clock.Advance(time.Second)
	ads, err = f.queries.ListAvailableAds(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, ads, 2)
}

func TestListAvailableAdsForUnknownUser(t *testing.T) {
	f := newFixture(t)
	f.createAd(t, "game", "0.02")

	ads, err := f.queries.ListAvailableAds(context.Background(), 404)
	require.NoError(t, err)
	assert.Len(t, ads, 1)
}

func TestGetBalanceUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.queries.GetBalance(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetHistoryNewestFirstCapped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, 1)
	game := f.createAd(t, "game", "0.02")
	shop := f.createAd(t, "shop", "0.03")

	for day := 0; day < 12; day++ {
		_, err := f.claims.Claim(ctx, 1, game.ID)
		require.NoError(t, err)
		f.clock.Advance(time.Hour)
		_, err = f.claims.Claim(ctx, 1, shop.ID)
		require.NoError(t, err)
		f.clock.Advance(CooldownWindow)
	}

	history, err := f.queries.GetHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, HistoryLimit)
	assert.Equal(t, "shop", history[0].Title)
	assert.Equal(t, "game", history[1].Title)
	for i := 1; i < len(history); i++ {
		assert.GreaterOrEqual(t, history[i-1].Timestamp, history[i].Timestamp)
	}

	empty, err := f.queries.GetHistory(ctx, 404)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.users.Register(ctx, 12345)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.users.Register(ctx, 12345)
	require.NoError(t, err)
	assert.False(t, created)

	assertDecimal(t, "0", f.balance(t, 12345))
}

func TestRegisterRejectsNonPositiveID(t *testing.T) {
	f := newFixture(t)

	_, err := f.users.Register(context.Background(), 0)
	assert.ErrorIs(t, err, ErrValidation)
}

package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	hash, err := h.Hash(ctx, "s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	ok, err := h.Verify(ctx, hash, "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(ctx, hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 1)
	ok, err := h.Verify(context.Background(), "not-a-hash", "x")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_ClampsSettings(t *testing.T) {
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(1, 0).Cost())
	assert.Equal(t, bcrypt.MaxCost, NewPasswordHasher(99, 1).Cost())
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(bcrypt.DefaultCost, 4).Cost())
}

func TestPasswordHasher_CancelledWhileWaiting(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 1)
	// hold the only slot
	require.NoError(t, h.sem.Acquire(context.Background(), 1))
	defer h.sem.Release(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Hash(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = h.Verify(ctx, "hash", "x")
	assert.ErrorIs(t, err, context.Canceled)
}

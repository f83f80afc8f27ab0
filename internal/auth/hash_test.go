package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_RoundTrip(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret-password")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, h.Verify("s3cret-password", hash))
}

func TestHasher_WrongPasswordIsNotAnError(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("right")
	require.NoError(t, err)

	assert.False(t, h.Verify("wrong", hash))
	assert.False(t, h.Verify("", hash))
	assert.False(t, h.Verify("right", "not-a-bcrypt-hash"))
}

func TestHasher_SaltedHashesDiffer(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	h1, err := h.Hash("same")
	require.NoError(t, err)
	h2, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, h.Verify("same", h1))
	assert.True(t, h.Verify("same", h2))
}

func TestNewHasher_CostFallback(t *testing.T) {
	h := NewHasher(-1)
	assert.Equal(t, bcrypt.DefaultCost, h.cost)

	h = NewHasher(bcrypt.MinCost + 1)
	assert.Equal(t, bcrypt.MinCost+1, h.cost)
}

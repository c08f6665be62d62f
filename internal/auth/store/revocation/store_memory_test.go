package revocation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevokeThenCheck(t *testing.T) {
	list := NewMemoryList()
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Hour))

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = list.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestExpiredEntryReadsAsNotRevoked(t *testing.T) {
	list := NewMemoryList()
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.Zero(t, list.Len())
}

func TestNonPositiveTTLIsNoOp(t *testing.T) {
	list := NewMemoryList()
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "jti-1", 0))
	require.NoError(t, list.Revoke(ctx, "jti-2", -time.Minute))
	assert.Zero(t, list.Len())
}

func TestEmptyJTIIsNoOp(t *testing.T) {
	list := NewMemoryList()
	ctx := context.Background()

	require.NoError(t, list.Revoke(ctx, "", time.Hour))
	revoked, err := list.IsRevoked(ctx, "")
	require.NoError(t, err)
	assert.False(t, revoked)
}

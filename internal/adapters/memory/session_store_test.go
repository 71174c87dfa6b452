package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/echoverse/echoverse_backend/internal/adapters/memory"
	"github.com/echoverse/echoverse_backend/internal/apperrors"
	"github.com/echoverse/echoverse_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(token string, ttl time.Duration) domain.Session {
	now := time.Now()
	return domain.Session{Token: token, UserID: 1, CreatedAt: now, ExpiresAt: now.Add(ttl)}
}

func TestSessionStoreRoundTrip(t *testing.T) {
	store := memory.NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, testSession("t1", time.Hour)))

	got, err := store.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.Token)
	assert.Equal(t, int64(1), got.UserID)

	require.NoError(t, store.Destroy(ctx, "t1"))
	_, err = store.Get(ctx, "t1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSessionStoreGetUnknown(t *testing.T) {
	store := memory.NewSessionStore()

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSessionStoreDestroyUnknown(t *testing.T) {
	store := memory.NewSessionStore()

	err := store.Destroy(context.Background(), "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSessionStoreSetOverwrites(t *testing.T) {
	store := memory.NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, testSession("t1", time.Hour)))
	later := testSession("t1", 2*time.Hour)
	require.NoError(t, store.Set(ctx, later))

	got, err := store.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, later.ExpiresAt.Unix(), got.ExpiresAt.Unix())
}

func TestSessionStoreDeleteExpired(t *testing.T) {
	store := memory.NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, testSession("live", time.Hour)))
	require.NoError(t, store.Set(ctx, testSession("dead1", -time.Minute)))
	require.NoError(t, store.Set(ctx, testSession("dead2", -time.Hour)))

	swept, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), swept)

	_, err = store.Get(ctx, "live")
	assert.NoError(t, err)
	_, err = store.Get(ctx, "dead1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

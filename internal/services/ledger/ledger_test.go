package ledger

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth-service/internal/domain/models"
	"auth-service/internal/lib/logger/handlers/slogdiscard"
	"auth-service/internal/storage/memory"
)

type clock struct {
	t time.Time
}

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newLedger(t *testing.T, ttl time.Duration) (*Ledger, *memory.Storage, *clock) {
	t.Helper()

	c := &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := memory.New()

	return New(slogdiscard.NewDiscardLogger(), store, ttl, WithClock(c.Now)), store, c
}

func TestIssue(t *testing.T) {
	ctx := context.Background()
	l, _, c := newLedger(t, 0)
	userID := uuid.NewString()

	token, err := l.Issue(ctx, userID)
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Len(t, raw, tokenBytes)
	assert.Len(t, token, 43)

	rt, err := l.Lookup(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, rt.UserID)
	assert.Equal(t, c.Now(), rt.CreatedAt)
	assert.Equal(t, c.Now().Add(DefaultTTL), rt.ExpiresAt)
}

func TestIssue_Unique(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newLedger(t, time.Hour)
	userID := uuid.NewString()

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := l.Issue(ctx, userID)
		require.NoError(t, err)
		_, dup := seen[token]
		require.False(t, dup)
		seen[token] = struct{}{}
	}
}

func TestLookup_NotFound(t *testing.T) {
	l, _, _ := newLedger(t, time.Hour)

	_, err := l.Lookup(context.Background(), "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRevoke_Idempotent(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newLedger(t, time.Hour)

	token, err := l.Issue(ctx, uuid.NewString())
	require.NoError(t, err)

	require.NoError(t, l.Revoke(ctx, token))
	_, err = l.Lookup(ctx, token)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, l.Revoke(ctx, token))
	require.NoError(t, l.Revoke(ctx, "never-issued"))
}

func TestRotate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()

	t.Run("grace keeps old token briefly", func(t *testing.T) {
		l, _, c := newLedger(t, time.Hour)
		old, err := l.Issue(ctx, userID)
		require.NoError(t, err)

		fresh, err := l.Rotate(ctx, old, 30*time.Second)
		require.NoError(t, err)
		assert.NotEqual(t, old, fresh)

		rt, err := l.Lookup(ctx, fresh)
		require.NoError(t, err)
		assert.Equal(t, userID, rt.UserID)

		rt, err = l.Lookup(ctx, old)
		require.NoError(t, err)
		assert.Equal(t, c.Now().Add(30*time.Second), rt.ExpiresAt)
	})

	t.Run("zero grace deletes old token", func(t *testing.T) {
		l, _, _ := newLedger(t, time.Hour)
		old, err := l.Issue(ctx, userID)
		require.NoError(t, err)

		_, err = l.Rotate(ctx, old, 0)
		require.NoError(t, err)

		_, err = l.Lookup(ctx, old)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown token", func(t *testing.T) {
		l, _, _ := newLedger(t, time.Hour)

		_, err := l.Rotate(ctx, "unknown", time.Minute)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	l, store, c := newLedger(t, time.Hour)

	early, err := l.Issue(ctx, uuid.NewString())
	require.NoError(t, err)
	c.Advance(30 * time.Minute)
	late, err := l.Issue(ctx, uuid.NewString())
	require.NoError(t, err)

	n, err := l.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	c.Advance(30 * time.Minute)
	n, err = l.Sweep(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = store.RefreshToken(ctx, early)
	require.Error(t, err)
	_, err = store.RefreshToken(ctx, late)
	require.NoError(t, err)
}

type failingStore struct {
	err error
}

func (f failingStore) SaveRefreshToken(context.Context, models.RefreshToken) error { return f.err }
func (f failingStore) RefreshToken(context.Context, string) (models.RefreshToken, error) {
	return models.RefreshToken{}, f.err
}
func (f failingStore) DeleteRefreshToken(context.Context, string) error { return f.err }
func (f failingStore) ExpireRefreshToken(context.Context, string, time.Time) error {
	return f.err
}
func (f failingStore) DeleteExpiredRefreshTokens(context.Context, time.Time) (int64, error) {
	return 0, f.err
}

func TestStoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk on fire")
	l := New(slogdiscard.NewDiscardLogger(), failingStore{err: boom}, time.Hour)

	_, err := l.Issue(ctx, uuid.NewString())
	require.ErrorIs(t, err, boom)

	_, err = l.Lookup(ctx, "x")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, l.Revoke(ctx, "x"), boom)

	_, err = l.Sweep(ctx)
	require.ErrorIs(t, err, boom)
}

// Package storagetest holds the behavioural checks every credential store
// driver must pass. Driver packages call Run from their own tests.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth-service/internal/domain/models"
	"auth-service/internal/storage"
)

type Storage interface {
	SaveUser(ctx context.Context, username, email string, passHash []byte, role models.Role) (models.User, error)
	User(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, userID string) (models.User, error)
	UsersByIDs(ctx context.Context, userIDs []string) ([]models.User, error)
	SetRole(ctx context.Context, userID string, role models.Role) error
	SaveRefreshToken(ctx context.Context, token models.RefreshToken) error
	RefreshToken(ctx context.Context, token string) (models.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	ExpireRefreshToken(ctx context.Context, token string, at time.Time) error
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

// Run executes the contract against a fresh storage returned by newStorage.
func Run(t *testing.T, newStorage func(t *testing.T) Storage) {
	t.Run("SaveUser_Lookup", func(t *testing.T) {
		testSaveUserLookup(t, newStorage(t))
	})
	t.Run("SaveUser_DuplicateEmail", func(t *testing.T) {
		testDuplicateEmail(t, newStorage(t))
	})
	t.Run("User_NotFound", func(t *testing.T) {
		testUserNotFound(t, newStorage(t))
	})
	t.Run("UsersByIDs", func(t *testing.T) {
		testUsersByIDs(t, newStorage(t))
	})
	t.Run("SetRole", func(t *testing.T) {
		testSetRole(t, newStorage(t))
	})
	t.Run("RefreshToken_Lifecycle", func(t *testing.T) {
		testRefreshTokenLifecycle(t, newStorage(t))
	})
	t.Run("ExpireRefreshToken_OnlyShortens", func(t *testing.T) {
		testExpireOnlyShortens(t, newStorage(t))
	})
	t.Run("DeleteExpiredRefreshTokens", func(t *testing.T) {
		testDeleteExpired(t, newStorage(t))
	})
}

func newUser(t *testing.T, ctx context.Context, s Storage) models.User {
	t.Helper()

	user, err := s.SaveUser(ctx, gofakeit.Username(), gofakeit.Email(), []byte(gofakeit.Password(true, true, true, true, false, 20)), models.RolePlayer)
	require.NoError(t, err)

	return user
}

func testSaveUserLookup(t *testing.T, s Storage) {
	ctx := context.Background()

	username := gofakeit.Username()
	email := gofakeit.Email()
	hash := []byte("$2a$10$" + gofakeit.LetterN(53))

	saved, err := s.SaveUser(ctx, username, email, hash, models.RoleAdmin)
	require.NoError(t, err)
	_, err = uuid.Parse(saved.ID)
	require.NoError(t, err)

	byEmail, err := s.User(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byEmail.ID)
	assert.Equal(t, username, byEmail.Username)
	assert.Equal(t, hash, byEmail.PassHash)
	assert.Equal(t, models.RoleAdmin, byEmail.Role)
	assert.WithinDuration(t, saved.CreatedAt, byEmail.CreatedAt, time.Second)

	byID, err := s.UserByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, email, byID.Email)
}

func testDuplicateEmail(t *testing.T, s Storage) {
	ctx := context.Background()

	email := gofakeit.Email()
	_, err := s.SaveUser(ctx, gofakeit.Username(), email, []byte("hash"), models.RolePlayer)
	require.NoError(t, err)

	_, err = s.SaveUser(ctx, gofakeit.Username(), email, []byte("other"), models.RolePlayer)
	require.ErrorIs(t, err, storage.ErrUserExists)
}

func testUserNotFound(t *testing.T, s Storage) {
	ctx := context.Background()

	_, err := s.User(ctx, gofakeit.Email())
	require.ErrorIs(t, err, storage.ErrUserNotFound)

	_, err = s.UserByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, storage.ErrUserNotFound)

	_, err = s.UserByID(ctx, "not-a-uuid")
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}

func testUsersByIDs(t *testing.T, s Storage) {
	ctx := context.Background()

	a := newUser(t, ctx, s)
	b := newUser(t, ctx, s)

	users, err := s.UsersByIDs(ctx, []string{a.ID, uuid.NewString(), b.ID, "garbage", a.ID})
	require.NoError(t, err)

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)

	users, err = s.UsersByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func testSetRole(t *testing.T, s Storage) {
	ctx := context.Background()

	user := newUser(t, ctx, s)
	require.NoError(t, s.SetRole(ctx, user.ID, models.RoleAdmin))

	got, err := s.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, got.Role)

	err = s.SetRole(ctx, uuid.NewString(), models.RoleAdmin)
	require.ErrorIs(t, err, storage.ErrUserNotFound)
}

func testRefreshTokenLifecycle(t *testing.T, s Storage) {
	ctx := context.Background()

	user := newUser(t, ctx, s)
	now := time.Now().UTC().Truncate(time.Millisecond)
	rt := models.RefreshToken{
		Token:     gofakeit.LetterN(43),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(7 * 24 * time.Hour),
	}
	require.NoError(t, s.SaveRefreshToken(ctx, rt))

	got, err := s.RefreshToken(ctx, rt.Token)
	require.NoError(t, err)
	assert.Equal(t, rt.UserID, got.UserID)
	assert.True(t, rt.ExpiresAt.Equal(got.ExpiresAt), "expires_at %s != %s", rt.ExpiresAt, got.ExpiresAt)

	require.NoError(t, s.DeleteRefreshToken(ctx, rt.Token))
	_, err = s.RefreshToken(ctx, rt.Token)
	require.ErrorIs(t, err, storage.ErrRefreshTokenNotFound)

	// deleting twice is fine
	require.NoError(t, s.DeleteRefreshToken(ctx, rt.Token))
}

func testExpireOnlyShortens(t *testing.T, s Storage) {
	ctx := context.Background()

	user := newUser(t, ctx, s)
	now := time.Now().UTC().Truncate(time.Millisecond)
	rt := models.RefreshToken{
		Token:     gofakeit.LetterN(43),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, s.SaveRefreshToken(ctx, rt))

	require.NoError(t, s.ExpireRefreshToken(ctx, rt.Token, now.Add(2*time.Hour)))
	got, err := s.RefreshToken(ctx, rt.Token)
	require.NoError(t, err)
	assert.True(t, rt.ExpiresAt.Equal(got.ExpiresAt))

	shorter := now.Add(time.Minute)
	require.NoError(t, s.ExpireRefreshToken(ctx, rt.Token, shorter))
	got, err = s.RefreshToken(ctx, rt.Token)
	require.NoError(t, err)
	assert.True(t, shorter.Equal(got.ExpiresAt))

	require.NoError(t, s.ExpireRefreshToken(ctx, "missing", shorter))
}

func testDeleteExpired(t *testing.T, s Storage) {
	ctx := context.Background()

	user := newUser(t, ctx, s)
	now := time.Now().UTC().Truncate(time.Millisecond)

	live := models.RefreshToken{Token: gofakeit.LetterN(43), UserID: user.ID, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	dead := models.RefreshToken{Token: gofakeit.LetterN(43), UserID: user.ID, CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	edge := models.RefreshToken{Token: gofakeit.LetterN(43), UserID: user.ID, CreatedAt: now.Add(-time.Hour), ExpiresAt: now}
	for _, rt := range []models.RefreshToken{live, dead, edge} {
		require.NoError(t, s.SaveRefreshToken(ctx, rt))
	}

	n, err := s.DeleteExpiredRefreshTokens(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	_, err = s.RefreshToken(ctx, live.Token)
	require.NoError(t, err)
	_, err = s.RefreshToken(ctx, dead.Token)
	require.ErrorIs(t, err, storage.ErrRefreshTokenNotFound)
	_, err = s.RefreshToken(ctx, edge.Token)
	require.ErrorIs(t, err, storage.ErrRefreshTokenNotFound)
}

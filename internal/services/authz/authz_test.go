package authz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth-service/internal/domain/models"
	"auth-service/internal/lib/jwt"
	"auth-service/internal/lib/logger/handlers/slogdiscard"
	"auth-service/internal/storage/memory"
)

func newAuthz(t *testing.T) (*Authz, *memory.Storage, *jwt.Codec) {
	t.Helper()

	store := memory.New()
	codec, err := jwt.New(gofakeit.LetterN(32))
	require.NoError(t, err)

	return New(slogdiscard.NewDiscardLogger(), store, codec), store, codec
}

func saveUser(t *testing.T, store *memory.Storage, role models.Role) models.User {
	t.Helper()

	user, err := store.SaveUser(context.Background(), gofakeit.Username(), gofakeit.Email(), []byte("hash"), role)
	require.NoError(t, err)

	return user
}

func TestValidateToken(t *testing.T) {
	ctx := context.Background()
	a, store, codec := newAuthz(t)
	user := saveUser(t, store, models.RoleAdmin)

	t.Run("session token", func(t *testing.T) {
		token, err := codec.Sign(user.ID, "admin", jwt.SessionTTL)
		require.NoError(t, err)

		got, found, err := a.ValidateToken(ctx, token)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.Email, got.Email)
		assert.Equal(t, models.RoleAdmin, got.Role)
	})

	t.Run("renewed token still yields stored role", func(t *testing.T) {
		token, err := codec.Sign(user.ID, "", jwt.RenewedTTL)
		require.NoError(t, err)

		got, found, err := a.ValidateToken(ctx, token)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, models.RoleAdmin, got.Role)
	})

	t.Run("role in token is ignored", func(t *testing.T) {
		player := saveUser(t, store, models.RolePlayer)
		token, err := codec.Sign(player.ID, "admin", jwt.SessionTTL)
		require.NoError(t, err)

		got, _, err := a.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, models.RolePlayer, got.Role)
	})

	t.Run("deleted user", func(t *testing.T) {
		gone := saveUser(t, store, models.RolePlayer)
		token, err := codec.Sign(gone.ID, "player", jwt.SessionTTL)
		require.NoError(t, err)
		store.DeleteUser(ctx, gone.ID)

		got, found, err := a.ValidateToken(ctx, token)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, got.ID)
	})

	t.Run("foreign signature", func(t *testing.T) {
		other, err := jwt.New(gofakeit.LetterN(32))
		require.NoError(t, err)
		token, err := other.Sign(user.ID, "admin", jwt.SessionTTL)
		require.NoError(t, err)

		_, _, err = a.ValidateToken(ctx, token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		past, err := jwt.New("s3cret", jwt.WithClock(func() time.Time { return time.Now().Add(-3 * time.Hour) }))
		require.NoError(t, err)
		a := New(slogdiscard.NewDiscardLogger(), store, mustCodec(t, "s3cret"))
		token, err := past.Sign(user.ID, "admin", jwt.SessionTTL)
		require.NoError(t, err)

		_, _, err = a.ValidateToken(ctx, token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, err := a.ValidateToken(ctx, "not.a.jwt")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func mustCodec(t *testing.T, secret string) *jwt.Codec {
	t.Helper()

	c, err := jwt.New(secret)
	require.NoError(t, err)

	return c
}

func TestUserByID(t *testing.T) {
	ctx := context.Background()
	a, store, _ := newAuthz(t)
	user := saveUser(t, store, models.RolePlayer)

	got, err := a.UserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Username, got.Username)

	_, err = a.UserByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUsersByIDs(t *testing.T) {
	ctx := context.Background()
	a, store, _ := newAuthz(t)
	u1 := saveUser(t, store, models.RolePlayer)
	u2 := saveUser(t, store, models.RoleAdmin)

	users, err := a.UsersByIDs(ctx, []string{u1.ID, uuid.NewString(), u2.ID})
	require.NoError(t, err)
	require.Len(t, users, 2)

	ids := []string{users[0].ID, users[1].ID}
	assert.ElementsMatch(t, []string{u1.ID, u2.ID}, ids)

	users, err = a.UsersByIDs(ctx, []string{})
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestCheckPermission(t *testing.T) {
	ctx := context.Background()
	a, store, _ := newAuthz(t)
	admin := saveUser(t, store, models.RoleAdmin)
	player := saveUser(t, store, models.RolePlayer)

	tests := []struct {
		name   string
		userID string
		action string
		want   bool
	}{
		{name: "admin create_tournament", userID: admin.ID, action: "create_tournament", want: true},
		{name: "player create_tournament", userID: player.ID, action: "create_tournament", want: false},
		{name: "admin view_results", userID: admin.ID, action: "view_results", want: true},
		{name: "player view_results", userID: player.ID, action: "view_results", want: true},
		{name: "unknown action", userID: admin.ID, action: "delete_match", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed, err := a.CheckPermission(ctx, tt.userID, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, allowed)
		})
	}

	_, err := a.CheckPermission(ctx, uuid.NewString(), "view_results")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestCheckPermission_FollowsRoleChange(t *testing.T) {
	ctx := context.Background()
	a, store, _ := newAuthz(t)
	user := saveUser(t, store, models.RolePlayer)

	allowed, err := a.CheckPermission(ctx, user.ID, "create_tournament")
	require.NoError(t, err)
	require.False(t, allowed)

	require.NoError(t, store.SetRole(ctx, user.ID, models.RoleAdmin))

	allowed, err = a.CheckPermission(ctx, user.ID, "create_tournament")
	require.NoError(t, err)
	assert.True(t, allowed)
}

type brokenUsers struct{}

var errBroken = errors.New("i/o timeout")

func (brokenUsers) UserByID(context.Context, string) (models.User, error) {
	return models.User{}, errBroken
}

func (brokenUsers) UsersByIDs(context.Context, []string) ([]models.User, error) {
	return nil, errBroken
}

func TestStoreFailure(t *testing.T) {
	ctx := context.Background()
	codec := mustCodec(t, "s3cret")
	a := New(slogdiscard.NewDiscardLogger(), brokenUsers{}, codec)

	token, err := codec.Sign(uuid.NewString(), "player", jwt.SessionTTL)
	require.NoError(t, err)

	_, _, err = a.ValidateToken(ctx, token)
	require.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = a.UserByID(ctx, uuid.NewString())
	require.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = a.UsersByIDs(ctx, []string{uuid.NewString()})
	require.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = a.CheckPermission(ctx, uuid.NewString(), "view_results")
	require.ErrorIs(t, err, ErrStoreUnavailable)
}

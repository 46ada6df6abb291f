// Package seeder provisions administrator accounts outside the public
// register flow, which only ever creates players.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"auth-service/internal/domain/models"
	"auth-service/internal/lib/logger/sl"
	"auth-service/internal/lib/password"
	"auth-service/internal/storage"
)

const DefaultAdminUsername = "admin"

var ErrPasswordRequired = errors.New("password is required to create a new admin")

type UserStore interface {
	SaveUser(
		ctx context.Context,
		username string,
		email string,
		passHash []byte,
		role models.Role,
	) (models.User, error)
	User(ctx context.Context, email string) (models.User, error)
	SetRole(ctx context.Context, userID string, role models.Role) error
}

// EnsureAdmin makes the account behind email an admin. An existing account is
// promoted and keeps its password; otherwise one is created with pass, which
// must then be non-empty. created reports which of the two happened.
func EnsureAdmin(
	ctx context.Context,
	log *slog.Logger,
	store UserStore,
	email string,
	pass string,
) (user models.User, created bool, err error) {
	const op = "seeder.EnsureAdmin"

	log = log.With(slog.String("op", op), slog.String("email", email))

	user, err = store.User(ctx, email)
	switch {
	case err == nil:
		if err := store.SetRole(ctx, user.ID, models.RoleAdmin); err != nil {
			log.Error("failed to promote user", sl.Err(err))
			return models.User{}, false, fmt.Errorf("%s: %w", op, err)
		}
		user.Role = models.RoleAdmin
		log.Info("existing user promoted to admin", slog.String("user_id", user.ID))
		return user, false, nil
	case !errors.Is(err, storage.ErrUserNotFound):
		log.Error("failed to look up user", sl.Err(err))
		return models.User{}, false, fmt.Errorf("%s: %w", op, err)
	}

	if pass == "" {
		return models.User{}, false, fmt.Errorf("%s: %w", op, ErrPasswordRequired)
	}

	hash, err := password.Hash(pass)
	if err != nil {
		return models.User{}, false, fmt.Errorf("%s: %w", op, err)
	}

	user, err = store.SaveUser(ctx, DefaultAdminUsername, email, hash, models.RoleAdmin)
	if err != nil {
		log.Error("failed to save admin", sl.Err(err))
		return models.User{}, false, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("admin created", slog.String("user_id", user.ID))

	return user, true, nil
}

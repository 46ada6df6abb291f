// Package authz answers identity and permission questions for other
// services. It reads users fresh from the store on every call and never
// touches the refresh token ledger.
package authz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"auth-service/internal/domain/models"
	"auth-service/internal/domain/permissions"
	"auth-service/internal/lib/jwt"
	"auth-service/internal/lib/logger/sl"
	"auth-service/internal/storage"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrUserNotFound     = errors.New("user not found")
	ErrStoreUnavailable = errors.New("credential store unavailable")
)

type UserProvider interface {
	UserByID(ctx context.Context, userID string) (models.User, error)
	UsersByIDs(ctx context.Context, userIDs []string) ([]models.User, error)
}

type TokenVerifier interface {
	Verify(token string) (*jwt.Claims, error)
}

type Authz struct {
	log      *slog.Logger
	users    UserProvider
	verifier TokenVerifier
}

func New(log *slog.Logger, users UserProvider, verifier TokenVerifier) *Authz {
	return &Authz{
		log:      log,
		users:    users,
		verifier: verifier,
	}
}

// ValidateToken verifies token and loads the user it names. found is false,
// with a nil error, when the token is good but the user no longer exists.
func (a *Authz) ValidateToken(ctx context.Context, token string) (user models.User, found bool, err error) {
	const op = "authz.ValidateToken"

	log := a.log.With(slog.String("op", op))

	claims, err := a.verifier.Verify(token)
	if err != nil {
		log.Debug("token rejected", sl.Err(err))
		return models.User{}, false, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	user, err = a.users.UserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Info("token subject no longer exists", slog.String("user_id", claims.UserID))
			return models.User{}, false, nil
		}
		log.Error("failed to get user", sl.Err(err))
		return models.User{}, false, fmt.Errorf("%s: %w", op, ErrStoreUnavailable)
	}

	return user, true, nil
}

func (a *Authz) UserByID(ctx context.Context, userID string) (models.User, error) {
	const op = "authz.UserByID"

	user, err := a.users.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		a.log.Error("failed to get user", slog.String("op", op), sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, ErrStoreUnavailable)
	}

	return user, nil
}

// UsersByIDs returns the known users among userIDs. Unknown ids are dropped
// and order is not preserved.
func (a *Authz) UsersByIDs(ctx context.Context, userIDs []string) ([]models.User, error) {
	const op = "authz.UsersByIDs"

	users, err := a.users.UsersByIDs(ctx, userIDs)
	if err != nil {
		a.log.Error("failed to get users", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrStoreUnavailable)
	}

	return users, nil
}

// CheckPermission evaluates action against the user's current stored role.
// Unknown actions are denied, not rejected.
func (a *Authz) CheckPermission(ctx context.Context, userID, action string) (bool, error) {
	const op = "authz.CheckPermission"

	user, err := a.UserByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	allowed := permissions.Allowed(user.Role, action)

	a.log.Debug("permission evaluated",
		slog.String("op", op),
		slog.String("user_id", userID),
		slog.String("role", user.Role.String()),
		slog.String("action", action),
		slog.Bool("allowed", allowed),
	)

	return allowed, nil
}

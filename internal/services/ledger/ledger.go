// Package ledger records which refresh tokens are currently usable.
//
// A token is usable while its row exists and the current time is before its
// expiry. Deleting the row is the only way to revoke it.
package ledger

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"auth-service/internal/domain/models"
	"auth-service/internal/lib/logger/sl"
	"auth-service/internal/storage"
)

// DefaultTTL is the lifetime of a freshly issued refresh token.
const DefaultTTL = 7 * 24 * time.Hour

const tokenBytes = 32

var ErrNotFound = errors.New("refresh token not found")

type RefreshTokenStore interface {
	SaveRefreshToken(ctx context.Context, token models.RefreshToken) error
	RefreshToken(ctx context.Context, token string) (models.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	ExpireRefreshToken(ctx context.Context, token string, at time.Time) error
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

type Ledger struct {
	log   *slog.Logger
	store RefreshTokenStore
	ttl   time.Duration
	now   func() time.Time
}

type Option func(*Ledger)

// WithClock replaces the wall clock used for expiry decisions.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// New returns a ledger issuing tokens that live for ttl. A non-positive ttl
// falls back to DefaultTTL.
func New(log *slog.Logger, store RefreshTokenStore, ttl time.Duration, opts ...Option) *Ledger {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	l := &Ledger{
		log:   log,
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// TTL returns the lifetime given to newly issued tokens.
func (l *Ledger) TTL() time.Duration {
	return l.ttl
}

// Now returns the ledger's notion of the current time.
func (l *Ledger) Now() time.Time {
	return l.now()
}

// Issue creates and persists a new refresh token for userID.
func (l *Ledger) Issue(ctx context.Context, userID string) (string, error) {
	const op = "ledger.Issue"

	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	now := l.now().UTC()
	rt := models.RefreshToken{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(l.ttl),
	}

	if err := l.store.SaveRefreshToken(ctx, rt); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return token, nil
}

// Lookup returns the stored row for token. Callers decide what an expired
// row means; Lookup only reports whether the row exists.
func (l *Ledger) Lookup(ctx context.Context, token string) (models.RefreshToken, error) {
	const op = "ledger.Lookup"

	rt, err := l.store.RefreshToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrRefreshTokenNotFound) {
			return models.RefreshToken{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return models.RefreshToken{}, fmt.Errorf("%s: %w", op, err)
	}

	return rt, nil
}

// Revoke deletes token. Revoking an unknown token succeeds.
func (l *Ledger) Revoke(ctx context.Context, token string) error {
	const op = "ledger.Revoke"

	if err := l.store.DeleteRefreshToken(ctx, token); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Rotate issues a replacement token for the owner of token and cuts the old
// row's lifetime down to grace. With grace == 0 the old row is deleted.
func (l *Ledger) Rotate(ctx context.Context, token string, grace time.Duration) (string, error) {
	const op = "ledger.Rotate"

	old, err := l.Lookup(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	fresh, err := l.Issue(ctx, old.UserID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if grace <= 0 {
		err = l.store.DeleteRefreshToken(ctx, token)
	} else {
		err = l.store.ExpireRefreshToken(ctx, token, l.now().UTC().Add(grace))
	}
	if err != nil {
		// the new token is already usable; the old one simply lives out its ttl
		l.log.Warn("failed to retire rotated refresh token",
			slog.String("op", op),
			slog.String("user_id", old.UserID),
			sl.Err(err),
		)
	}

	return fresh, nil
}

// Sweep deletes every row that is already expired and returns how many went.
func (l *Ledger) Sweep(ctx context.Context) (int64, error) {
	const op = "ledger.Sweep"

	n, err := l.store.DeleteExpiredRefreshTokens(ctx, l.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func generateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

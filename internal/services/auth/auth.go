package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"auth-service/internal/domain/models"
	"auth-service/internal/lib/jwt"
	"auth-service/internal/lib/logger/sl"
	"auth-service/internal/lib/password"
	"auth-service/internal/services/ledger"
	"auth-service/internal/storage"
)

type Auth struct {
	log          *slog.Logger
	userSaver    UserSaver
	userProvider UserProvider
	ledger       RefreshTokenLedger
	codec        TokenCodec
	rotate       bool
	rotateGrace  time.Duration
}

type UserSaver interface {
	SaveUser(
		ctx context.Context,
		username string,
		email string,
		passHash []byte,
		role models.Role,
	) (models.User, error)
}

type UserProvider interface {
	User(ctx context.Context, email string) (models.User, error)
}

type RefreshTokenLedger interface {
	Issue(ctx context.Context, userID string) (string, error)
	Lookup(ctx context.Context, token string) (models.RefreshToken, error)
	Revoke(ctx context.Context, token string) error
	Rotate(ctx context.Context, token string, grace time.Duration) (string, error)
	Now() time.Time
}

type TokenCodec interface {
	Sign(subjectID, role string, ttl time.Duration) (string, error)
	Verify(token string) (*jwt.Claims, error)
}

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidPassword      = errors.New("password is not acceptable")
	ErrUserExists           = errors.New("user already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrRefreshTokenRequired = errors.New("refresh token required")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrRefreshTokenExpired  = errors.New("refresh token expired")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrStoreUnavailable     = errors.New("credential store unavailable")
)

// TokenPair is what a client holds after login. RefreshToken is empty when a
// refresh call kept the existing refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Identity is what a verified access token says about its bearer. Role is
// empty for tokens minted by Refresh.
type Identity struct {
	ID   string
	Role string
}

type Option func(*Auth)

// WithRotation makes Refresh hand out a new refresh token every time. The
// presented token stays usable for grace afterwards; zero revokes it at once.
func WithRotation(grace time.Duration) Option {
	return func(a *Auth) {
		a.rotate = true
		a.rotateGrace = grace
	}
}

// New returns a new instance of the Auth service.
func New(
	log *slog.Logger,
	userSaver UserSaver,
	userProvider UserProvider,
	ledger RefreshTokenLedger,
	codec TokenCodec,
	opts ...Option,
) *Auth {
	a := &Auth{
		log:          log,
		userSaver:    userSaver,
		userProvider: userProvider,
		ledger:       ledger,
		codec:        codec,
	}
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Register creates a user with the default role.
func (a *Auth) Register(
	ctx context.Context,
	username string,
	email string,
	pass string,
) (models.User, error) {
	const op = "auth.Register"

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)
	log.Info("registering user")

	passHash, err := password.Hash(pass)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			log.Warn("password rejected", sl.Err(err))
			return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidPassword)
		}
		log.Error("failed to generate password hash", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := a.userSaver.SaveUser(ctx, username, email, passHash, models.DefaultRole)
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exists", sl.Err(err))
			return models.User{}, fmt.Errorf("%s: %w", op, ErrUserExists)
		}
		log.Error("failed to save user", sl.Err(err))
		return models.User{}, fmt.Errorf("%s: %w", op, ErrStoreUnavailable)
	}

	log.Info("user registered", slog.String("user_id", user.ID))

	return user, nil
}

// Login checks credentials and opens a session: a 2h access token carrying
// the role, and a refresh token recorded in the ledger.
func (a *Auth) Login(
	ctx context.Context,
	email string,
	pass string,
) (TokenPair, error) {
	const op = "auth.Login"

	log := a.log.With(slog.String("op", op))
	log.Info("attempting to login user")

	user, err := a.userProvider.User(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", sl.Err(err))
			return TokenPair{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		log.Error("failed to get user", sl.Err(err))
		return TokenPair{}, fmt.Errorf("%s: %w", op, ErrStoreUnavailable)
	}

	if !password.Verify(pass, user.PassHash) {
		log.Info("invalid credentials", slog.String("user_id", user.ID))
		return TokenPair{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	accessToken, err := a.codec.Sign(user.ID, user.Role.String(), jwt.SessionTTL)
	if err != nil {
		log.Error("failed to generate access token", sl.Err(err))
		return TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := a.ledger.Issue(ctx, user.ID)
	if err != nil {
		log.Error("failed to issue refresh token", sl.Err(err))
		return TokenPair{}, fmt.Errorf("%s: %w", op, ErrStoreUnavailable)
	}

	log.Info("user logged in successfully", slog.String("user_id", user.ID))

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh mints a 15m access token without a role claim. The presented
// refresh token is left untouched unless rotation is enabled.
func (a *Auth) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	const op = "auth.Refresh"

	log := a.log.With(slog.String("op", op))

	if refreshToken == "" {
		return TokenPair{}, fmt.Errorf("%s: %w", op, ErrRefreshTokenRequired)
	}

	rt, err := a.ledger.Lookup(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			log.Info("unknown refresh token")
			return TokenPair{}, fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
		}
		log.Error("failed to look up refresh token", sl.Err(err))
		return TokenPair{}, fmt.Errorf("%s: %w", op, ErrStoreUnavailable)
	}

	log = log.With(slog.String("user_id", rt.UserID))

	if rt.Expired(a.ledger.Now()) {
		log.Info("refresh token expired", slog.Time("expires_at", rt.ExpiresAt))
		return TokenPair{}, fmt.Errorf("%s: %w", op, ErrRefreshTokenExpired)
	}

	accessToken, err := a.codec.Sign(rt.UserID, "", jwt.RenewedTTL)
	if err != nil {
		log.Error("failed to generate access token", sl.Err(err))
		return TokenPair{}, fmt.Errorf("%s: %w", op, err)
	}

	pair := TokenPair{AccessToken: accessToken}

	if a.rotate {
		pair.RefreshToken, err = a.ledger.Rotate(ctx, refreshToken, a.rotateGrace)
		if err != nil {
			if errors.Is(err, ledger.ErrNotFound) {
				// revoked between lookup and rotation
				return TokenPair{}, fmt.Errorf("%s: %w", op, ErrInvalidRefreshToken)
			}
			log.Error("failed to rotate refresh token", sl.Err(err))
			return TokenPair{}, fmt.Errorf("%s: %w", op, ErrStoreUnavailable)
		}
	}

	log.Info("access token renewed", slog.Bool("rotated", a.rotate))

	return pair, nil
}

// Logout revokes refreshToken. Logging out twice, or with a token that was
// never issued, succeeds.
func (a *Auth) Logout(ctx context.Context, refreshToken string) error {
	const op = "auth.Logout"

	log := a.log.With(slog.String("op", op))

	if refreshToken == "" {
		return fmt.Errorf("%s: %w", op, ErrRefreshTokenRequired)
	}

	if err := a.ledger.Revoke(ctx, refreshToken); err != nil {
		log.Error("failed to revoke refresh token", sl.Err(err))
		return fmt.Errorf("%s: %w", op, ErrStoreUnavailable)
	}

	log.Info("session closed")

	return nil
}

// Verify checks an access token and returns the identity it carries. The
// store is not consulted.
func (a *Auth) Verify(_ context.Context, accessToken string) (Identity, error) {
	const op = "auth.Verify"

	claims, err := a.codec.Verify(accessToken)
	if err != nil {
		return Identity{}, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}

	return Identity{ID: claims.UserID, Role: claims.Role}, nil
}

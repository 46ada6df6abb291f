package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionTTL is the lifetime of the access token returned by login.
	SessionTTL = 2 * time.Hour
	// RenewedTTL is the lifetime of the access token minted from a refresh token.
	RenewedTTL = 15 * time.Minute
)

var (
	ErrEmptySecret      = errors.New("jwt secret is empty")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrExpired          = errors.New("token expired")
)

// Claims is the payload of an access token. Role is absent on renewed tokens.
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies access tokens with a single symmetric secret.
type Codec struct {
	secret []byte
	now    func() time.Time
}

type Option func(*Codec)

// WithClock overrides the time source used for iat/exp and for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		c.now = now
	}
}

// New returns a Codec bound to secret. A blank secret is rejected so that the
// service never starts issuing tokens nobody can verify.
func New(secret string, opts ...Option) (*Codec, error) {
	const op = "jwt.New"

	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptySecret)
	}

	c := &Codec{
		secret: []byte(secret),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Sign creates an access token for subjectID. An empty role omits the role claim.
func (c *Codec) Sign(subjectID, role string, ttl time.Duration) (string, error) {
	const op = "jwt.Sign"

	issuedAt := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: subjectID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// Verify parses token and returns its claims. It fails with ErrExpired once
// now >= exp and with ErrInvalidSignature for any other defect.
func (c *Codec) Verify(token string) (*Claims, error) {
	const op = "jwt.Verify"

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrExpired)
		}
		return nil, fmt.Errorf("%s: %w: %v", op, ErrInvalidSignature, err)
	}

	if !parsed.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidSignature)
	}

	return claims, nil
}

package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newTestCodec(t *testing.T) (*Codec, *clock) {
	t.Helper()

	clk := &clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	c, err := New(testSecret, WithClock(clk.Now))
	require.NoError(t, err)

	return c, clk
}

func TestNew_EmptySecret(t *testing.T) {
	for _, secret := range []string{"", "   "} {
		_, err := New(secret)
		require.ErrorIs(t, err, ErrEmptySecret)
	}
}

func TestSignVerify_RoundTrip(t *testing.T) {
	c, _ := newTestCodec(t)

	for i := 0; i < 20; i++ {
		id := gofakeit.UUID()
		role := gofakeit.RandomString([]string{"admin", "player"})

		token, err := c.Sign(id, role, SessionTTL)
		require.NoError(t, err)

		claims, err := c.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, id, claims.UserID)
		assert.Equal(t, role, claims.Role)
	}
}

func TestSign_ClaimsShape(t *testing.T) {
	c, clk := newTestCodec(t)

	token, err := c.Sign("user-1", "admin", SessionTTL)
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithTimeFunc(clk.Now))
	require.NoError(t, err)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "user-1", claims["id"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, float64(clk.now.Unix()), claims["iat"])
	assert.Equal(t, float64(clk.now.Add(SessionTTL).Unix()), claims["exp"])
}

func TestSign_EmptyRoleOmitsClaim(t *testing.T) {
	c, clk := newTestCodec(t)

	token, err := c.Sign("user-1", "", RenewedTTL)
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithTimeFunc(clk.Now))
	require.NoError(t, err)

	claims := parsed.Claims.(jwt.MapClaims)
	_, hasRole := claims["role"]
	assert.False(t, hasRole)

	verified, err := c.Verify(token)
	require.NoError(t, err)
	assert.Empty(t, verified.Role)
}

func TestVerify_Expiry(t *testing.T) {
	c, clk := newTestCodec(t)
	start := clk.now

	token, err := c.Sign("user-1", "player", RenewedTTL)
	require.NoError(t, err)

	clk.now = start.Add(RenewedTTL - time.Second)
	_, err = c.Verify(token)
	require.NoError(t, err)

	clk.now = start.Add(RenewedTTL)
	_, err = c.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
	assert.NotErrorIs(t, err, ErrInvalidSignature)

	clk.now = start.Add(24 * time.Hour)
	_, err = c.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerify_TamperRejection(t *testing.T) {
	c, _ := newTestCodec(t)

	token, err := c.Sign(gofakeit.UUID(), "admin", SessionTTL)
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		tampered := token[:i] + string(replacement) + token[i+1:]

		_, err := c.Verify(tampered)
		require.ErrorIsf(t, err, ErrInvalidSignature, "byte %d flipped", i)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	c, clk := newTestCodec(t)
	other, err := New("another-secret", WithClock(clk.Now))
	require.NoError(t, err)

	token, err := other.Sign("user-1", "admin", SessionTTL)
	require.NoError(t, err)

	_, err = c.Verify(token)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_Malformed(t *testing.T) {
	c, _ := newTestCodec(t)

	for _, token := range []string{"", "not.a.jwt", "abc", strings.Repeat(".", 5)} {
		_, err := c.Verify(token)
		require.ErrorIs(t, err, ErrInvalidSignature)
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	c, clk := newTestCodec(t)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "user-1",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(clk.now.Add(time.Hour)),
		},
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = c.Verify(token)
	require.ErrorIs(t, err, ErrInvalidSignature)
}

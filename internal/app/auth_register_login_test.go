package app_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth-service/internal/app/suite"
	"auth-service/internal/config"
	userv1 "auth-service/pkg/userv1"
)

const passDefaultLen = 10

func TestAuthRegisterLogin(t *testing.T) {
	ctx, st := suite.New(t)

	email := gofakeit.Email()
	password := randomPassword()

	code, body := st.Post("/auth/register", map[string]string{
		"username": gofakeit.Username(),
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, code, body)
	userID := body["user"].(map[string]any)["id"].(string)
	assert.NotEmpty(t, userID)

	code, body = st.Post("/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, code, body)

	loginTime := time.Now()

	accessToken := body["accessToken"].(string)
	require.NotEmpty(t, accessToken)
	require.NotEmpty(t, body["refreshToken"])

	tokenParsed, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(st.Cfg.JWTSecret), nil
	})
	require.NoError(t, err)

	claims, ok := tokenParsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, userID, claims["id"].(string))
	assert.Equal(t, "player", claims["role"].(string))

	const deltaSeconds = 1

	assert.InDelta(t, loginTime.Add(2*time.Hour).Unix(), claims["exp"].(float64), deltaSeconds)

	users, err := st.UserClient.GetUsersByIds(ctx, &userv1.GetUsersByIdsRequest{Ids: []string{userID, "missing"}})
	require.NoError(t, err)
	require.Len(t, users.GetUsers(), 1)
	assert.Equal(t, email, users.GetUsers()[0].GetEmail())
}

func TestAuthRefreshReusable(t *testing.T) {
	_, st := suite.New(t)

	email := gofakeit.Email()
	password := randomPassword()

	code, _ := st.Post("/auth/register", map[string]string{
		"username": gofakeit.Username(), "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, code)

	_, body := st.Post("/auth/login", map[string]string{"email": email, "password": password})
	refreshToken := body["refreshToken"].(string)

	for i := 0; i < 3; i++ {
		code, body = st.Post("/auth/refresh", map[string]string{"refreshToken": refreshToken})
		require.Equal(t, http.StatusOK, code, body)
		require.NotEmpty(t, body["accessToken"])
		assert.NotContains(t, body, "refreshToken")
	}
}

func TestAuthRefreshRotation(t *testing.T) {
	cfg := config.MustLoadPath(suite.ConfigPath)
	cfg.RefreshRotation.Enabled = true
	cfg.RefreshRotation.Grace = 0

	_, st := suite.NewWithConfig(t, cfg)

	email := gofakeit.Email()
	password := randomPassword()

	st.Post("/auth/register", map[string]string{"username": gofakeit.Username(), "email": email, "password": password})
	_, body := st.Post("/auth/login", map[string]string{"email": email, "password": password})
	refreshToken1 := body["refreshToken"].(string)

	code, body := st.Post("/auth/refresh", map[string]string{"refreshToken": refreshToken1})
	require.Equal(t, http.StatusOK, code)
	refreshToken2, ok := body["refreshToken"].(string)
	require.True(t, ok)
	assert.NotEqual(t, refreshToken1, refreshToken2)

	code, body = st.Post("/auth/refresh", map[string]string{"refreshToken": refreshToken1})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid refresh token", body["message"])

	code, _ = st.Post("/auth/refresh", map[string]string{"refreshToken": refreshToken2})
	assert.Equal(t, http.StatusOK, code)
}

func TestRefresh_FailCases(t *testing.T) {
	_, st := suite.New(t)

	tests := []struct {
		name         string
		refreshToken string
		expectedCode int
		expectedErr  string
	}{
		{
			name:         "Empty refresh token",
			refreshToken: "",
			expectedCode: http.StatusBadRequest,
			expectedErr:  "refresh token required",
		},
		{
			name:         "Invalid refresh token",
			refreshToken: "invalid-token-that-does-not-exist",
			expectedCode: http.StatusUnauthorized,
			expectedErr:  "invalid refresh token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := st.Post("/auth/refresh", map[string]string{"refreshToken": tt.refreshToken})
			assert.Equal(t, tt.expectedCode, code)
			assert.Equal(t, tt.expectedErr, body["message"])
		})
	}
}

func TestRegisterLogin_DuplicatedRegistration(t *testing.T) {
	_, st := suite.New(t)

	email := gofakeit.Email()
	pass := randomPassword()

	code, _ := st.Post("/auth/register", map[string]string{
		"username": gofakeit.Username(), "email": email, "password": pass,
	})
	require.Equal(t, http.StatusCreated, code)

	code, body := st.Post("/auth/register", map[string]string{
		"username": gofakeit.Username(), "email": email, "password": pass,
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.NotContains(t, body, "user")
	assert.Equal(t, "user already exists", body["message"])
}

func TestRegister_FailCases(t *testing.T) {
	_, st := suite.New(t)

	tests := []struct {
		name        string
		username    string
		email       string
		password    string
		expectedErr string
	}{
		{
			name:        "Register with Empty Password",
			username:    gofakeit.Username(),
			email:       gofakeit.Email(),
			password:    "",
			expectedErr: "password is required",
		},
		{
			name:        "Register with Empty Email",
			username:    gofakeit.Username(),
			email:       "",
			password:    randomPassword(),
			expectedErr: "email is required",
		},
		{
			name:        "Register with Empty Username",
			username:    "",
			email:       gofakeit.Email(),
			password:    randomPassword(),
			expectedErr: "username is required",
		},
		{
			name:        "Register with All Empty",
			expectedErr: "username is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := st.Post("/auth/register", map[string]string{
				"username": tt.username,
				"email":    tt.email,
				"password": tt.password,
			})
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tt.expectedErr, body["message"])
		})
	}
}

func TestLogin_FailCases(t *testing.T) {
	_, st := suite.New(t)

	email := gofakeit.Email()
	code, _ := st.Post("/auth/register", map[string]string{
		"username": gofakeit.Username(), "email": email, "password": randomPassword(),
	})
	require.Equal(t, http.StatusCreated, code)

	tests := []struct {
		name         string
		email        string
		password     string
		expectedCode int
		expectedErr  string
	}{
		{
			name:         "Login with Empty Password",
			email:        email,
			password:     "",
			expectedCode: http.StatusBadRequest,
			expectedErr:  "password is required",
		},
		{
			name:         "Login with Empty Email",
			email:        "",
			password:     randomPassword(),
			expectedCode: http.StatusBadRequest,
			expectedErr:  "email is required",
		},
		{
			name:         "Login with Both Empty Email and Password",
			expectedCode: http.StatusBadRequest,
			expectedErr:  "email is required",
		},
		{
			name:         "Login with Non-Matching Password",
			email:        email,
			password:     randomPassword(),
			expectedCode: http.StatusUnauthorized,
			expectedErr:  "invalid credentials",
		},
		{
			name:         "Login with Unknown Email",
			email:        gofakeit.Email(),
			password:     randomPassword(),
			expectedCode: http.StatusNotFound,
			expectedErr:  "user not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := st.Post("/auth/login", map[string]string{
				"email":    tt.email,
				"password": tt.password,
			})
			assert.Equal(t, tt.expectedCode, code)
			assert.Equal(t, tt.expectedErr, body["message"])
		})
	}
}

func randomPassword() string {
	return gofakeit.Password(true, true, true, true, false, passDefaultLen)
}

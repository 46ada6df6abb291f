package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"auth-service/internal/domain/models"
	"auth-service/internal/lib/password"
	"auth-service/internal/services/seeder"
	"auth-service/internal/storage/sqlite"
)

// sqliteConfig writes a config without jwt_secret, which the migrator must
// not require.
func sqliteConfig(t *testing.T) (configPath, dbPath string) {
	t.Helper()
	t.Setenv("JWT_SECRET", "")

	dir := t.TempDir()
	dbPath = filepath.Join(dir, "data", "auth.db")
	configPath = filepath.Join(dir, "config.yaml")

	body := "env: \"local\"\nstorage:\n  driver: \"sqlite\"\n  path: \"" + dbPath + "\"\n"
	require.NoError(t, os.WriteFile(configPath, []byte(body), 0o600))

	return configPath, dbPath
}

func TestRun_SeedsAdmin(t *testing.T) {
	configPath, dbPath := sqliteConfig(t)
	email := gofakeit.Email()

	require.NoError(t, run(options{configPath: configPath, seedAdmin: email, adminPass: "s3cret"}))

	st, err := sqlite.New(dbPath)
	require.NoError(t, err)
	defer st.Close()

	user, err := st.User(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, password.Verify("s3cret", user.PassHash))
}

func TestRun_PromotesExisting(t *testing.T) {
	configPath, dbPath := sqliteConfig(t)
	require.NoError(t, run(options{configPath: configPath}))

	st, err := sqlite.New(dbPath)
	require.NoError(t, err)
	player, err := st.SaveUser(context.Background(), gofakeit.Username(), gofakeit.Email(), []byte("hash"), models.RolePlayer)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	require.NoError(t, run(options{configPath: configPath, seedAdmin: player.Email}))

	st, err = sqlite.New(dbPath)
	require.NoError(t, err)
	defer st.Close()

	user, err := st.User(context.Background(), player.Email)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestRun_Errors(t *testing.T) {
	configPath, _ := sqliteConfig(t)

	err := run(options{configPath: configPath, seedAdmin: gofakeit.Email()})
	require.ErrorIs(t, err, seeder.ErrPasswordRequired)

	err = run(options{configPath: configPath, down: true, seedAdmin: gofakeit.Email()})
	require.Error(t, err)

	err = run(options{configPath: filepath.Join(t.TempDir(), "nope.yaml")})
	require.Error(t, err)
}

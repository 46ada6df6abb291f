package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	grpcapp "auth-service/internal/app/grpc"
	httpapp "auth-service/internal/app/http"
	"auth-service/internal/config"
	"auth-service/internal/lib/jwt"
	"auth-service/internal/lib/logger/sl"
	"auth-service/internal/services/auth"
	"auth-service/internal/services/authz"
	"auth-service/internal/services/ledger"
	"auth-service/internal/services/reaper"
	"auth-service/internal/storage/memory"
	"auth-service/internal/storage/migrator"
	"auth-service/internal/storage/mongodb"
	"auth-service/internal/storage/postgres"
	"auth-service/internal/storage/sqlite"
)

// Storage is what every credential store driver provides.
type Storage interface {
	auth.UserSaver
	auth.UserProvider
	authz.UserProvider
	ledger.RefreshTokenStore
}

type App struct {
	log     *slog.Logger
	GRPCSrv *grpcapp.App
	HTTPSrv *httpapp.App
	Reaper  *reaper.Reaper
	Auth    *auth.Auth
	Authz   *authz.Authz
	Storage Storage

	closeStorage func(ctx context.Context) error
}

// New wires the application from cfg and panics if anything cannot be set up.
func New(ctx context.Context, log *slog.Logger, cfg *config.Config) *App {
	st, closeFn, err := NewStorage(ctx, log, cfg.Storage)
	if err != nil {
		panic(err)
	}

	codec, err := jwt.New(cfg.JWTSecret)
	if err != nil {
		panic(err)
	}

	return build(log, cfg, st, closeFn, codec)
}

func build(
	log *slog.Logger,
	cfg *config.Config,
	st Storage,
	closeFn func(context.Context) error,
	codec *jwt.Codec,
) *App {
	tokenLedger := ledger.New(log, st, cfg.RefreshTokenTTL)

	var authOpts []auth.Option
	if cfg.RefreshRotation.Enabled {
		authOpts = append(authOpts, auth.WithRotation(cfg.RefreshRotation.Grace))
	}

	authService := auth.New(log, st, st, tokenLedger, codec, authOpts...)
	authzService := authz.New(log, st, codec)

	return &App{
		log:          log,
		GRPCSrv:      grpcapp.New(log, authzService, cfg.GRPC.Port, cfg.GRPC.Timeout),
		HTTPSrv:      httpapp.New(log, authService, cfg.HTTPServer),
		Reaper:       reaper.New(log, tokenLedger, cfg.Reaper.Interval),
		Auth:         authService,
		Authz:        authzService,
		Storage:      st,
		closeStorage: closeFn,
	}
}

// NewStorage opens the configured credential store. SQL drivers get their
// schema migrated first.
func NewStorage(ctx context.Context, log *slog.Logger, cfg config.Storage) (Storage, func(context.Context) error, error) {
	const op = "app.NewStorage"

	log = log.With(slog.String("op", op), slog.String("driver", cfg.Driver))

	switch cfg.Driver {
	case config.StorageSQLite:
		if dir := filepath.Dir(cfg.Path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("%s: %w", op, err)
			}
		}
		applied, err := migrator.Up(migrator.DriverSQLite, migrator.SQLiteURL(cfg.Path))
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("schema ready", slog.Bool("migrated", applied))

		st, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		return st, func(context.Context) error { return st.Close() }, nil

	case config.StoragePostgres:
		applied, err := migrator.Up(migrator.DriverPostgres, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("schema ready", slog.Bool("migrated", applied))

		st, err := postgres.New(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		return st, func(context.Context) error { return st.Close() }, nil

	case config.StorageMongo:
		st, err := mongodb.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		return st, st.Close, nil

	case config.StorageMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		st := memory.New()
		return st, func(context.Context) error { return st.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Driver)
	}
}

// Stop releases the storage. Servers must be stopped first.
func (a *App) Stop(ctx context.Context) {
	const op = "app.Stop"

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := a.closeStorage(ctx); err != nil {
		a.log.Error("failed to close storage", slog.String("op", op), sl.Err(err))
	}
}

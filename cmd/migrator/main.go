package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"auth-service/internal/config"
	"auth-service/internal/services/seeder"
	"auth-service/internal/storage/migrator"
	"auth-service/internal/storage/mongodb"
	"auth-service/internal/storage/postgres"
	"auth-service/internal/storage/sqlite"
)

type options struct {
	configPath string
	down       bool
	seedAdmin  string
	adminPass  string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to config file (or use CONFIG_PATH env)")
	flag.BoolVar(&opts.down, "down", false, "roll back every migration instead of applying them")
	flag.StringVar(&opts.seedAdmin, "seed-admin", "", "email of an account to create or promote to admin")
	flag.StringVar(&opts.adminPass, "admin-password", "", "password for a newly seeded admin (or ADMIN_PASSWORD env)")
	flag.Parse()

	if opts.configPath == "" {
		opts.configPath = os.Getenv("CONFIG_PATH")
	}
	if opts.adminPass == "" {
		opts.adminPass = os.Getenv("ADMIN_PASSWORD")
	}

	if err := run(opts); err != nil {
		log.Fatalf("migrator: %v", err)
	}

	fmt.Println("Database initialization completed successfully")
}

func run(opts options) (err error) {
	if opts.down && opts.seedAdmin != "" {
		return errors.New("--seed-admin cannot be combined with --down")
	}

	cfg, err := config.LoadStorage(opts.configPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, closeFn, err := prepare(ctx, cfg, opts.down)
	if err != nil {
		return fmt.Errorf("prepare %s storage: %w", cfg.Driver, err)
	}
	defer func() {
		if cerr := closeFn(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s storage: %w", cfg.Driver, cerr)
		}
	}()

	if opts.seedAdmin == "" || store == nil {
		return nil
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	user, created, err := seeder.EnsureAdmin(ctx, logger, store, opts.seedAdmin, opts.adminPass)
	if err != nil {
		return err
	}

	if created {
		log.Printf("admin %s created (id %s)", user.Email, user.ID)
	} else {
		log.Printf("user %s promoted to admin", user.Email)
	}

	return nil
}

// prepare migrates the schema (or rolls it back) and opens the store for
// seeding. After a rollback there is nothing to seed and the store is nil.
func prepare(ctx context.Context, cfg config.Storage, down bool) (seeder.UserStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case config.StorageSQLite, config.StoragePostgres:
		driver, url := migrator.DriverPostgres, cfg.Postgres.DSN
		if cfg.Driver == config.StorageSQLite {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
				return nil, noop, err
			}
			driver, url = migrator.DriverSQLite, migrator.SQLiteURL(cfg.Path)
		}

		if down {
			log.Println("Rolling back migrations...")
			return nil, noop, migrator.Down(driver, url)
		}

		applied, err := migrator.Up(driver, url)
		if err != nil {
			return nil, noop, err
		}
		if applied {
			log.Println("Migrations applied")
		} else {
			log.Println("No migrations to apply")
		}

		if cfg.Driver == config.StorageSQLite {
			st, err := sqlite.New(cfg.Path)
			if err != nil {
				return nil, noop, err
			}
			return st, st.Close, nil
		}

		st, err := postgres.New(ctx, cfg.Postgres.DSN, 2)
		if err != nil {
			return nil, noop, err
		}
		return st, st.Close, nil

	case config.StorageMongo:
		if down {
			return nil, noop, errors.New("mongodb has no migrations to roll back")
		}

		log.Println("Connecting to MongoDB...")
		st, err := mongodb.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, noop, err
		}
		log.Println("MongoDB connected, indexes created successfully")

		return st, func() error { return st.Close(context.Background()) }, nil

	default:
		return nil, noop, fmt.Errorf("driver %q has no schema to manage", cfg.Driver)
	}
}

package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageMongo    = "mongodb"
	StorageMemory   = "memory"
)

type Config struct {
	Env             string          `yaml:"env" env:"APP_ENV" env-default:"local"`
	JWTSecret       string          `yaml:"jwt_secret" env:"JWT_SECRET"`
	RefreshTokenTTL time.Duration   `yaml:"refresh_token_ttl" env:"REFRESH_TOKEN_TTL" env-default:"168h"`
	RefreshRotation RefreshRotation `yaml:"refresh_rotation"`
	Storage         Storage         `yaml:"storage"`
	GRPC            GRPCConfig      `yaml:"grpc"`
	HTTPServer      HTTPServer      `yaml:"http_server"`
	Reaper          Reaper          `yaml:"reaper"`
}

// RefreshRotation is off unless enabled explicitly: a refresh token then
// stays valid for its whole lifetime and can be reused.
type RefreshRotation struct {
	Enabled bool          `yaml:"enabled" env:"REFRESH_ROTATION_ENABLED" env-default:"false"`
	Grace   time.Duration `yaml:"grace" env:"REFRESH_ROTATION_GRACE" env-default:"30s"`
}

type Storage struct {
	Driver   string   `yaml:"driver" env:"STORAGE_DRIVER" env-default:"sqlite"`
	Path     string   `yaml:"path" env:"STORAGE_PATH" env-default:"./storage/auth.db"`
	Postgres Postgres `yaml:"postgres"`
	Mongo    Mongo    `yaml:"mongo"`
}

type Postgres struct {
	DSN      string `yaml:"dsn" env:"POSTGRES_DSN"`
	MaxConns int32  `yaml:"max_conns" env:"POSTGRES_MAX_CONNS" env-default:"10"`
}

type Mongo struct {
	URI      string `yaml:"uri" env:"MONGO_URI"`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"auth"`
}

type GRPCConfig struct {
	Port    int           `yaml:"port" env:"GRPC_PORT" env-default:"50051"`
	Timeout time.Duration `yaml:"timeout" env:"GRPC_TIMEOUT" env-default:"5s"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"0.0.0.0:4000"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"10s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
	CORSOrigins     []string      `yaml:"cors_origins" env:"CORS_ORIGINS" env-separator:"," env-default:"*"`
	RateLimit       RateLimit     `yaml:"rate_limit"`
}

// RateLimit applies per client IP to the /auth endpoints. It is off unless
// rps is set.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env:"AUTH_RATE_LIMIT_RPS"`
	Burst int     `yaml:"burst" env:"AUTH_RATE_LIMIT_BURST" env-default:"10"`
}

// Reaper sweeps expired refresh tokens every Interval. A negative interval
// disables it.
type Reaper struct {
	Interval time.Duration `yaml:"interval" env:"REAPER_INTERVAL" env-default:"1h"`
}

// MustLoad reads the config file named by --config or CONFIG_PATH and panics
// on any error.
func MustLoad() *Config {
	path := fetchConfigPath()
	if path == "" {
		panic("config path is empty")
	}

	return MustLoadPath(path)
}

func MustLoadPath(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}

	return cfg
}

// Load reads path, applies environment overrides (a .env file in the working
// directory is honoured) and validates the result.
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadStorage reads path like Load but validates only the storage section.
// Tools that never issue tokens use it, so they need no jwt_secret.
func LoadStorage(path string) (Storage, error) {
	cfg, err := read(path)
	if err != nil {
		return Storage{}, err
	}

	if err := cfg.Storage.Validate(); err != nil {
		return Storage{}, err
	}

	return cfg.Storage, nil
}

func read(path string) (*Config, error) {
	_ = godotenv.Load()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		errs = append(errs, fmt.Errorf("unknown env %q", c.Env))
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	}

	if c.RefreshTokenTTL <= 0 {
		errs = append(errs, errors.New("refresh_token_ttl must be positive"))
	}

	if c.RefreshRotation.Grace < 0 {
		errs = append(errs, errors.New("refresh_rotation.grace cannot be negative"))
	}

	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.GRPC.Port <= 0 || c.GRPC.Port > 65535 {
		errs = append(errs, fmt.Errorf("grpc.port %d is out of range", c.GRPC.Port))
	}

	if c.HTTPServer.Address == "" {
		errs = append(errs, errors.New("http_server.address cannot be empty"))
	}

	if c.HTTPServer.RateLimit.RPS < 0 || c.HTTPServer.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("http_server.rate_limit values cannot be negative"))
	}

	return errors.Join(errs...)
}

func (s Storage) Validate() error {
	switch s.Driver {
	case StorageSQLite:
		if s.Path == "" {
			return errors.New("storage.path is required for sqlite")
		}
	case StoragePostgres:
		if s.Postgres.DSN == "" {
			return errors.New("storage.postgres.dsn is required for postgres")
		}
	case StorageMongo:
		if s.Mongo.URI == "" {
			return errors.New("storage.mongo.uri is required for mongodb")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", s.Driver)
	}

	return nil
}

// fetchConfigPath fetches config path from command line flag or environment variable.
// Priority: flag > env > default.
// Default value is empty string.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}

package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"auth-service/internal/config"
	authhandlers "auth-service/internal/http-server/handlers/auth"
	mwLogger "auth-service/internal/http-server/middleware/logger"
	"auth-service/internal/http-server/middleware/ratelimit"
	resp "auth-service/internal/http-server/response"
)

type AuthService interface {
	authhandlers.Registrar
	authhandlers.LoginProvider
	authhandlers.Verifier
	authhandlers.Refresher
	authhandlers.LogoutProvider
}

type App struct {
	log    *slog.Logger
	server *http.Server
}

func New(log *slog.Logger, auth AuthService, cfg config.HTTPServer) *App {
	return &App{
		log: log,
		server: &http.Server{
			Addr:         cfg.Address,
			Handler:      NewRouter(log, auth, cfg),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// NewRouter builds the HTTP routes. It is exported for tests that serve it
// through httptest.
func NewRouter(log *slog.Logger, auth AuthService, cfg config.HTTPServer) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         3600,
	}).Handler)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		resp.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/auth", func(r chi.Router) {
		if cfg.RateLimit.RPS > 0 {
			r.Use(ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware)
		}

		r.Post("/register", authhandlers.NewRegister(log, auth))
		r.Post("/login", authhandlers.NewLogin(log, auth))
		r.Post("/verify", authhandlers.NewVerify(auth))
		r.Post("/refresh", authhandlers.NewRefresh(log, auth))
		r.Post("/logout", authhandlers.NewLogout(log, auth))
	})

	return router
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

func (a *App) MustRun() {
	if err := a.Run(); err != nil {
		panic(err)
	}
}

func (a *App) Run() error {
	const op = "httpapp.Run"

	l, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	a.log.Info("http server started", slog.String("op", op), slog.String("addr", l.Addr().String()))

	if err := a.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Stop waits for in-flight requests until ctx expires.
func (a *App) Stop(ctx context.Context) error {
	const op = "httpapp.Stop"

	a.log.Info("stopping http server", slog.String("op", op))

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

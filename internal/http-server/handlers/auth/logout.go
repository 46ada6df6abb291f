package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	resp "auth-service/internal/http-server/response"
	"auth-service/internal/lib/logger/sl"
	authsvc "auth-service/internal/services/auth"
)

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LogoutProvider interface {
	Logout(ctx context.Context, refreshToken string) error
}

func NewLogout(log *slog.Logger, provider LogoutProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Logout"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req LogoutRequest
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
			log.Info("bad request body", sl.Err(err))
			resp.Err(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := provider.Logout(r.Context(), req.RefreshToken); err != nil {
			if errors.Is(err, authsvc.ErrRefreshTokenRequired) {
				resp.Err(w, http.StatusBadRequest, "refresh token required")
				return
			}
			log.Error("failed to logout", sl.Err(err))
			resp.Err(w, http.StatusInternalServerError, "failed to logout")
			return
		}

		resp.JSON(w, http.StatusOK, resp.Message{Message: "session closed"})
	}
}

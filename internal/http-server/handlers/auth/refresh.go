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

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (authsvc.TokenPair, error)
}

func NewRefresh(log *slog.Logger, refresher Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Refresh"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req RefreshRequest
		if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
			log.Info("bad request body", sl.Err(err))
			resp.Err(w, http.StatusBadRequest, "invalid request body")
			return
		}

		pair, err := refresher.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			switch {
			case errors.Is(err, authsvc.ErrRefreshTokenRequired):
				resp.Err(w, http.StatusBadRequest, "refresh token required")
			case errors.Is(err, authsvc.ErrInvalidRefreshToken):
				resp.Err(w, http.StatusUnauthorized, "invalid refresh token")
			case errors.Is(err, authsvc.ErrRefreshTokenExpired):
				resp.Err(w, http.StatusUnauthorized, "refresh token expired")
			default:
				log.Error("failed to refresh token", sl.Err(err))
				resp.Err(w, http.StatusInternalServerError, "failed to refresh token")
			}
			return
		}

		resp.JSON(w, http.StatusOK, RefreshResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		})
	}
}

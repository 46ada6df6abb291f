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

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Message      string `json:"message"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LoginProvider interface {
	Login(ctx context.Context, email, password string) (authsvc.TokenPair, error)
}

func NewLogin(log *slog.Logger, provider LoginProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Login"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req LoginRequest
		if err := decodeJSON(r, &req); err != nil {
			log.Info("bad request body", sl.Err(err))
			resp.Err(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if field := missingField(
			[2]string{"email", req.Email},
			[2]string{"password", req.Password},
		); field != "" {
			resp.Err(w, http.StatusBadRequest, field+" is required")
			return
		}

		pair, err := provider.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, authsvc.ErrUserNotFound):
				resp.Err(w, http.StatusNotFound, "user not found")
			case errors.Is(err, authsvc.ErrInvalidCredentials):
				resp.Err(w, http.StatusUnauthorized, "invalid credentials")
			default:
				log.Error("failed to login", sl.Err(err))
				resp.Err(w, http.StatusInternalServerError, "failed to login")
			}
			return
		}

		resp.JSON(w, http.StatusOK, LoginResponse{
			Message:      "login successful",
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		})
	}
}

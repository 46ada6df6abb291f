package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"auth-service/internal/domain/models"
	resp "auth-service/internal/http-server/response"
	"auth-service/internal/lib/logger/sl"
	authsvc "auth-service/internal/services/auth"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

type Registrar interface {
	Register(ctx context.Context, username, email, password string) (models.User, error)
}

func NewRegister(log *slog.Logger, registrar Registrar) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Register"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req RegisterRequest
		if err := decodeJSON(r, &req); err != nil {
			log.Info("bad request body", sl.Err(err))
			resp.Err(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if field := missingField(
			[2]string{"username", req.Username},
			[2]string{"email", req.Email},
			[2]string{"password", req.Password},
		); field != "" {
			resp.Err(w, http.StatusBadRequest, field+" is required")
			return
		}

		user, err := registrar.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, authsvc.ErrUserExists):
				resp.Err(w, http.StatusConflict, "user already exists")
			case errors.Is(err, authsvc.ErrInvalidPassword):
				resp.Err(w, http.StatusBadRequest, "password is too long")
			default:
				log.Error("failed to register user", sl.Err(err))
				resp.Err(w, http.StatusInternalServerError, "failed to register user")
			}
			return
		}

		resp.JSON(w, http.StatusCreated, RegisterResponse{
			Message: "user registered",
			User: User{
				ID:        user.ID,
				Username:  user.Username,
				Email:     user.Email,
				Role:      user.Role.String(),
				CreatedAt: user.CreatedAt,
			},
		})
	}
}

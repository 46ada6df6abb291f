package auth

import (
	"context"
	"net/http"
	"strings"

	resp "auth-service/internal/http-server/response"
	authsvc "auth-service/internal/services/auth"
)

const bearerPrefix = "Bearer "

type Identity struct {
	ID   string `json:"id"`
	Role string `json:"role,omitempty"`
}

type VerifyResponse struct {
	Valid   bool      `json:"valid"`
	User    *Identity `json:"user,omitempty"`
	Message string    `json:"message,omitempty"`
}

type Verifier interface {
	Verify(ctx context.Context, accessToken string) (authsvc.Identity, error)
}

// NewVerify checks the bearer token. A missing or malformed header is 401;
// a token that fails verification is 403.
func NewVerify(verifier Verifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			resp.Err(w, http.StatusUnauthorized, "token not provided or malformed")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if token == "" {
			resp.Err(w, http.StatusUnauthorized, "token not provided or malformed")
			return
		}

		id, err := verifier.Verify(r.Context(), token)
		if err != nil {
			resp.JSON(w, http.StatusForbidden, VerifyResponse{
				Valid:   false,
				Message: "invalid or expired token",
			})
			return
		}

		resp.JSON(w, http.StatusOK, VerifyResponse{
			Valid: true,
			User:  &Identity{ID: id.ID, Role: id.Role},
		})
	}
}

package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"sheetstack/internal/models"
	"sheetstack/internal/services"
)

type contextKey string

const ctxUser contextKey = "user"

// WithAuth requires a bearer session token and loads the live user record
// for it, so membership changes apply without a new login.
func WithAuth(tokens services.TokenService, users *services.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				WriteError(w, http.StatusUnauthorized, "No token provided")
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if tokenStr == "" {
				WriteError(w, http.StatusUnauthorized, "No token provided")
				return
			}
			claims, err := tokens.ParseToken(tokenStr)
			if err != nil {
				zerolog.Ctx(r.Context()).Debug().Err(err).Msg("rejected session token")
				WriteError(w, http.StatusForbidden, "Invalid or expired token")
				return
			}
			user, err := users.ByID(r.Context(), claims.UserID)
			if err != nil {
				writeServiceError(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), ctxUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CurrentUser(r *http.Request) (models.User, bool) {
	user, ok := r.Context().Value(ctxUser).(models.User)
	return user, ok
}

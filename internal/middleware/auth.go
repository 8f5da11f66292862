package middleware

import (
	"net/http"
	"strings"

	"freemarket-be/internal/user"
	"freemarket-be/internal/utils"
)

// AuthMiddleware parses the Bearer token if present and attaches the user
// identity to the request context. Requests without a valid token pass
// through anonymously; handlers decide whether auth is required.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := user.ParseJWT(tokenStr)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Roles)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

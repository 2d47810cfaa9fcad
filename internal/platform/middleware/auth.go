package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// TokenValidator validates bearer tokens for the admin API.
type TokenValidator interface {
	ValidateToken(tokenString string) (*AdminClaims, error)
}

// AdminClaims is what handlers can learn about the caller.
type AdminClaims struct {
	Subject string
	Admin   bool
	JTI     string
}

type contextKeySubject struct{}

// GetSubject returns the authenticated caller, or "".
func GetSubject(ctx context.Context) string {
	subject, _ := ctx.Value(contextKeySubject{}).(string)
	return subject
}

// RequireAdmin rejects requests without a valid bearer token carrying the
// admin claim.
func RequireAdmin(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"path", r.URL.Path,
					"client_ip", ClientIP(r),
				)
				writeError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"path", r.URL.Path,
					"client_ip", ClientIP(r),
					"error", err,
				)
				writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}
			if !claims.Admin {
				logger.WarnContext(ctx, "forbidden - admin claim missing",
					"path", r.URL.Path,
					"client_ip", ClientIP(r),
					"subject", claims.Subject,
				)
				writeError(w, http.StatusForbidden, "forbidden", "Admin privileges required")
				return
			}

			ctx = context.WithValue(ctx, contextKeySubject{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + code + `","error_description":"` + description + `"}`))
}

package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fundacion-saciar/saciar-api/internal/platform/httpx"
)

type contextKey struct{}

// Middleware guards API routes behind bearer-token validation.
type Middleware struct {
	Secret string
	Logger *slog.Logger
}

// RequireAuth rejects requests without a valid Authorization header.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			httpx.Msg(w, http.StatusUnauthorized, "Token requerido.")
			return
		}

		claims, err := ValidateToken(m.Secret, token)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Warn("token rejected", slog.String("path", r.URL.Path))
			}
			httpx.Msg(w, http.StatusUnauthorized, "Token inválido o expirado.")
			return
		}

		ctx := context.WithValue(r.Context(), contextKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the validated claims, or nil outside
// RequireAuth.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(contextKey{}).(*Claims)
	return claims
}

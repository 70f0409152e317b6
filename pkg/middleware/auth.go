package middleware

import (
	"net/http"
	"strings"

	"dcms/pkg/jwt"
	"dcms/pkg/utils"

	"go.uber.org/zap"
)

// TokenVerifier validates bearer tokens. *jwt.Issuer satisfies it.
type TokenVerifier interface {
	ParseAccess(token string) (*jwt.Claims, error)
	ParseRefresh(token string) (*jwt.Claims, error)
}

// Auth requires a valid access token and stores the caller identity in the request context.
func Auth(tokens TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return bearer(tokens.ParseAccess, "access", logger)
}

// RefreshAuth requires a valid refresh token. The raw token is kept in the
// context so the handler can compare it against the stored hash.
func RefreshAuth(tokens TokenVerifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return bearer(tokens.ParseRefresh, "refresh", logger)
}

func bearer(parse func(string) (*jwt.Claims, error), kind string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := parse(token)
			if err != nil {
				logger.Warn("Rejected "+kind+" token",
					zap.Error(err),
					zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Access Denied")
				return
			}

			userID, err := utils.ParseUUID(claims.Subject)
			if err != nil {
				logger.Warn("Token subject is not a user id", zap.String("sub", claims.Subject))
				utils.ResponseUnauthorized(w, "Access Denied")
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID, claims.Email, claims.Role)
			ctx = utils.SetTokenContext(ctx, token)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// RequireRole allows only callers whose token carries one of roles. Must run after Auth.
func RequireRole(logger *zap.Logger, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := utils.GetRoleFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}

			userID, _ := utils.GetUserIDFromContext(r.Context())
			logger.Warn("Role check failed",
				zap.String("user_id", userID.String()),
				zap.String("role", role),
				zap.String("path", r.URL.Path))
			utils.ResponseForbidden(w, "Insufficient permissions")
		})
	}
}

package handler

import (
	"context"
	"go-auth-api/common"
	"go-auth-api/model"
	"go-auth-api/service"
	"net/http"
	"strings"
)

type contextKey string

// UserKey holds the authenticated *model.User on the request context.
const UserKey contextKey = "user"

// AuthMiddleware verifies bearer access tokens and resolves the token's user
// before protected handlers run.
type AuthMiddleware struct {
	tokens      *service.TokenService
	userService *service.UserService
}

func NewAuthMiddleware(tokens *service.TokenService, userService *service.UserService) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:      tokens,
		userService: userService,
	}
}

// Handler rejects requests without a valid Authorization header, then loads
// the user and role for the token's user id and attaches them to the request
// context. Access tokens are checked for signature and expiry only; they are
// not compared against the stored refresh token.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			common.NewAppError(http.StatusUnauthorized, "Missing Authorization header", nil).Send(w)
			return
		}

		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
			common.NewAppError(http.StatusUnauthorized, "Invalid token format", nil).Send(w)
			return
		}

		claims, err := m.tokens.Verify(headerParts[1])
		if err != nil {
			common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", nil).Send(w)
			return
		}

		user, err := m.userService.GetUserWithRole(claims.UserID)
		if err != nil {
			// Token may outlive its user, e.g. after account deletion.
			common.NewAppError(http.StatusUnauthorized, "User not found", nil).Send(w)
			return
		}

		ctx := context.WithValue(r.Context(), UserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user attached by Handler.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserKey).(*model.User)
	return user, ok
}

// RequireRole authorizes an already-authenticated request against a fixed
// allow-set of role names. It must run after AuthMiddleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				common.NewAppError(http.StatusUnauthorized, "Not authenticated", nil).Send(w)
				return
			}
			if !allowed[user.Role.Name] {
				common.NewAppError(http.StatusForbidden, "Forbidden", nil).Send(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"freight-bid/internal/freight-service/adapters/driver/myhttp/handle"

	"github.com/golang-jwt/jwt"
)

type AuthMiddleware struct {
	accessSecret string
}

func NewAuthMiddleware(accessSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		accessSecret: accessSecret,
	}
}

// Wrap requires a valid bearer token and forwards the caller identity.
func (am *AuthMiddleware) Wrap(next http.Handler) http.Handler {
	return am.wrap("", next)
}

// WrapRole additionally requires the token's role claim to match.
func (am *AuthMiddleware) WrapRole(role string, next http.Handler) http.Handler {
	return am.wrap(role, next)
}

func (am *AuthMiddleware) wrap(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("Empty JWT-Token"))
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			return []byte(am.accessSecret), nil
		})
		if err != nil {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("Failed to parse JWT-Token"))
			return
		}

		if !token.Valid {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("Invalid JWT-Token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("Invalid claims"))
			return
		}

		userId, ok := claims["user_id"].(string)
		if !ok {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("user_id not found in token"))
			return
		}

		tokenRole, ok := claims["role"].(string)
		if !ok {
			handle.JsonError(w, http.StatusUnauthorized, fmt.Errorf("role not found in token"))
			return
		}

		if role != "" && tokenRole != role {
			handle.JsonError(w, http.StatusForbidden, fmt.Errorf("only %s callers may use this endpoint", role))
			return
		}

		r.Header.Set("X-UserId", userId)
		r.Header.Set("X-Role", tokenRole)

		next.ServeHTTP(w, r)
	})
}

package middleware

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"console-backend/internal/authz"
	"console-backend/internal/session"
)

type contextKey string

const UserContextKey contextKey = "user"

// UserClaims is what the daemon's own session JWT carries. Permissions are
// deliberately not embedded: capability checks go through the session store's
// cached identity so a refresh takes effect without re-login.
type UserClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// Auth validates the gateway session JWT and adds the claims to the request
// context.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Printf("❌ AUTH: no authorization header for %s %s", r.Method, r.URL.Path)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			log.Printf("❌ AUTH: malformed authorization header for %s %s", r.Method, r.URL.Path)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := ParseToken(parts[1])
		if err != nil {
			log.Printf("❌ AUTH: invalid token: %v", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ParseToken validates a gateway session JWT, returning its claims.
func ParseToken(tokenString string) (UserClaims, error) {
	jwtSecret := os.Getenv("APP_JWT_SECRET")
	if jwtSecret == "" {
		return UserClaims{}, jwt.ErrTokenUnverifiable
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return UserClaims{}, err
	}
	if !token.Valid {
		return UserClaims{}, jwt.ErrTokenSignatureInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return UserClaims{}, jwt.ErrTokenInvalidClaims
	}

	out := UserClaims{}
	if v, ok := claims["user_id"].(string); ok {
		out.UserID = v
	}
	if v, ok := claims["email"].(string); ok {
		out.Email = v
	}
	if v, ok := claims["role"].(string); ok {
		out.Role = v
	}
	return out, nil
}

// RequireRole checks the authenticated role (must be used after Auth).
// Superadmin always passes.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(UserContextKey).(UserClaims)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !strings.EqualFold(claims.Role, role) && !strings.EqualFold(claims.Role, authz.RoleSuperadmin) {
				log.Printf("❌ Insufficient role: required %s, got %s", role, claims.Role)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireCapability gates a route on the session store's cached identity
// (must be used after Auth).
func RequireCapability(sessions *session.Store, cap authz.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !authz.HasPermission(sessions.Identity(), cap) {
				log.Printf("❌ Missing capability %s for %s %s", cap, r.Method, r.URL.Path)
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserFromContext extracts the gateway claims from the request context.
func GetUserFromContext(r *http.Request) (UserClaims, bool) {
	claims, ok := r.Context().Value(UserContextKey).(UserClaims)
	return claims, ok
}

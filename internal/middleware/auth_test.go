package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func protected(t *testing.T) (http.Handler, *bool) {
	reached := false
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		claims, ok := GetUserFromContext(r)
		if !ok {
			t.Error("claims missing from context")
		}
		if claims.Email == "" {
			t.Error("email claim empty")
		}
		w.WriteHeader(http.StatusOK)
	}))
	return h, &reached
}

func TestAuthAcceptsValidToken(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "test-secret")

	tok := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "u1",
		"email":   "op@example.com",
		"role":    "admin",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	h, reached := protected(t)
	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !*reached {
		t.Fatal("handler never reached")
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "test-secret")

	h, reached := protected(t)
	req := httptest.NewRequest("GET", "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if *reached {
		t.Fatal("handler reached without a token")
	}
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "test-secret")

	tok := signToken(t, "other-secret", jwt.MapClaims{
		"user_id": "u1", "email": "x@y.z", "role": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	h, _ := protected(t)
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "test-secret")

	tok := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "u1", "email": "x@y.z", "role": "admin",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	h, _ := protected(t)
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "test-secret")

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := Auth(RequireRole("admin")(inner))

	cases := []struct {
		role string
		want int
	}{
		{"admin", http.StatusOK},
		{"Admin", http.StatusOK},        // role match is case-insensitive
		{"superadmin", http.StatusOK},   // superadmin always passes
		{"driver", http.StatusForbidden},
	}
	for _, tc := range cases {
		tok := signToken(t, "test-secret", jwt.MapClaims{
			"user_id": "u1", "email": "x@y.z", "role": tc.role,
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tc.want {
			t.Errorf("role %s: status = %d, want %d", tc.role, rec.Code, tc.want)
		}
	}
}

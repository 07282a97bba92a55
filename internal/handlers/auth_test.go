package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"console-backend/internal/api"
	"console-backend/internal/middleware"
	"console-backend/internal/models"
	"console-backend/internal/session"
)

func loginUpstream(t *testing.T, identity models.Identity) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "correct" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"token": "up-tok", "user": identity})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginMintsGatewayToken(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "test-secret")

	identity := models.Identity{ID: "u1", Email: "op@example.com", Role: "admin"}
	srv := loginUpstream(t, identity)
	sessions := session.NewStore(api.NewClient(srv.URL), session.NewMemStore())

	req := httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"email":"op@example.com","password":"correct"}`))
	rec := httptest.NewRecorder()
	Login(sessions)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !resp.OK || resp.Token == "" || resp.User == nil {
		t.Fatalf("response = %+v", resp)
	}

	// The minted token must be a valid gateway JWT carrying the identity.
	claims, err := middleware.ParseToken(resp.Token)
	if err != nil {
		t.Fatalf("minted token invalid: %v", err)
	}
	if claims.Email != "op@example.com" || claims.Role != "admin" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "test-secret")

	srv := loginUpstream(t, models.Identity{})
	sessions := session.NewStore(api.NewClient(srv.URL), session.NewMemStore())

	req := httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"email":"op@example.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	Login(sessions)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if sessions.Token() != "" {
		t.Fatal("failed login left a session behind")
	}
}

func TestLogoutHandlerClearsSession(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "test-secret")

	srv := loginUpstream(t, models.Identity{ID: "u1", Email: "op@example.com", Role: "admin"})
	sessions := session.NewStore(api.NewClient(srv.URL), session.NewMemStore())

	req := httptest.NewRequest("POST", "/api/auth/login",
		strings.NewReader(`{"email":"op@example.com","password":"correct"}`))
	Login(sessions)(httptest.NewRecorder(), req)
	if sessions.Token() == "" {
		t.Fatal("login did not establish a session")
	}

	rec := httptest.NewRecorder()
	Logout(sessions)(rec, httptest.NewRequest("POST", "/api/auth/logout", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if sessions.Token() != "" || sessions.Identity() != nil {
		t.Fatal("logout did not clear the session")
	}
}

func TestUnlockWithPasscode(t *testing.T) {
	srv := loginUpstream(t, models.Identity{})
	sessions := session.NewStore(api.NewClient(srv.URL), session.NewMemStore())
	if err := sessions.SetPasscode("4321"); err != nil {
		t.Fatalf("SetPasscode failed: %v", err)
	}

	rec := httptest.NewRecorder()
	Unlock(sessions)(rec, httptest.NewRequest("POST", "/api/auth/unlock", strings.NewReader(`{"passcode":"4321"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("correct passcode status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	Unlock(sessions)(rec, httptest.NewRequest("POST", "/api/auth/unlock", strings.NewReader(`{"passcode":"0000"}`)))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("wrong passcode status = %d", rec.Code)
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"console-backend/internal/api"
	"console-backend/internal/models"
	"console-backend/internal/session"
	"console-backend/pkg/utils"
)

type LoginResponse struct {
	OK    bool             `json:"ok"`
	Token string           `json:"token,omitempty"`
	User  *models.Identity `json:"user,omitempty"`
	Error string           `json:"error,omitempty"`
}

// Login validates credentials against the upstream API via the session store
// and mints the gateway session JWT the UI uses from then on.
func Login(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds models.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		log.Printf("🔐 Login attempt for: %s", creds.Email)

		jwtSecret := os.Getenv("APP_JWT_SECRET")
		if jwtSecret == "" {
			log.Println("❌ JWT secret not configured")
			utils.RespondJSON(w, http.StatusInternalServerError, LoginResponse{OK: false})
			return
		}

		identity, err := sessions.Login(r.Context(), creds)
		if err != nil {
			var authErr *api.AuthError
			if errors.As(err, &authErr) {
				log.Printf("❌ Login rejected for %s: %v", creds.Email, err)
				utils.RespondJSON(w, http.StatusUnauthorized, LoginResponse{OK: false, Error: "invalid credentials"})
				return
			}
			log.Printf("❌ Login failed for %s: %v", creds.Email, err)
			utils.RespondJSON(w, http.StatusBadGateway, LoginResponse{OK: false, Error: "upstream unavailable"})
			return
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": identity.ID,
			"email":   identity.Email,
			"role":    identity.Role,
			"jti":     uuid.New().String(),
			"iat":     time.Now().Unix(),
			"exp":     time.Now().Add(7 * 24 * time.Hour).Unix(),
		})

		tokenString, err := token.SignedString([]byte(jwtSecret))
		if err != nil {
			log.Println("❌ Failed to create session token")
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create session token")
			return
		}

		log.Printf("✅ Login successful: %s (%s)", identity.Email, identity.Role)
		utils.Success(w, LoginResponse{OK: true, Token: tokenString, User: identity})
	}
}

// Logout clears the session. Always succeeds.
func Logout(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions.Logout(r.Context())
		log.Println("👋 Session cleared")
		utils.Success(w, map[string]bool{"ok": true})
	}
}

// Me refreshes the identity from upstream (best effort) and returns the
// cached copy. Transient refresh failures never surface here.
func Me(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions.RefreshIdentity(r.Context())
		identity := sessions.Identity()
		if identity == nil {
			utils.RespondError(w, http.StatusUnauthorized, "No session")
			return
		}
		utils.Success(w, identity)
	}
}

// UpdateProfile forwards a partial profile update upstream and returns the
// server's representation.
func UpdateProfile(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		identity, err := sessions.UpdateIdentity(r.Context(), fields)
		if err != nil {
			var httpErr *api.HTTPError
			if errors.As(err, &httpErr) {
				log.Printf("❌ Profile update rejected: %v", err)
				utils.RespondError(w, httpErr.StatusCode, httpErr.Message)
				return
			}
			log.Printf("❌ Profile update failed: %v", err)
			utils.RespondError(w, http.StatusBadGateway, "upstream unavailable")
			return
		}

		log.Printf("✅ Profile updated for %s", identity.Email)
		utils.Success(w, identity)
	}
}

type passcodeRequest struct {
	Passcode string `json:"passcode"`
}

// Lock sets (or clears, with an empty passcode) the console-lock passcode.
func Lock(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req passcodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Passcode == "" {
			if err := sessions.ClearPasscode(); err != nil {
				utils.RespondError(w, http.StatusInternalServerError, "Failed to clear passcode")
				return
			}
			utils.Success(w, map[string]bool{"ok": true, "locked": false})
			return
		}

		if err := sessions.SetPasscode(req.Passcode); err != nil {
			utils.RespondError(w, http.StatusInternalServerError, "Failed to set passcode")
			return
		}
		log.Println("🔒 Console passcode set")
		utils.Success(w, map[string]bool{"ok": true, "locked": true})
	}
}

// Unlock verifies the console-lock passcode.
func Unlock(sessions *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req passcodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if !sessions.VerifyPasscode(req.Passcode) {
			utils.RespondError(w, http.StatusForbidden, "Wrong passcode")
			return
		}
		utils.Success(w, map[string]bool{"ok": true})
	}
}

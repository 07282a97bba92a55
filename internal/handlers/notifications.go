package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"console-backend/internal/database"
	"console-backend/internal/notify"
	"console-backend/internal/services"
	"console-backend/pkg/utils"
)

// GetNotifications returns the live queue in insertion order.
func GetNotifications(queue *notify.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.Success(w, map[string]interface{}{
			"items": queue.Items(),
		})
	}
}

type pushRequest struct {
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	DurationMs *int   `json:"duration_ms,omitempty"`
}

var validKinds = map[notify.Kind]bool{
	notify.KindInfo:    true,
	notify.KindSuccess: true,
	notify.KindError:   true,
	notify.KindWarning: true,
}

// PushNotification appends a notification. Omitting duration_ms uses the
// default TTL; zero or negative means sticky.
func PushNotification(queue *notify.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pushRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		kind := notify.Kind(req.Kind)
		if !validKinds[kind] {
			utils.RespondError(w, http.StatusBadRequest, "Kind must be info, success, error or warning")
			return
		}
		if req.Message == "" {
			utils.RespondError(w, http.StatusBadRequest, "Message is required")
			return
		}

		var id int64
		if req.DurationMs == nil {
			id = queue.Push(kind, req.Message)
		} else {
			id = queue.PushFor(kind, req.Message, time.Duration(*req.DurationMs)*time.Millisecond)
		}

		utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{"id": id})
	}
}

// DismissNotification removes an entry; dismissing an unknown id is a no-op.
func DismissNotification(queue *notify.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid notification id")
			return
		}
		queue.Remove(id)
		utils.Success(w, map[string]bool{"ok": true})
	}
}

type broadcastRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Broadcast pushes a sticky notification locally and, when the push relay is
// configured, fans it out to registered devices via FCM.
func Broadcast(queue *notify.Queue, db *sqlx.DB, push *services.PushService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req broadcastRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.Message == "" {
			utils.RespondError(w, http.StatusBadRequest, "Message is required")
			return
		}

		id := queue.PushFor(notify.KindInfo, req.Message, 0)

		delivered := 0
		if push != nil && db != nil {
			tokens, err := database.PushDeviceTokens(db)
			if err != nil {
				log.Printf("⚠️  Failed to load push devices: %v", err)
			} else if err := push.SendBroadcast(r.Context(), tokens, req.Title, req.Message, map[string]string{
				"type": "console_broadcast",
			}); err != nil {
				log.Printf("⚠️  Push relay failed: %v", err)
			} else {
				delivered = len(tokens)
			}
		}

		utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
			"id":        id,
			"delivered": delivered,
		})
	}
}

type deviceRequest struct {
	Token string `json:"token"`
}

// RegisterDevice stores an FCM device token for broadcast relay.
func RegisterDevice(db *sqlx.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			utils.RespondError(w, http.StatusServiceUnavailable, "Device registry requires a database")
			return
		}

		var req deviceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
			utils.RespondError(w, http.StatusBadRequest, "Token is required")
			return
		}

		if err := database.SavePushDevice(db, req.Token); err != nil {
			log.Printf("❌ Failed to save push device: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, "Failed to register device")
			return
		}
		utils.RespondJSON(w, http.StatusCreated, map[string]bool{"ok": true})
	}
}

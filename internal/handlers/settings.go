package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"console-backend/internal/api"
	"console-backend/internal/models"
	"console-backend/internal/notify"
	"console-backend/internal/settings"
	"console-backend/pkg/utils"
)

// GetSettings serves the cached site configuration, refreshing first when
// nothing is cached yet.
func GetSettings(cache *settings.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := cache.Get()
		if s == nil {
			cache.Refresh(r.Context())
			s = cache.Get()
		}
		if s == nil {
			utils.RespondError(w, http.StatusNotFound, "Settings unavailable")
			return
		}
		utils.Success(w, s)
	}
}

// UpdateSettings writes new site configuration upstream and pushes the
// outcome into the notification queue.
func UpdateSettings(cache *settings.Cache, queue *notify.Queue) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var s models.SiteSettings
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		out, err := cache.Update(r.Context(), s)
		if err != nil {
			queue.Push(notify.KindError, "Failed to save site settings")
			var httpErr *api.HTTPError
			if errors.As(err, &httpErr) {
				log.Printf("❌ Settings update rejected: %v", err)
				utils.RespondError(w, httpErr.StatusCode, httpErr.Message)
				return
			}
			log.Printf("❌ Settings update failed: %v", err)
			utils.RespondError(w, http.StatusBadGateway, "upstream unavailable")
			return
		}

		queue.Push(notify.KindSuccess, "Site settings saved")
		log.Println("✅ Site settings updated")
		utils.Success(w, out)
	}
}

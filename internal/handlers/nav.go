package handlers

import (
	"net/http"

	"console-backend/internal/layout"
	"console-backend/pkg/utils"
)

// GetNav returns the sidebar entries visible to the current identity.
func GetNav(shell *layout.Shell) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		utils.Success(w, map[string]interface{}{
			"items": shell.VisibleNav(),
		})
	}
}

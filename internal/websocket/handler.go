package websocket

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"console-backend/internal/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The daemon serves a local UI; cross-origin upgrades are fine here.
		return true
	},
}

// HandleWebSocket upgrades an HTTP connection to the notification stream.
// Browsers cannot set headers on websocket upgrades, so the gateway JWT
// arrives as a query parameter.
func HandleWebSocket(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get("token")

		var claims middleware.UserClaims
		if tokenString != "" {
			var err error
			claims, err = middleware.ParseToken(tokenString)
			if err != nil {
				log.Printf("❌ [WS] Invalid token in query parameter: %v", err)
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		} else {
			// Fallback: claims set by the Auth middleware.
			var ok bool
			claims, ok = middleware.GetUserFromContext(r)
			if !ok {
				log.Println("❌ [WS] No user in context for websocket connection")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ [WS] Upgrade failed: %v", err)
			return
		}

		client := NewClient(uuid.New().String(), claims.Email, conn, hub)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()

		log.Printf("✅ [WS] Connection established for %s", claims.Email)
	}
}

package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"console-backend/internal/api"
	"console-backend/internal/authz"
	"console-backend/internal/database"
	"console-backend/internal/handlers"
	"console-backend/internal/layout"
	"console-backend/internal/middleware"
	"console-backend/internal/notify"
	"console-backend/internal/services"
	"console-backend/internal/session"
	"console-backend/internal/settings"
	"console-backend/internal/websocket"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 CONSOLE DAEMON STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using environment variables from system")
	} else {
		log.Println("✅ .env file loaded")
	}

	// Upstream API
	apiURL := os.Getenv("CONSOLE_API_URL")
	if apiURL == "" {
		log.Fatal("❌ FATAL: CONSOLE_API_URL environment variable is required")
	}
	log.Printf("✅ Upstream API: %s", apiURL)

	if os.Getenv("APP_JWT_SECRET") == "" {
		log.Fatal("❌ FATAL: APP_JWT_SECRET environment variable is required")
	}

	client := api.NewClient(apiURL)

	// Session persistence: Postgres when DATABASE_URL is set, a local state
	// file otherwise.
	var persist session.Persister
	var db *sqlx.DB
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		var err error
		db, err = database.Connect(dbURL)
		if err != nil {
			log.Fatalf("❌ FATAL: Database connection failed: %v", err)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			log.Fatalf("❌ FATAL: Database migrations failed: %v", err)
		}
		persist = database.NewPGStore(db)
		log.Println("✅ Session state: Postgres (console_kv)")
	} else {
		stateFile := os.Getenv("CONSOLE_STATE_FILE")
		if stateFile == "" {
			stateFile = "./console-state.json"
		}
		persist = session.NewFileStore(stateFile)
		log.Printf("✅ Session state: %s", stateFile)
	}

	// Core stores
	sessions := session.NewStore(client, persist)
	if sessions.Token() != "" {
		log.Println("✅ Persisted session found, resuming")
	} else {
		log.Println("ℹ️  No persisted session, operator must log in")
	}

	settingsCache := settings.NewCache(client, sessions)
	queue := notify.NewQueue()
	shell := layout.NewShell(sessions, layout.DefaultNav(), queue)

	// Push relay (optional). Supports both a credentials file and
	// base64-encoded credentials for cloud deployments.
	var push *services.PushService
	if credsBase64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64"); credsBase64 != "" {
		p, err := services.NewPushServiceFromBase64(credsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize push relay from base64: %v (push disabled)", err)
		} else {
			push = p
			log.Println("✅ Push relay initialized from base64 credentials")
		}
	} else if credsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE"); credsFile != "" {
		p, err := services.NewPushService(credsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize push relay from file: %v (push disabled)", err)
		} else {
			push = p
			log.Println("✅ Push relay initialized from file")
		}
	} else {
		log.Println("ℹ️  No Firebase credentials configured, push relay disabled")
	}

	// Notification stream
	wsHub := websocket.NewHub(queue)
	go wsHub.Run()
	log.Println("✅ Notification stream hub started")

	// Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Login (no auth required)
	r.Post("/api/auth/login", handlers.Login(sessions))

	// Notification stream (gateway JWT via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub))

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)

			// Session
			r.Post("/auth/logout", handlers.Logout(sessions))
			r.Get("/auth/me", handlers.Me(sessions))
			r.Patch("/auth/profile", handlers.UpdateProfile(sessions))
			r.Post("/auth/lock", handlers.Lock(sessions))
			r.Post("/auth/unlock", handlers.Unlock(sessions))

			// Layout chrome
			r.Get("/layout/nav", handlers.GetNav(shell))
			r.Get("/settings", handlers.GetSettings(settingsCache))

			// List screens
			r.Get("/resources/{resource}", handlers.ListResource(sessions, client))

			// Notifications
			r.Get("/notifications", handlers.GetNotifications(queue))
			r.Post("/notifications", handlers.PushNotification(queue))
			r.Delete("/notifications/{id}", handlers.DismissNotification(queue))
			r.Post("/notifications/devices", handlers.RegisterDevice(db))

			// Guarded mutations
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(sessions, authz.CapSettingsManage))
				r.Put("/settings", handlers.UpdateSettings(settingsCache, queue))
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireCapability(sessions, authz.CapMessagesSend))
				r.Post("/notifications/broadcast", handlers.Broadcast(queue, db, push))
			})
		})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		log.Printf("⚠️  PORT not set, using default: %s", port)
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Console daemon listening on http://localhost:%s", port)
	log.Println("═══════════════════════════════════════════════════════════════════")

	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatalf("❌ FATAL: Server failed to start: %v", err)
	}
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tessera-labs/design-notify/internal/engine"
	"github.com/tessera-labs/design-notify/internal/store"
	ws "github.com/tessera-labs/design-notify/internal/websocket"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Pipeline      *engine.Pipeline
	EventLog      *store.EventLog
	Subscriptions *store.SubscriptionStore
	Notifications *store.NotificationStore
	Hub           *ws.Hub
	WebhookSecret string
	Logger        *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// CORS for the dashboard client
	r.Use(corsMiddleware)

	// Handlers
	webhookHandler := NewWebhookHandler(deps.Pipeline, deps.WebhookSecret, deps.Logger)
	eventHandler := NewEventHandler(deps.Pipeline, deps.EventLog, deps.Logger)
	subHandler := NewSubscriptionHandler(deps.Subscriptions)
	notifHandler := NewNotificationHandler(deps.Pipeline, deps.Notifications)

	// Socket channel endpoint
	r.Get("/ws", deps.Hub.HandleWebSocket)

	r.Get("/health", HealthHandler())
	r.Handle("/metrics", promhttp.Handler())

	// Inbound change events
	r.Post("/webhooks/design-tool", webhookHandler.Receive)
	r.Route("/events", func(r chi.Router) {
		r.Post("/", eventHandler.Create)
		r.Get("/", eventHandler.List)
	})

	// Subscription management
	r.Post("/subscribe", subHandler.Create)
	r.Route("/subscriptions", func(r chi.Router) {
		r.Get("/{ownerId}", subHandler.ListByOwner)
		r.Patch("/{id}", subHandler.Update)
		r.Delete("/{id}", subHandler.Delete)
	})

	// Notification query and delivery trigger
	r.Route("/notifications", func(r chi.Router) {
		r.Post("/send", notifHandler.Send)
		r.Post("/mark-read", notifHandler.MarkRead)
		r.Get("/{ownerId}", notifHandler.ListByOwner)
	})

	return r
}

// corsMiddleware adds CORS headers for dashboard development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Signature")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

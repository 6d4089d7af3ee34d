package httpapi

import (
	"net/http"

	"agriai-be/internal/logger"
	"agriai-be/internal/middleware"
	"agriai-be/internal/realtime"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter assembles the full HTTP surface: REST order endpoints under
// /api/orders and the realtime gateway at /ws.
func NewRouter(h *OrdersHandler, hub *realtime.Hub, jwtSecret []byte) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.AuthMiddleware(jwtSecret))
	r.Use(middleware.RateLimitMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		h.Register(r)
	})

	r.With(middleware.RequireAuth).Get("/ws", realtime.ServeWS(hub))

	return r
}

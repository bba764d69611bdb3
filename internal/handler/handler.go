package handler

import (
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"fsanano/order-tracker/internal/broadcast"
)

type Handler struct {
	router *chi.Mux
}

func New(orderHandler *OrderHandler, hub *broadcast.Hub, allowedOrigins []string) *Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	h := &Handler{
		router: router,
	}

	h.registerRoutes(orderHandler, hub)
	return h
}

func (h *Handler) registerRoutes(oh *OrderHandler, hub *broadcast.Hub) {
	// The websocket endpoint stays outside the compressed group: an
	// upgrade needs the raw connection.
	h.router.Get("/ws", hub.ServeWS)
	h.router.Get("/health", h.HealthCheck)

	compressor := middleware.NewCompressor(5, "application/json")
	compressor.SetEncoder("br", func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})

	h.router.Group(func(r chi.Router) {
		r.Use(compressor.Handler)
		r.Route("/api", func(r chi.Router) {
			r.Get("/users", oh.GetUsers)
			r.Get("/items", oh.GetItems)
			r.Get("/orders", oh.GetAllOrders)
			r.Get("/orders/{userID}", oh.GetOrdersForUser)
			r.Post("/order", oh.SubmitOrder)
			r.Delete("/order/{orderID}", oh.DeleteOrder)
			r.Delete("/orders", oh.DeleteAllOrders)
		})
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

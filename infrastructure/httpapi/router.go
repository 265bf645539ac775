package httpapi

import (
	"chat-live/contract"
	"chat-live/services"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type listenersResponse struct {
	Active int `json:"active"`
}

// NewRouter mounts the WebSocket live endpoint next to the operational ones
// and the internal producer API under /internal.
func NewRouter(log *slog.Logger, live http.Handler, chat services.IChatService,
	registry contract.IRegistry, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/live", live.ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/debug/listeners", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(listenersResponse{Active: registry.Count()}); err != nil {
			log.Error("encode listeners failed", "error", err)
		}
	})
	r.Route("/internal", (&chatHandler{log: log, service: chat, validate: validator.New()}).routes)
	return r
}

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func SetupRoutes(c Controller, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	h := &handlers{c: c, log: log.Named("httpapi")}

	r.Get("/healthz", Healthz)
	r.Get("/state", h.State)
	r.Post("/roster/refresh", h.RefreshRoster)
	r.Post("/invitations", h.Invite)
	r.Route("/invitation", func(r chi.Router) {
		r.Post("/accept", h.Accept)
		r.Post("/reject", h.Reject)
		r.Post("/dismiss", h.Dismiss)
	})
	r.Post("/moves", h.Move)
	r.Post("/back", h.Back)
	return r
}

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	councilHandler "council-chamber/internal/handler/council"
	healthHandler "council-chamber/internal/handler/health"
	middlewarePkg "council-chamber/internal/middleware"
	councilService "council-chamber/internal/service/council"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(councilSvc *councilService.Service, gatewayBaseURL string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	healthHandler.New(gatewayBaseURL).RegisterRoutes(r)

	r.Route("/api", func(api chi.Router) {
		councilHandler.New(councilSvc).RegisterRoutes(api)
	})

	return r
}

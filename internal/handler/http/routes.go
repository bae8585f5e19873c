package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID, h.withLogging)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}
	router.Use(middleware.Compress(5, "application/json"))

	router.Route("/api", func(r chi.Router) {
		// every route sees the viewer when a valid session is presented
		r.Use(h.identify)

		r.Post("/login", h.login)
		r.Post("/logout", h.logout)
		r.Get("/status", h.status)
		r.Get("/version", h.getServerVersion)

		r.Get("/persons", h.listPersons)
		r.Get("/persons/{id}", h.getPerson)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)
			r.Patch("/persons/{id}", h.updatePerson)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.requireAdmin)
			r.Post("/persons", h.createPerson)
			r.Delete("/persons/{id}", h.deletePerson)
			r.Patch("/change-password/{id}", h.changePassword)
			r.Get("/export", h.export)
			r.Post("/import", h.importData)
		})
	})

	router.NotFound(h.notFound)
	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}

package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, opts Options) {
	ws := NewWSHandler(opts.Service, logger)

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Quiz Battle API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, opts.Checks))
	r.Get("/ws", ws.ServeWS)
	r.Get("/images/{name}", handleImage(opts.ImagesDir, opts.Placeholder))

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalogs/{id}", handleGetCatalog(opts.Service))
		r.Post("/sessions", handleCreateSession(opts.Service, opts.DefaultCatalog))
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", handleGetSession(opts.Service))
			r.Delete("/", handleDeleteSession(opts.Service))
			r.Post("/actions", handleAction(opts.Service))
			r.Get("/qr", handleSessionQR(opts.Service, opts.PublicURL))
		})
	})
}

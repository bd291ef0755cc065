package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"photostudio/internal/http/handlers"
	"photostudio/internal/infra"
	"photostudio/internal/middleware"
)

func NewRouter(app *handlers.App, logger infra.Logger, allowedOrigins []string) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(logger))
	if len(allowedOrigins) > 0 {
		r.Use(middleware.CORS(allowedOrigins))
	}

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/styles", app.ListStyles)
	r.Get("/v1/session", app.Session)
	r.Get("/v1/suggestions", app.Suggestions)

	r.Route("/v1/sources", func(r chi.Router) {
		r.Post("/", app.UploadSource)
		r.Post("/{index}/select", app.SelectSource)
	})

	r.Post("/v1/generations", app.StartGeneration)

	r.Route("/v1/results", func(r chi.Router) {
		r.Get("/archive", app.ArchiveResults)
		r.Post("/{id}/improve", app.ImproveResult)
		r.Post("/{id}/select", app.SelectResult)
		r.Get("/{id}/image", app.ResultImage)
		r.Post("/{id}/export", app.ExportResult)
	})

	return r
}

// Package httpapi exposes the form service over HTTP: schema fetch and
// save for the builder, submissions for fillers, and the country option
// endpoint for country fields.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/components/countries"
	"github.com/goliatone/go-formflow/pkg/store"
)

// Config carries router construction settings.
type Config struct {
	AllowedOrigins []string
}

// New builds the API router. The store backs schema fetch/save; the sink
// receives accepted submissions.
func New(st store.Store, sink SubmissionSink, logger *zap.Logger, cfg Config) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(requestLogger(logger))

	api := &api{store: st, sink: sink, logger: logger}

	r.Get("/healthz", api.health)
	r.Route("/api/forms", func(r chi.Router) {
		r.Get("/", api.listForms)
		r.Get("/{formID}", api.getForm)
		r.Put("/{formID}", api.putForm)
		r.Post("/{formID}/submissions", api.submit)
	})

	if _, err := countries.RegisterRoutes(r, ""); err != nil {
		logger.Warn("country routes not mounted", zap.Error(err))
	}

	return r
}

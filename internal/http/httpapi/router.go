package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"interiorai/internal/http/handlers"
	"interiorai/internal/middleware"
)

// Options tunes the cross-cutting middleware.
type Options struct {
	Logger      zerolog.Logger
	CORSOrigins []string
	// RateLimit caps generation calls per client per minute. Zero disables it.
	RateLimit int
	// SharedLimiter, when set, counts RateLimit in redis across replicas.
	SharedLimiter middleware.Allower
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.Logger(opts.Logger),
		chimw.Recoverer,
		middleware.CORS(opts.CORSOrigins),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)
	r.Get("/v1/styles", app.Styles)

	r.Group(func(r chi.Router) {
		switch {
		case opts.RateLimit <= 0:
		case opts.SharedLimiter != nil:
			r.Use(middleware.SharedRateLimit(opts.SharedLimiter, opts.RateLimit, opts.Logger))
		default:
			r.Use(middleware.RateLimit(opts.RateLimit, time.Minute))
		}
		r.Post("/generate-image", app.GenerateImage)
		r.Post("/get-style-info", app.StyleInfo)
	})

	return r
}

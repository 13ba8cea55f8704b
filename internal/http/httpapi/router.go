package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"colorizer/internal/http/handlers"
	"colorizer/internal/infra"
	"colorizer/internal/metrics"
	"colorizer/internal/middleware"
)

// NewRouter assembles the HTTP surface: the session workflow API, static
// serving of previews and results, and the operational endpoints.
func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger, lookup middleware.CountryLookup) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP, chimiddleware.Recoverer)
	r.Use(middleware.Logger(logger))
	r.Use(metrics.Middleware)
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.I18N(cfg.DefaultLocale, lookup))
	r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))

	r.Get("/v1/healthz", app.Health)
	r.Method(stdhttp.MethodGet, "/metrics", promhttp.Handler())
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Post("/", app.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", app.GetSession)
			r.Delete("/", app.DeleteSession)
			r.Post("/image", app.UploadImage)
			r.Put("/prompt", app.SetPrompt)
			r.Post("/colorize", app.Colorize)
		})
	})

	r.Get("/v1/history", app.ListHistory)

	fileServer := stdhttp.StripPrefix("/static/", stdhttp.FileServer(stdhttp.Dir(cfg.StoragePath)))
	r.Handle("/static/*", fileServer)

	return r
}

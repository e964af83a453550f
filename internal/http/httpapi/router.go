package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/radoslav1992/creative-studio/internal/http/handlers"
	"github.com/radoslav1992/creative-studio/internal/middleware"
)

type RouterOptions struct {
	App            *handlers.App
	Logger         zerolog.Logger
	JWTSecret      string
	AllowedOrigins []string
	OutputsDir     string
	PublicPrefix   string // prefix outputs are served under, e.g. "/outputs"
}

func NewRouter(opts RouterOptions) stdhttp.Handler {
	app := opts.App
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/models", app.ModelsList)

	// Materialized outputs, addressable by the stored references.
	prefix := opts.PublicPrefix
	if prefix == "" {
		prefix = "/outputs"
	}
	fs := stdhttp.StripPrefix(prefix+"/", stdhttp.FileServer(stdhttp.Dir(opts.OutputsDir)))
	r.Get(prefix+"/*", fs.ServeHTTP)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(opts.JWTSecret))

		r.Route("/v1/generations", func(r chi.Router) {
			r.Get("/", app.GenerationsList)
			r.Post("/", app.GenerationsCreate)
			r.Get("/{id}", app.GenerationsGet)
			r.Delete("/{id}", app.GenerationsDelete)
			r.Post("/{id}/refresh", app.GenerationsRefresh)
			r.Get("/{id}/download", app.GenerationsDownload)
		})

		r.Post("/v1/generate", app.Generate)
		r.Get("/v1/status/{id}", app.Status)
		r.Post("/v1/enhance-prompt", app.EnhancePrompt)

		r.Route("/v1/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/models", app.AdminModelsList)
			r.Post("/models", app.AdminModelsAdd)
			r.Delete("/models", app.AdminModelsDelete)
			r.Patch("/models/active", app.AdminModelsSetActive)
			r.Post("/models/sync", app.AdminModelSync)
			r.Post("/models/fetch-schema", app.AdminFetchSchema)
			r.Post("/sync-schemas", app.AdminSyncSchemas)
		})
	})

	return r
}

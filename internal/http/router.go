package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/MrJamesThe3rd/centsperpoint/internal/http/calculator"
	"github.com/MrJamesThe3rd/centsperpoint/internal/http/importexport"
	"github.com/MrJamesThe3rd/centsperpoint/internal/http/redemption"
	"github.com/MrJamesThe3rd/centsperpoint/internal/http/trip"
)

type Options struct {
	AllowedOrigins []string
	// RateLimit applies per client IP to every /api route.
	RateLimit limiter.Rate
	// UploadDir is served read-only under /uploads/.
	UploadDir string
}

func New(
	opts Options,
	redemptionsV1 *redemption.Handler,
	tripsV1 *trip.Handler,
	importExportV1 *importexport.Handler,
	calculatorV1 *calculator.Handler,
	health http.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	rateLimit := stdlib.NewMiddleware(limiter.New(memory.NewStore(), opts.RateLimit))

	api := func(r chi.Router) {
		r.Use(rateLimit.Handler)

		r.Route("/redemptions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			redemptionsV1.Routes(r)
		})

		r.Route("/trips", tripsV1.Routes)

		r.Route("/import-export", importExportV1.Routes)

		r.Route("/calculator", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			calculatorV1.Routes(r)
		})
	}

	router.Route("/api/v1", api)
	// unversioned paths kept for existing clients
	router.Route("/api", api)

	router.Method(http.MethodGet, "/health", health)
	router.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir))))

	return router
}

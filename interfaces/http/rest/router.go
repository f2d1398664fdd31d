package rest

import (
	"net/http"

	"semnet/application/services"
	"semnet/infrastructure/observability"
	"semnet/interfaces/http/rest/handlers"
	"semnet/interfaces/http/rest/middleware"
	pkgerrors "semnet/pkg/errors"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Options controls the optional parts of the router
type Options struct {
	EnableCORS  bool
	CORSOrigins []string
	// Debug adds error causes and stack traces to error responses
	Debug bool
}

// Router creates and configures the HTTP router
type Router struct {
	service *services.GraphService
	metrics *observability.Collector
	options Options
	logger  *zap.Logger
}

// NewRouter creates a new router instance. metrics may be nil.
func NewRouter(
	service *services.GraphService,
	metrics *observability.Collector,
	options Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		service: service,
		metrics: metrics,
		options: options,
		logger:  logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()
	errorHandler := pkgerrors.NewErrorHandler(rt.logger, rt.options.Debug)

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(errorHandler.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.options.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.options.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorHandler.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})

	router.Get("/health", rt.healthCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	graphHandler := handlers.NewGraphHandler(rt.service, errorHandler, rt.logger)
	inferenceHandler := handlers.NewInferenceHandler(rt.service, errorHandler, rt.logger)
	presetHandler := handlers.NewPresetHandler(rt.service, errorHandler, rt.logger)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/graph", graphHandler.GetGraph)

		r.Route("/nodes", func(r chi.Router) {
			r.Post("/", graphHandler.AddNode)
			r.Post("/remove", graphHandler.RemoveNode)
		})

		r.Route("/relations", func(r chi.Router) {
			r.Post("/", graphHandler.AddRelation)
			r.Post("/remove", graphHandler.RemoveRelation)
		})

		r.Route("/inference", func(r chi.Router) {
			r.Post("/", inferenceHandler.Run)
			r.Get("/potential", inferenceHandler.Potential)
		})

		r.Route("/presets", func(r chi.Router) {
			r.Get("/", presetHandler.ListPresets)
			r.Post("/import", presetHandler.ImportPreset)
			r.Post("/export", presetHandler.ExportPreset)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

package rest

import (
	"context"
	"net/http"
	"time"

	"shop-backend/application/commands/bus"
	"shop-backend/application/imports"
	querybus "shop-backend/application/queries/bus"
	"shop-backend/interfaces/http/rest/handlers"
	"shop-backend/interfaces/http/rest/middleware"
	"shop-backend/pkg/auth"
	"shop-backend/pkg/errors"
	"shop-backend/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// ReadinessCheck reports whether downstream dependencies are reachable
type ReadinessCheck func(ctx context.Context) error

// RouterConfig toggles optional router behaviour
type RouterConfig struct {
	EnableCORS bool
	// RequireAuth guards /import with Basic auth. Behind API Gateway the
	// token authorizer does this instead.
	RequireAuth bool
	Debug       bool
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	imports    *imports.Service
	checker    *auth.BasicChecker
	limiter    *auth.FailureLimiter
	metrics    *observability.Metrics
	ready      ReadinessCheck
	cfg        RouterConfig
	logger     *zap.Logger
}

// NewRouter creates a new router instance. limiter, metrics and ready may be nil.
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	importService *imports.Service,
	checker *auth.BasicChecker,
	limiter *auth.FailureLimiter,
	metrics *observability.Metrics,
	ready ReadinessCheck,
	cfg RouterConfig,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		imports:    importService,
		checker:    checker,
		limiter:    limiter,
		metrics:    metrics,
		ready:      ready,
		cfg:        cfg,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()
	errorHandler := errors.NewErrorHandler(rt.logger, rt.cfg.Debug)

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(errorHandler.Middleware)
	router.Use(middleware.Logger(rt.logger))

	if rt.cfg.EnableCORS {
		router.Use(middleware.CORSHeaders)
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
			MaxAge:         300,
		}))
	}

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	productHandler := handlers.NewProductHandler(rt.commandBus, rt.queryBus, errorHandler, rt.logger)
	router.Route("/products", func(r chi.Router) {
		r.Get("/", productHandler.ListProducts)
		r.Post("/", productHandler.CreateProduct)
		r.Get("/{productId}", productHandler.GetProduct)
	})

	importHandler := handlers.NewImportHandler(rt.imports, errorHandler, rt.logger)
	router.Group(func(r chi.Router) {
		if rt.cfg.RequireAuth {
			r.Use(middleware.BasicAuth(rt.checker, rt.limiter, rt.logger))
		}
		r.Get("/import", importHandler.ImportProductsFile)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if rt.ready != nil {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := rt.ready(ctx); err != nil {
			rt.logger.Warn("Readiness check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}

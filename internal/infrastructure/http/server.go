package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/clothify/storefront-api/internal/infrastructure/config"
	"github.com/clothify/storefront-api/internal/infrastructure/http/handler"
	"github.com/clothify/storefront-api/internal/infrastructure/http/middleware"
	"github.com/clothify/storefront-api/internal/infrastructure/telemetry"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

// Server represents the HTTP server
type Server struct {
	router    *chi.Mux
	config    *config.ServerConfig
	catalog   *handler.CatalogHandler
	cart      *handler.CartHandler
	logger    *slog.Logger
	telemetry *telemetry.Telemetry
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.ServerConfig,
	catalog *handler.CatalogHandler,
	cart *handler.CartHandler,
	logger *slog.Logger,
	telem *telemetry.Telemetry,
) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		config:    cfg,
		catalog:   catalog,
		cart:      cart,
		logger:    logger,
		telemetry: telem,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures the middleware chain
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.StructuredLogger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.RequestID)

	// Add HTTP route to context so all logs include it automatically
	s.router.Use(middleware.HTTPRouteContext())

	meter := s.telemetry.MeterProvider.Meter("storefront-api")
	s.router.Use(middleware.ActiveRequestsMiddleware(meter))
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Route("/products", func(r chi.Router) {
		r.Get("/", s.catalog.ListProducts)
		r.Get("/featured", s.catalog.GetFeatured)
		r.Get("/{id}", s.catalog.GetProduct)
		r.Get("/{id}/related", s.catalog.GetRelated)
	})

	s.router.Route("/genders/{gender}", func(r chi.Router) {
		r.Get("/categories", s.catalog.ListCategories)
		r.Get("/categories/{category}/representative", s.catalog.GetCategoryRepresentative)
	})

	s.router.Route("/cart", func(r chi.Router) {
		r.Get("/", s.cart.GetCart)
		r.Delete("/", s.cart.ClearCart)
		r.Post("/items", s.cart.AddItem)
		r.Patch("/items/{lineID}", s.cart.ChangeQuantity)
		r.Delete("/items/{lineID}", s.cart.RemoveItem)
		r.Get("/quote", s.cart.GetQuote)
		r.Post("/checkout", s.cart.Checkout)
	})

	// Health check endpoint
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus metrics endpoint - exposes OpenTelemetry metrics
	s.router.Get("/metrics", promhttp.Handler().ServeHTTP)
}

// Router exposes the configured mux, mainly for handler tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.Host, s.config.Port)
	s.logger.Info("Starting HTTP server",
		slog.String("address", addr),
	)

	// Wrap the whole router with otelhttp for HTTP metrics and tracing.
	handler := otelhttp.NewHandler(s.router, "http-server",
		otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
			return fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		}),
		otelhttp.WithMeterProvider(s.telemetry.MeterProvider),
		otelhttp.WithMetricAttributesFn(func(r *http.Request) []attribute.KeyValue {
			routePattern := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					routePattern = pattern
				}
			}
			return []attribute.KeyValue{
				attribute.String("http.route", routePattern),
			}
		}),
	)

	return http.ListenAndServe(addr, handler)
}

/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:   Unique ID per request for tracing
  2. CORS:        Cross-origin requests for the configured origins
  3. RequestLog:  httplog structured request logging (ECS schema)
  4. CleanPath:   Collapses double slashes before routing
  5. Recoverer:   Panic recovery (500 instead of crash)
  6. Heartbeat:   GET /health for load balancers, no database access

ROUTE GROUPS:
  /api/salary/*       Forward, reverse and payslip calculations
  /api/insurance/*    Insurance only
  /api/tax/*          Withholding tax only
  /api/simulation/*   Salary split comparison
  /api/rates/*        Statutory rate tables
  /api/holidays/*     Holiday calendar
  /api/records/*      Saved calculations
  /api/health         Database ping

SECURITY NOTE:
  No authentication middleware. All endpoints are public; deploy behind a
  gateway that authenticates.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"io"
	"log/slog"
	"slices"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	AllowedOrigins []string
	Logger         *slog.Logger
	LogLevel       slog.Level
}

// NewLogger builds the JSON logger used for request and application logs,
// with attribute names in the ECS schema.
func NewLogger(w io.Writer, level slog.Level, env string) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-engine"),
		slog.String("env", env),
	)
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = h.Logger
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           300,
	}))
	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))
	r.Use(middleware.CleanPath)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/salary", func(r chi.Router) {
			r.Post("/calculate", h.CalculateSalary)
			r.Post("/reverse", h.ReverseSalary)
			r.Post("/payslip", h.Payslip)
		})

		r.Post("/insurance/calculate", h.CalculateInsurance)
		r.Post("/tax/calculate", h.CalculateTax)
		r.Post("/simulation/compare", h.CompareSimulation)

		r.Route("/rates", func(r chi.Router) {
			r.Get("/", h.ListRates)
			r.Get("/{year}", h.GetRates)
		})

		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		r.Route("/records", func(r chi.Router) {
			r.Get("/", h.ListRecords)
			r.Get("/{id}", h.GetRecord)
			r.Delete("/{id}", h.DeleteRecord)
		})
	})

	return r
}

// Package server exposes the exam generator over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/p-n-ai/exam-gen/internal/catalog"
	"github.com/p-n-ai/exam-gen/internal/exam"
	"github.com/p-n-ai/exam-gen/internal/usage"
)

const maxBodyBytes = 1 << 20

// Generator produces exams and reports usage. *exam.Service implements it.
type Generator interface {
	Generate(ctx context.Context, raw exam.RawRequest) (exam.ExamResponse, error)
	Usage(ctx context.Context) (usage.Totals, error)
}

// TopicLister lists suggested topics. *catalog.Loader implements it.
type TopicLister interface {
	ForGrade(grade int) []catalog.Topic
}

// HealthChecker is a dependency probed by the readiness endpoint.
type HealthChecker interface {
	Name() string
	HealthCheck(ctx context.Context) error
}

type checkFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (c checkFunc) Name() string                          { return c.name }
func (c checkFunc) HealthCheck(ctx context.Context) error { return c.fn(ctx) }

// NewCheck wraps a probe function as a named HealthChecker.
func NewCheck(name string, fn func(ctx context.Context) error) HealthChecker {
	return checkFunc{name: name, fn: fn}
}

// Config holds dependencies for the HTTP layer.
type Config struct {
	Generator     Generator
	Topics        TopicLister
	Checks        []HealthChecker
	AllowedOrigin string
	CheckTimeout  time.Duration // per readiness probe, default 3s
}

type handler struct {
	gen          Generator
	topics       TopicLister
	checks       []HealthChecker
	checkTimeout time.Duration
}

// New builds the router with all routes and middleware.
func New(cfg Config) http.Handler {
	h := &handler{
		gen:          cfg.Generator,
		topics:       cfg.Topics,
		checks:       cfg.Checks,
		checkTimeout: cfg.CheckTimeout,
	}
	if h.checkTimeout <= 0 {
		h.checkTimeout = 3 * time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", h.health)
	r.Get("/ready", h.ready)
	r.Post("/generate-exam", h.generateExam)
	r.Post("/export-exam", h.exportExam)
	r.Get("/topics", h.listTopics)
	r.Get("/usage", h.usage)

	return r
}

package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/emberfall-studios/skillforge/internal/ability"
	"github.com/emberfall-studios/skillforge/internal/challenge"
	"github.com/emberfall-studios/skillforge/internal/database"
	"github.com/emberfall-studios/skillforge/internal/handler"
	"github.com/emberfall-studios/skillforge/internal/logger"
	"github.com/emberfall-studios/skillforge/internal/metrics"
	"github.com/emberfall-studios/skillforge/internal/progression"
)

type Server struct {
	httpServer         *http.Server
	dbPool             database.Pool
	progressionService progression.Service
	abilityController  *ability.Controller
	challengeEngine    *challenge.Engine
}

// NewServer creates a new Server instance
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, progressionService progression.Service, abilityController *ability.Controller, challengeEngine *challenge.Engine) *Server {
	r := chi.NewRouter()

	// Middleware stack
	// Chi middleware executes in order defined (outermost to innermost)
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(1 << 20)) // 1MB limit
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Progression routes
		progressionHandlers := handler.NewProgressionHandlers(progressionService)
		r.Route("/progression", func(r chi.Router) {
			r.Get("/status", progressionHandlers.HandleGetStatus())
			r.Get("/passive-multiplier", progressionHandlers.HandleGetPassiveMultiplier())
			r.Post("/grant-xp", progressionHandlers.HandleGrantXP())
			r.Post("/select-skills", progressionHandlers.HandleSelectSkills())
			r.Post("/paragon", progressionHandlers.HandleAssignParagon())
			r.Post("/prestige", progressionHandlers.HandlePrestige())
			r.Post("/toggle", progressionHandlers.HandleSetToggle())

			r.Route("/admin", func(r chi.Router) {
				r.Post("/import-legacy", progressionHandlers.HandleImportLegacy())
			})
		})

		// Ability routes
		abilityHandlers := handler.NewAbilityHandlers(abilityController)
		r.Route("/ability", func(r chi.Router) {
			r.Post("/activate", abilityHandlers.HandleActivate())
			r.Post("/pause-resume", abilityHandlers.HandlePauseResume())
		})

		// Challenge routes
		challengeHandlers := handler.NewChallengeHandlers(challengeEngine, progressionService)
		r.Route("/challenges", func(r chi.Router) {
			r.Get("/", challengeHandlers.HandleGetChallenges())

			r.Route("/admin", func(r chi.Router) {
				r.Post("/regenerate", challengeHandlers.HandleAdminRegenerate())
			})
		})
	})

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:             dbPool,
		progressionService: progressionService,
		abilityController:  abilityController,
		challengeEngine:    challengeEngine,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Probes and scrapes would drown out the real traffic.
		// HasPrefix also catches trailing-slash variants.
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		// Every request gets its own ID; handlers pull the scoped
		// logger back out of the context.
		ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID())
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Credentials never reach the debug log
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

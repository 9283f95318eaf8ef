package rest

import (
	"context"
	"fmt"
	"house-map-service/internal/core/port"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
)

// ServerConfig - HTTP settings of the service.
type ServerConfig struct {
	Port               string
	AllowedOrigins     []string
	RateLimitPerMinute int
}

type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewRouter builds the chi router with all routes and middleware.
func NewRouter(cfg ServerConfig, handlers *SessionHandlers, baseLogger port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", traceHeader},
		ExposedHeaders:   []string{traceHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.NotFound(HandleNotFound)

	r.Get("/health", handlers.HandleHealth)

	r.Route("/api/v1/sessions", func(r chi.Router) {
		if cfg.RateLimitPerMinute > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
		}
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Post("/", handlers.HandleCreateSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", handlers.HandleGetSession)
			r.Delete("/", handlers.HandleDeleteSession)
			r.Get("/events", handlers.HandleSessionEvents)
			r.Post("/refresh", handlers.HandleRefresh)
			r.Post("/markers/{listingID}/tap", handlers.HandleTapMarker)
			r.Post("/carousel/pages/{index}", handlers.HandleSwipeCarousel)
			r.Post("/carousel/pages/{index}/click", handlers.HandleClickCarouselPage)
			r.Post("/list/{listingID}/tap", handlers.HandleTapListItem)
			r.Post("/listings/{listingID}/share", handlers.HandleShareListing)
			r.Post("/lifecycle/{event}", handlers.HandleLifecycle)
		})
	})

	return r
}

func NewServer(cfg ServerConfig, handlers *SessionHandlers, baseLogger port.LoggerPort) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           NewRouter(cfg, handlers, baseLogger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

// Start serves until Stop is called.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}

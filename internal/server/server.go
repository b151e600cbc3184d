// Package server is a development implementation of the lead-routing admin API.
//
// Records are held in memory. Responses can be rendered in the current or the legacy envelope
// style so that clients can be exercised against both backend versions.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jub0bs/cors"
	leadadmin "github.com/leadroute/leadadmin"
	"github.com/leadroute/leadadmin/internal/logger"
	"github.com/leadroute/leadadmin/internal/server/config"
	"github.com/leadroute/leadadmin/internal/server/handlers"
	"github.com/leadroute/leadadmin/internal/server/middleware"
	"github.com/leadroute/leadadmin/internal/server/store"
)

type Server struct {
	store        *store.Store
	serverConfig *config.ServerEnvironment
	cors         *cors.Middleware
	logger       *slog.Logger
	router       *chi.Mux
}

func NewServer(s *store.Store, serverConfig *config.ServerEnvironment, corsMiddleware *cors.Middleware, logger *slog.Logger) *Server {
	srv := &Server{
		store:        s,
		serverConfig: serverConfig,
		cors:         corsMiddleware,
		logger:       logger,
		router:       chi.NewRouter(),
	}

	srv.setupMiddleware()
	srv.registerCommonRoutes()
	srv.registerAdminRoutes()

	return srv
}

// ServeHTTP makes the server usable as an http.Handler (e.g. with httptest)
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start listens on the configured host/port and serves until ctx is cancelled, then shuts down
// gracefully
func (s *Server) Start(ctx context.Context) error {
	serverAddr := fmt.Sprintf("%s:%d", s.serverConfig.Host, s.serverConfig.Port)

	listener, err := net.Listen("tcp", serverAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", serverAddr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.serverConfig.ReadTimeout,
		WriteTimeout: s.serverConfig.WriteTimeout,
		IdleTimeout:  s.serverConfig.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("admin API listening",
			slog.String("environment", s.serverConfig.Environment),
			slog.String("address", listener.Addr().String()),
			slog.String("envelope_style", s.serverConfig.EnvelopeStyle),
		)

		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("service shutting down")

	// force an exit if the server does not shut down within the timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), leadadmin.ServerShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("shutdown error", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("server shutdown complete")
	return nil
}

// setupMiddleware sets up the middleware that applies to all server requests
func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.SecurityHeaders(s.serverConfig.Environment))
	// CORS is applied to the whole router so preflight requests are answered before method routing
	s.router.Use(middleware.CORS(s.cors))
	s.router.Use(middleware.RateLimit(s.serverConfig.RateLimitRPS, s.serverConfig.RateLimitBurst))
}

func (s *Server) registerCommonRoutes() {
	s.router.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

func (s *Server) registerAdminRoutes() {
	envelope := handlers.NewEnvelope(s.serverConfig.EnvelopeStyle)

	leads := handlers.NewLeadHandler(s.store, envelope)
	destinations := handlers.NewDestinationHandler(s.store, envelope)
	funnels := handlers.NewFunnelHandler(s.store, envelope)
	routes := handlers.NewRouteHandler(s.store, envelope)
	providerKeys := handlers.NewProviderKeyHandler(s.store, envelope)

	s.router.Group(func(r chi.Router) {
		r.Use(middleware.RequireBearer(s.serverConfig.AdminToken))
		r.Use(middleware.RequestSizeLimit(s.serverConfig.MaxAPIRequestSize))

		r.Route("/admin", func(r chi.Router) {
			r.Get("/leads", leads.ListLeadsHandler)
			r.Get("/leads/{id}", leads.GetLeadHandler)

			r.Get("/destinations", destinations.ListDestinationsHandler)
			r.Put("/destinations/{id}", destinations.UpdateDestinationHandler)
			r.Post("/destinations/{id}/test", destinations.TestDestinationHandler)

			r.Get("/funnels", funnels.ListFunnelsHandler)
			r.Post("/funnels", funnels.CreateFunnelHandler)
			r.Put("/funnels/{key}", funnels.PutFunnelHandler)
			r.Delete("/funnels/{key}", funnels.DeleteFunnelHandler)

			r.Get("/routes", routes.ListRoutesHandler)
			r.Post("/routes", routes.CreateRouteHandler)
			r.Put("/routes/{id}", routes.UpdateRouteHandler)
			r.Delete("/routes/{id}", routes.DeleteRouteHandler)

			r.Get("/provider-keys", providerKeys.ListProviderKeysHandler)
			r.Put("/provider-keys/{provider}", providerKeys.PutProviderKeyHandler)
		})
	})
}

// Package api exposes the JSON API, the live event streams and, as a
// catch-all, the content dispatcher.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/smazurov/colornode/internal/api/models"
	"github.com/smazurov/colornode/internal/events"
	"github.com/smazurov/colornode/internal/logging"
	"github.com/smazurov/colornode/internal/version"
)

// Server is the HTTP front of the node.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	handler    http.Handler
	httpServer *http.Server
	options    *Options
	eventBus   *events.Bus
	logger     *slog.Logger
}

// NewServer creates the API server using Go 1.22+ pattern routing.
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	corsConfig := DefaultCORSConfig()
	AddCORSHandler(mux, corsConfig)

	config := huma.DefaultConfig("colornode API", version.Version)
	config.Info.Description = "Color control and status API for an addressable LED node"
	config.Servers = []*huma.Server{}

	api := humago.New(mux, config)
	api.UseMiddleware(NewCORSMiddleware(corsConfig))

	server := &Server{
		api:      api,
		mux:      mux,
		options:  opts,
		eventBus: opts.EventBus,
		logger:   logging.GetLogger("api"),
	}

	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}

	server.registerRoutes()

	if opts.Dispatcher != nil {
		mux.Handle("/", opts.Dispatcher)
	}

	server.handler = RequestLogging(mux)
	return server
}

// Handler returns the root handler including request logging.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// GetAPI returns the Huma API instance.
func (s *Server) GetAPI() huma.API {
	return s.api
}

// Start listens on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting colornode server", "addr", addr)
	s.logger.Info("OpenAPI documentation available", "url", "http://"+addr+"/docs")

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.handler,
	}
	return s.httpServer.ListenAndServe()
}

// Stop closes the listener and all open connections.
func (s *Server) Stop() error {
	s.logger.Info("Stopping API server")
	if s.httpServer != nil {
		return s.httpServer.Close()
	}
	return nil
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health status",
		Tags:        []string{"health"},
	}, func(_ context.Context, _ *struct{}) (*models.HealthResponse, error) {
		return &models.HealthResponse{
			Body: models.HealthData{
				Status:  "ok",
				Message: "API is healthy",
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
	}, func(_ context.Context, _ *struct{}) (*models.VersionResponse, error) {
		info := version.Get()
		return &models.VersionResponse{
			Body: models.VersionData{
				Version:   info.Version,
				GitCommit: info.GitCommit,
				BuildDate: info.BuildDate,
				BuildID:   info.BuildID,
				GoVersion: info.GoVersion,
				Compiler:  info.Compiler,
				Platform:  info.Platform,
			},
		}, nil
	})

	s.registerColorRoutes()
	s.registerLEDRoutes()
	s.registerLogRoutes()
	s.registerSSERoutes()
	s.registerWebSocketRoutes()
}

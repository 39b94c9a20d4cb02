package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/al-ius/aus-address-matcher/internal/config"
	"github.com/al-ius/aus-address-matcher/internal/dispatch"
	"github.com/al-ius/aus-address-matcher/internal/gazetteer"
	"github.com/al-ius/aus-address-matcher/internal/web/handlers"
	"github.com/al-ius/aus-address-matcher/internal/web/middleware"
)

// Server represents the web server
type Server struct {
	config     config.ServerConfig
	httpServer *http.Server
	router     *mux.Router
	log        *zap.Logger
}

// NewServer creates a new web server instance
func NewServer(cfg config.ServerConfig, open gazetteer.Opener, d *dispatch.Dispatcher, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{config: cfg, log: log}
	s.setupRoutes(&handlers.APIHandler{Open: open, Dispatcher: d, Log: log})

	s.httpServer = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(api *handlers.APIHandler) {
	s.router = mux.NewRouter()

	r := s.router.PathPrefix("/api").Subrouter()
	r.HandleFunc("/health", api.Health).Methods("GET")
	r.HandleFunc("/match", api.Match).Methods("GET")
	r.HandleFunc("/match/batch", api.MatchBatch).Methods("POST")

	s.router.Use(middleware.RequestLogging(s.log))
	r.Use(middleware.Authentication(s.config.APIKey))
}

// Handler returns the router wrapped for cross-origin requests, so that
// preflights are answered before routing.
func (s *Server) Handler() http.Handler {
	return middleware.CORS()(s.router)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("starting server", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return eris.Wrap(err, "web: listen")
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "web: shutdown")
	}
	s.log.Info("server stopped")
	return nil
}

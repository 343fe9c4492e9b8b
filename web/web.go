package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/Vector/usuarios-api/web/handlers"
	"github.com/Vector/usuarios-api/web/internal/server"
	"github.com/Vector/usuarios-api/web/internal/views"
	"github.com/Vector/usuarios-api/web/middleware"
)

const defaultShutdownTimeout = 10 * time.Second

type Config struct {
	Addr            string
	Version         string
	CORSOrigins     []string
	ShutdownTimeout time.Duration
	Logger          *zap.Logger
	Service         *Service
}

type Server struct {
	cfg     Config
	srv     *http.Server
	handler http.Handler
}

// New builds the router and its middleware stack. It does not listen.
func New(cfg Config) (*Server, error) {
	if cfg.Service == nil {
		return nil, errors.New("web: service is required")
	}

	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	tmpls, err := views.Templates()
	if err != nil {
		return nil, err
	}

	spec, err := views.OpenAPIJSON()
	if err != nil {
		return nil, err
	}

	hg := handlers.NewHandlerGroup(handlers.Dependencies{
		Logger:    cfg.Logger,
		App:       cfg.Service,
		Templates: tmpls,
		OpenAPI:   spec,
		Version:   cfg.Version,
	})

	router := mux.NewRouter()
	server.RegisterHandlers(router, hg)

	h := middleware.Chain(router,
		middleware.Recover(cfg.Logger),
		middleware.RequestID,
		middleware.RequestLogger(cfg.Logger),
		middleware.CORS(cfg.CORSOrigins),
		middleware.SecurityHeaders,
	)

	ans := Server{
		cfg:     cfg,
		handler: h,
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
	}

	return &ans, nil
}

// Handler exposes the fully wrapped router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and blocks until ctx is cancelled
// or the server fails. On cancellation in-flight requests get
// ShutdownTimeout to finish.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errc := make(chan error, 1)

	go func() {
		s.cfg.Logger.Info("server starting", zap.String("addr", ln.Addr().String()))

		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
			return
		}

		errc <- nil
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.cfg.Logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.cfg.Logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	s.cfg.Logger.Info("server shutdown complete")

	return <-errc
}

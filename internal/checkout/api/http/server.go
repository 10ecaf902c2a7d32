package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"check-please/internal/auth"
	"check-please/internal/checkout/adapter/draftstore"
	"check-please/internal/checkout/adapter/orderapi"
	"check-please/internal/checkout/api/http/handle"
	"check-please/internal/checkout/app/core"
	"check-please/internal/checkout/app/services"
	"check-please/internal/xpkg/config"
	"check-please/internal/xpkg/logger"
	"check-please/internal/xpkg/metrics"
)

var ErrServerClosed = errors.New("server closed")

type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	srv    *http.Server
	params *core.CheckoutParams
	mylog  logger.Logger
	drafts *draftstore.RedisDraftStore
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
}

func NewServer(ctx, appCtx context.Context, cfg *config.Config, params *core.CheckoutParams, mylog logger.Logger) *Server {
	return &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		params: params,
		mylog:  mylog,
		mux:    http.NewServeMux(),
	}
}

// Run wires the collaborators, registers routes and starts listening. It
// returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	// Initialize the split draft store
	if err := s.initializeDraftStore(); err != nil {
		mylog.Action("draft_store_connection_failed").Error("Failed to connect to redis", err)
		return err
	}
	mylog.Action("draft_store_connected").Info("Successful redis connection")

	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.params.Port),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog.WithGroup("details").With("port", s.params.Port, "order_api", s.cfg.OrderAPI.BaseURL).Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Action("graceful_shutdown_started").Info("Shutting down HTTP server...")

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, core.WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Action("graceful_shutdown_failed").Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.drafts != nil {
		if err := s.drafts.Close(); err != nil {
			s.mylog.Action("draft_store_close_failed").Error("Failed to close redis client", err)
			return fmt.Errorf("draft store close: %w", err)
		}
		s.mylog.Action("draft_store_closed").Info("Draft store closed")
	}

	s.mylog.Action("graceful_shutdown_completed").Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) initializeDraftStore() error {
	drafts := draftstore.NewRedis(s.cfg.Redis, s.mylog)

	pingCtx, cancel := context.WithTimeout(s.appCtx, 5*time.Second)
	defer cancel()
	if err := drafts.Ping(pingCtx); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	s.drafts = drafts
	return nil
}

// Configure sets up the checkout, split preview and operational routes.
func (s *Server) Configure() {
	orderClient := orderapi.New(s.cfg.OrderAPI, s.mylog)
	verifier := auth.NewVerifier(s.cfg.Auth.JWTSecret)

	checkoutService := services.NewCheckoutService(orderClient, s.drafts, s.mylog)

	checkoutHandler := handle.NewCheckoutHandler(checkoutService, verifier, s.cfg.OrderAPI.LoginURL, s.mylog)

	s.mux.Handle("POST /checkout", checkoutHandler.Submit())
	s.mux.Handle("POST /split/preview", checkoutHandler.Preview())
	s.mux.Handle("GET /split/draft", checkoutHandler.Draft())
	s.mux.Handle("GET /metrics", metrics.Handler())
	s.mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

package httpsrv

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// Server exposes the operational endpoints: a liveness check on
// /health and the reachability metrics of the last run.
type Server struct {
	srv *http.Server
}

type Options struct {
	MetricsPath    string
	MetricsHandler http.Handler
}

func New(addr string, opts Options) *Server {
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}

	router := http.NewServeMux()
	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	router.Handle(opts.MetricsPath, opts.MetricsHandler)

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (s *Server) ListenAddr() string {
	return s.srv.Addr
}

func (s *Server) Start() error {
	err := s.srv.ListenAndServe()

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

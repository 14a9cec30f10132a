package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// writeSlack is added to the longest request deadline so the timeout
	// middleware can still write its 504 before the connection is cut.
	writeSlack   = 10 * time.Second
	drainTimeout = 10 * time.Second
)

// Server is the HTTP listener with graceful draining.
type Server struct {
	srv   *http.Server
	drain time.Duration
}

// NewServer builds a server on port. The write timeout follows the longest
// per-route deadline, which is the print timeout when it exceeds the request
// timeout.
func NewServer(handler http.Handler, port string, deadlines ...time.Duration) *Server {
	longest := time.Duration(0)
	for _, d := range deadlines {
		longest = max(longest, d)
	}
	var write time.Duration
	if longest > 0 {
		write = longest + writeSlack
	}
	return &Server{
		srv: &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      write,
			IdleTimeout:       60 * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
		drain: drainTimeout,
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Serve listens until ctx is done, then drains in-flight requests. A listen
// failure is returned immediately.
func (s *Server) Serve(ctx context.Context) error {
	l, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	return s.serve(ctx, l)
}

func (s *Server) serve(ctx context.Context, l net.Listener) error {
	served := make(chan error, 1)
	go func() { served <- s.srv.Serve(l) }()
	log.Info().Str("addr", l.Addr().String()).Msg("Server listening")

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("drain_timeout", s.drain).Msg("Draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.drain)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Drain incomplete, closing connections")
		_ = s.srv.Close()
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-served; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("Server stopped")
	return nil
}

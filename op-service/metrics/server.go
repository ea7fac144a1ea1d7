package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server serves the metrics of one registry over HTTP.
type Server struct {
	listener net.Listener
	srv      *http.Server
}

// StartServer starts serving the registry on /metrics. It returns once the listener is bound.
func StartServer(r *prometheus.Registry, hostname string, port int) (*Server, error) {
	addr := net.JoinHostPort(hostname, strconv.Itoa(port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind metrics server to %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.InstrumentMetricHandler(
		r, promhttp.HandlerFor(r, promhttp.HandlerOpts{}),
	))
	s := &Server{
		listener: listener,
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
	go func() {
		_ = s.srv.Serve(listener)
	}()
	return s, nil
}

// Addr returns the address the server is bound to.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) Stop(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"

	"go.uber.org/zap"
)

type Server interface {
	// Serve blocks until the server stops. A graceful Shutdown is not an error.
	Serve() error
	// ServeWithReadyCallback behaves like Serve but invokes onReady once the
	// listener is bound and the server accepts connections.
	ServeWithReadyCallback(onReady func()) error
	Shutdown(ctx context.Context) error
}

type server struct {
	httpSrv *http.Server
	log     *zap.Logger

	mu    sync.Mutex
	bound string
}

func newServer(log *zap.Logger, conf Config, handler http.Handler) Server {
	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(conf.Port),
		Handler:           handler,
		ReadHeaderTimeout: conf.Connection.ReadHeaderTimeout,
		ReadTimeout:       conf.Connection.ReadTimeout,
		WriteTimeout:      conf.Connection.WriteTimeout,
		IdleTimeout:       conf.Connection.IdleTimeout,
		MaxHeaderBytes:    conf.Connection.MaxHeaderBytes,
	}
	return &server{
		httpSrv: srv,
		log:     log,
	}
}

func (s *server) Serve() error {
	return s.ServeWithReadyCallback(nil)
}

func (s *server) ServeWithReadyCallback(onReady func()) error {
	ln, err := net.Listen("tcp", s.httpSrv.Addr)
	if err != nil {
		s.log.Error("failed to listen", zap.Error(err))
		return err
	}
	s.log.Info("starting HTTP server at", zap.String("addr", ln.Addr().String()))

	s.mu.Lock()
	s.bound = ln.Addr().String()
	s.mu.Unlock()

	if onReady != nil {
		onReady()
	}

	if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
		s.log.Error("HTTP server stopped with error", zap.Error(err))
		return err
	}
	return nil
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// boundAddr returns the address of the bound listener, empty before serving
// started. With Port 0 in the config this is where the ephemeral port shows up.
func (s *server) boundAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}

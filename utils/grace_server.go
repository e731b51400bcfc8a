package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	gracefulEnvKey   = "BLOGFRONT_GRACEFUL"
	gracefulEnvValue = gracefulEnvKey + "=1"
	// stdin, stdout, stderr, then the inherited listener
	gracefulListenerFD = 3
)

// Server wraps http.Server with signal driven shutdown and zero-downtime restart.
//
// SIGTERM and SIGINT drain in-flight requests and stop. SIGUSR2 forks a copy of the
// process that inherits the listening socket, then drains and stops the old one.
type Server struct {
	*http.Server

	listener net.Listener
	signals  chan os.Signal
	done     chan struct{}
}

// NewServer creates a Server with timeouts and handler.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{
		Server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
}

// ListenAndServe serves until a shutdown signal has been handled.
func (srv *Server) ListenAndServe() error {
	ln, err := srv.listen()
	if err != nil {
		return err
	}
	srv.listener = ln

	signal.Notify(srv.signals, syscall.SIGTERM, syscall.SIGINT, syscall.SIGUSR2)
	go srv.handleSignals()

	err = srv.Server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		<-srv.done
		return nil
	}
	return err
}

func (srv *Server) listen() (net.Listener, error) {
	if os.Getenv(gracefulEnvKey) != "" {
		ln, err := net.FileListener(os.NewFile(gracefulListenerFD, "listener"))
		if err != nil {
			return nil, fmt.Errorf("inherit listener: %w", err)
		}
		return ln, nil
	}
	addr := srv.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}

func (srv *Server) handleSignals() {
	for sig := range srv.signals {
		switch sig {
		case syscall.SIGTERM, syscall.SIGINT:
			Sugar.Infof("received %s, draining HTTP server", sig)
			srv.shutdown()
			return
		case syscall.SIGUSR2:
			pid, err := srv.fork()
			if err != nil {
				Sugar.Errorf("graceful restart failed, continue serving: %v", err)
				continue
			}
			Sugar.Infof("graceful restart: new pid=%d, draining old server", pid)
			srv.shutdown()
			return
		}
	}
}

func (srv *Server) shutdown() {
	signal.Stop(srv.signals)
	ctx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Sugar.Errorf("HTTP server shutdown error: %v", err)
	} else {
		Sugar.Info("HTTP server shutdown complete")
	}
	close(srv.done)
}

func (srv *Server) fork() (int, error) {
	tcpLn, ok := srv.listener.(*net.TCPListener)
	if !ok {
		return 0, errors.New("listener is not *net.TCPListener")
	}
	file, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("listener file: %w", err)
	}
	defer file.Close()

	env := make([]string, 0, len(os.Environ())+1)
	for _, e := range os.Environ() {
		if e != gracefulEnvValue {
			env = append(env, e)
		}
	}
	env = append(env, gracefulEnvValue)

	pid, err := syscall.ForkExec(os.Args[0], os.Args, &syscall.ProcAttr{
		Env:   env,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), file.Fd()},
	})
	if err != nil {
		return 0, fmt.Errorf("forkexec: %w", err)
	}
	return pid, nil
}

// GraceServer starts an HTTP server with graceful capabilities.
func GraceServer(addr string, handler http.Handler) error {
	return NewServer(addr, handler, DefaultReadTimeout, DefaultWriteTimeout).ListenAndServe()
}

// Package shutdown implements a signal-driven graceful drain sequence for
// the gRPC server, generalized from the teacher's HTTP health-probe-based
// ShutdownMgr (svrcore/policies/shutdown.go) to grpc.Server.GracefulStop.
package shutdown

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"
)

var errShutdownRequested = errors.New("shutdown requested")

// Config tunes the drain sequence.
type Config struct {
	Logger *slog.Logger
	// HealthProbeDelay is how long to wait, after a shutdown signal, before
	// starting to drain in-flight calls — giving a load balancer time to
	// stop routing new traffic here.
	HealthProbeDelay time.Duration
	// CancellationDelay is how long GracefulStop is given to finish
	// draining before the process forcibly exits.
	CancellationDelay time.Duration
}

// Manager coordinates a single shutdown sequence for a *grpc.Server-shaped
// dependency (GracefulStop is invoked through the Stopper interface so this
// package doesn't need to import grpc).
type Manager struct {
	context.Context
	cfg          Config
	shuttingDown atomic.Bool
	cancel       context.CancelCauseFunc
}

// Stopper is satisfied by *grpc.Server.
type Stopper interface {
	GracefulStop()
}

// New constructs a Manager. Signal handling starts when Run is called.
func New(cfg Config) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	m := &Manager{cfg: cfg}
	m.Context, m.cancel = context.WithCancelCause(context.Background())
	return m
}

// ShuttingDown reports whether a shutdown signal has been received.
func (m *Manager) ShuttingDown() bool { return m.shuttingDown.Load() }

// Run blocks listening for SIGINT/SIGTERM, then drives srv through
// GracefulStop with a forced-exit backstop. Intended to be run on its own
// goroutine; it returns once GracefulStop completes, and exits the process
// if CancellationDelay elapses first.
func (m *Manager) Run(srv Stopper) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigs

	m.cfg.Logger.Info("shutdown signal received", "signal", sig.String())
	m.shuttingDown.Store(true)
	time.Sleep(m.cfg.HealthProbeDelay)

	m.cancel(errShutdownRequested)
	done := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		m.cfg.Logger.Info("graceful stop complete")
	case <-time.After(m.cfg.CancellationDelay):
		m.cfg.Logger.Info("graceful stop deadline exceeded, forcing exit")
		os.Exit(1)
	}
}

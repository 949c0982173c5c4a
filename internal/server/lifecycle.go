// Package server runs the route server's long-lived services and shuts them
// down together on a signal or on the first service failure.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// DefaultStopTimeout bounds how long Run waits for services to return from
// Start after they were stopped.
const DefaultStopTimeout = 10 * time.Second

// Service represents a long-running component that can be started and stopped.
type Service interface {
	// Start begins the service. It should block until the service is stopped
	// or an error occurs.
	Start() error
	// Stop gracefully stops the service. It must unblock Start.
	Stop()
}

// FuncService adapts a start/stop function pair into the Service interface.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls the underlying start function.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls the underlying stop function.
func (f *FuncService) Stop() { f.StopFn() }

// Lifecycle manages the startup and shutdown of multiple services.
// Services are started in order and stopped in reverse order.
type Lifecycle struct {
	logger      *zap.Logger
	services    []namedService
	stopTimeout time.Duration
	mu          sync.Mutex
}

type namedService struct {
	name    string
	service Service
}

// NewLifecycle creates a new Lifecycle manager.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{
		logger:      logger,
		stopTimeout: DefaultStopTimeout,
	}
}

// SetStopTimeout overrides DefaultStopTimeout.
func (l *Lifecycle) SetStopTimeout(d time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopTimeout = d
}

// Add registers a named service for lifecycle management.
// Services are started in the order they are added.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Len returns the number of registered services.
func (l *Lifecycle) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.services)
}

// Run starts all services and blocks until SIGINT or SIGTERM, ctx
// cancellation, or the first service failure. Services are then stopped in
// reverse order.
//
// Postcondition: All services are stopped when this method returns. The
// returned error is the first service failure, or nil.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()

	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	stopTimeout := l.stopTimeout
	l.mu.Unlock()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, len(services))
	var running sync.WaitGroup
	for _, ns := range services {
		ns := ns
		running.Add(1)
		go func() {
			defer running.Done()
			l.logger.Info("starting service", zap.String("service", ns.name))
			svcStart := time.Now()
			if err := ns.service.Start(); err != nil {
				l.logger.Error("service failed",
					zap.String("service", ns.name),
					zap.Error(err),
					zap.Duration("uptime", time.Since(svcStart)),
				)
				errCh <- fmt.Errorf("service %s: %w", ns.name, err)
			}
		}()
	}

	l.logger.Info("all services started",
		zap.Int("count", len(services)),
		zap.Duration("startup", time.Since(start)),
	)

	var runErr error
	select {
	case err := <-errCh:
		runErr = err
		l.logger.Error("service error, shutting down", zap.Error(err))
	case <-ctx.Done():
		if sig := context.Cause(ctx); sig != nil && sig != context.Canceled {
			l.logger.Info("shutting down", zap.String("cause", sig.Error()))
		} else {
			l.logger.Info("context cancelled, shutting down")
		}
	}

	l.shutdown(services)
	l.wait(&running, stopTimeout)

	l.logger.Info("shutdown complete",
		zap.Duration("total_uptime", time.Since(start)),
	)
	return runErr
}

func (l *Lifecycle) shutdown(services []namedService) {
	shutdownStart := time.Now()
	for i := len(services) - 1; i >= 0; i-- {
		ns := services[i]
		svcStart := time.Now()
		l.logger.Info("stopping service", zap.String("service", ns.name))
		ns.service.Stop()
		l.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(svcStart)),
		)
	}
	l.logger.Info("all services stopped",
		zap.Duration("shutdown_elapsed", time.Since(shutdownStart)),
	)
}

// wait blocks until every Start call has returned or timeout elapses.
func (l *Lifecycle) wait(running *sync.WaitGroup, timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		running.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		l.logger.Warn("services still running after stop", zap.Duration("timeout", timeout))
	}
}

// ReloadOnHangup returns a Service that calls reload each time the process
// receives SIGHUP.
func ReloadOnHangup(reload func(), logger *zap.Logger) Service {
	sigCh := make(chan os.Signal, 1)
	quit := make(chan struct{})
	var once sync.Once
	return &FuncService{
		StartFn: func() error {
			signal.Notify(sigCh, syscall.SIGHUP)
			defer signal.Stop(sigCh)
			for {
				select {
				case <-sigCh:
					logger.Info("received SIGHUP, reloading")
					reload()
				case <-quit:
					return nil
				}
			}
		},
		StopFn: func() { once.Do(func() { close(quit) }) },
	}
}

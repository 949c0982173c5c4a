package telnet

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/zoneroute/internal/config"
)

// SessionHandler processes a connected Telnet session.
// Implementations handle the command loop for a single client.
type SessionHandler interface {
	HandleSession(ctx context.Context, conn *Conn) error
}

// Acceptor listens for Telnet connections on a TCP port and dispatches
// each connection to a SessionHandler.
type Acceptor struct {
	cfg     config.TelnetConfig
	handler SessionHandler
	logger  *zap.Logger

	listener net.Listener
	conns    map[*Conn]struct{}
	wg       sync.WaitGroup
	quit     chan struct{}
	ready    chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
	running  bool
}

// NewAcceptor creates a Telnet acceptor with the given configuration.
//
// Precondition: cfg must have a valid port; handler and logger must be non-nil.
// Postcondition: Returns an Acceptor ready to be started with ListenAndServe.
func NewAcceptor(cfg config.TelnetConfig, handler SessionHandler, logger *zap.Logger) *Acceptor {
	return &Acceptor{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		conns:   make(map[*Conn]struct{}),
		quit:    make(chan struct{}),
		ready:   make(chan struct{}),
	}
}

// ListenAndServe starts the TCP listener and accepts connections until Stop is called.
// This method blocks until the acceptor is stopped. If Stop was called first
// it returns immediately.
//
// Postcondition: The listener is closed when this method returns.
func (a *Acceptor) ListenAndServe() error {
	start := time.Now()

	a.mu.Lock()
	select {
	case <-a.quit:
		a.mu.Unlock()
		return nil
	default:
	}
	listener, err := net.Listen("tcp", a.cfg.Addr())
	if err != nil {
		a.mu.Unlock()
		return fmt.Errorf("listening on %s: %w", a.cfg.Addr(), err)
	}
	a.listener = listener
	a.running = true
	close(a.ready)
	a.mu.Unlock()

	a.logger.Info("telnet acceptor listening",
		zap.String("addr", listener.Addr().String()),
		zap.Duration("startup", time.Since(start)),
	)

	for {
		raw, err := listener.Accept()
		if err != nil {
			select {
			case <-a.quit:
				return nil
			default:
				a.logger.Error("accepting connection", zap.Error(err))
				continue
			}
		}

		conn := NewConn(raw, a.cfg.ReadTimeout, a.cfg.WriteTimeout)
		conn.SetMaxLineLength(a.cfg.MaxLineLength)
		if !a.track(conn) {
			_ = conn.Close()
			return nil
		}
		go a.handleConn(conn)
	}
}

// track registers a live connection. It reports false once stopping.
func (a *Acceptor) track(conn *Conn) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return false
	}
	a.conns[conn] = struct{}{}
	a.wg.Add(1)
	return true
}

func (a *Acceptor) untrack(conn *Conn) {
	a.mu.Lock()
	delete(a.conns, conn)
	a.mu.Unlock()
	a.wg.Done()
}

// handleConn runs one client session.
func (a *Acceptor) handleConn(conn *Conn) {
	defer a.untrack(conn)
	defer conn.Close()
	start := time.Now()
	addr := conn.RemoteAddr().String()

	a.logger.Info("client connected", zap.String("remote_addr", addr))

	if err := conn.Negotiate(); err != nil {
		a.logger.Error("telnet negotiation failed",
			zap.String("remote_addr", addr),
			zap.Error(err),
		)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-a.quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := a.handler.HandleSession(ctx, conn); err != nil {
		a.logger.Debug("session ended",
			zap.String("remote_addr", addr),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return
	}
	a.logger.Info("session ended cleanly",
		zap.String("remote_addr", addr),
		zap.Duration("duration", time.Since(start)),
	)
}

// Stop closes the listener and every open session, then waits for the
// session goroutines to exit. It is safe to call more than once, and before
// ListenAndServe.
//
// Postcondition: All connections are closed and goroutines have exited.
func (a *Acceptor) Stop() {
	a.stopOnce.Do(func() {
		a.mu.Lock()
		close(a.quit)
		a.running = false
		if a.listener != nil {
			_ = a.listener.Close()
		}
		for conn := range a.conns {
			_ = conn.Close()
		}
		a.mu.Unlock()

		a.wg.Wait()
		a.logger.Info("telnet acceptor stopped")
	})
}

// Ready is closed once the acceptor is listening.
func (a *Acceptor) Ready() <-chan struct{} {
	return a.ready
}

// Addr returns the actual listening address, or empty string if not yet listening.
func (a *Acceptor) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.listener != nil {
		return a.listener.Addr().String()
	}
	return ""
}

// IsRunning returns whether the acceptor is currently accepting connections.
func (a *Acceptor) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// Sessions returns the number of open client sessions.
func (a *Acceptor) Sessions() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.conns)
}

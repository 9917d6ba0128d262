package cli

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// SignalHandler turns an interrupt into cooperative cancellation. The
// signal goroutine never touches runner state directly; it cancels the
// context and runs registered callbacks (which only flip atomic flags),
// leaving all teardown to the drain loop.
type SignalHandler struct {
	signals    chan os.Signal
	shutdown   chan struct{}
	stopOnce   sync.Once
	stopCh     chan struct{}
	cancel     context.CancelFunc
	onShutdown []func()
	mu         sync.Mutex
}

// NewSignalHandler creates a signal handler with the given context cancel
func NewSignalHandler(cancel context.CancelFunc) *SignalHandler {
	return &SignalHandler{
		signals:  make(chan os.Signal, 1),
		shutdown: make(chan struct{}),
		stopCh:   make(chan struct{}),
		cancel:   cancel,
	}
}

// Start begins listening for SIGINT and SIGTERM
func (h *SignalHandler) Start() {
	h.StartWithNotify(true)
}

// StartWithNotify begins listening for signals, optionally registering
// with OS signal handling. Pass false in unit tests to avoid global
// signal state interactions.
func (h *SignalHandler) StartWithNotify(notify bool) {
	if notify {
		signal.Notify(h.signals, syscall.SIGINT, syscall.SIGTERM)
	}

	go func() {
		select {
		case sig := <-h.signals:
			log.Printf("Received signal: %v", sig)

			if h.cancel != nil {
				h.cancel()
			}

			h.mu.Lock()
			callbacks := make([]func(), len(h.onShutdown))
			copy(callbacks, h.onShutdown)
			h.mu.Unlock()

			for _, fn := range callbacks {
				fn()
			}

			close(h.shutdown)
		case <-h.stopCh:
		}
	}()
}

// OnShutdown registers a callback to run on shutdown
func (h *SignalHandler) OnShutdown(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onShutdown = append(h.onShutdown, fn)
}

// Trigger simulates a received signal, for tests
func (h *SignalHandler) Trigger() {
	select {
	case h.signals <- syscall.SIGINT:
	default:
	}
}

// Wait blocks until shutdown is triggered
func (h *SignalHandler) Wait() {
	<-h.shutdown
}

// Stop stops the signal handler
func (h *SignalHandler) Stop() {
	signal.Stop(h.signals)
	h.stopOnce.Do(func() {
		close(h.stopCh)
	})
}

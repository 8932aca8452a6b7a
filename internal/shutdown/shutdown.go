// Package shutdown provides the root context cancelled on SIGINT/SIGTERM.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// New returns a context that is cancelled when the process receives an
// interrupt or termination signal. The returned func releases the signal
// watcher and cancels the context.
func New() (context.Context, func()) {
	return signalContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func signalContext(parent context.Context, signals ...os.Signal) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, signals...)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// Package signal provides graceful shutdown handling for the server and CLI commands.
package signal

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	clog "github.com/xrsl/cvlift/pkg/log"
)

// Shutdown is the set of signals that stop a running server or workflow.
var Shutdown = []os.Signal{os.Interrupt, syscall.SIGTERM}

// WithInterrupt returns a context that is cancelled when SIGINT or SIGTERM
// is received. Call the returned cancel function to release resources.
func WithInterrupt(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, Shutdown...)

	go func() {
		select {
		case sig := <-sigCh:
			clog.Info("shutting down", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// NotifyContext is WithInterrupt on a background context.
func NotifyContext() (context.Context, context.CancelFunc) {
	return WithInterrupt(context.Background())
}

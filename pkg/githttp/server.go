package githttp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/stacklok/gitserve/pkg/logger"
	"github.com/stacklok/gitserve/pkg/registry"
)

const readHeaderTimeout = 10 * time.Second

// Serve runs the Smart HTTP server on the given address until ctx is
// cancelled, then shuts it down gracefully. It is assumed that the caller
// sets up appropriate signal handling.
func Serve(ctx context.Context, address string, reg *registry.Registry, invoker Invoker) error {
	srv := &http.Server{
		BaseContext:       func(net.Listener) context.Context { return ctx },
		Addr:              address,
		Handler:           NewHandler(reg, invoker),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	logger.Infof("serving %d git repositories on http://%s", reg.Len(), address)
	for _, name := range reg.Names() {
		logger.Infof(" -> http://%s/%s", address, name)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped with error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

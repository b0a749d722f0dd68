// Package main provides the entry point for the SecretMenu server application.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/samber/do/v2"
	"golang.org/x/sync/errgroup"

	"github.com/secretmenu/secretmenu-server/internal/di"
	"github.com/secretmenu/secretmenu-server/internal/di/providers"
	"github.com/secretmenu/secretmenu-server/internal/logger"
)

func main() {
	// Create DI container
	injector := di.NewContainer()

	// Bootstrap all services
	if err := di.Bootstrap(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap server: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)
	srv := do.MustInvoke[*providers.HTTPServerHandle](injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server gracefully...")
		// The container shuts services down in reverse dependency order,
		// starting with the HTTP server.
		return injector.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}

	log.Info("Goodbye")
}

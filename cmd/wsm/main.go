// Package main is the entry point for the wsm workshop manager.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/wsm/cmd/wsm/commands"
	"go.trai.ch/wsm/internal/app"
	"go.trai.ch/wsm/internal/core/domain"
	_ "go.trai.ch/wsm/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run(opts ...func(*app.App)) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. Initialize application components
	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}

	defer func() {
		_ = components.Shutdown(context.WithoutCancel(ctx))
	}()

	for _, opt := range opts {
		opt(components.App)
	}

	// 2. Interface - CLI
	cli := commands.New(components.App, components.Logger)

	// 3. Execution
	if err := cli.Execute(ctx); err != nil {
		switch {
		case errors.Is(err, domain.ErrBatchFailed):
			// The summary already named the failed items.
		case errors.Is(err, domain.ErrAborted):
			components.Logger.Warn(err.Error())
		default:
			components.Logger.Error(err)
		}
		return 1
	}
	return 0
}

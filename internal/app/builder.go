package app

import (
	"context"

	"go.trai.ch/wsm/internal/core/ports"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
	Tracer ports.Tracer
}

// NewComponents creates a new Components struct from dependencies.
func NewComponents(app *App, logger ports.Logger, tracer ports.Tracer) *Components {
	return &Components{
		App:    app,
		Logger: logger,
		Tracer: tracer,
	}
}

// Shutdown flushes the tracer if it buffers spans. Tracers without a
// Shutdown method are left alone.
func (c *Components) Shutdown(ctx context.Context) error {
	s, ok := c.Tracer.(interface{ Shutdown(context.Context) error })
	if !ok {
		return nil
	}
	return s.Shutdown(ctx)
}

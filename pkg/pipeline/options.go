package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/orreryworks/orrery/pkg/cache"
	"github.com/orreryworks/orrery/pkg/diagram"
	orrerr "github.com/orreryworks/orrery/pkg/errors"
	"github.com/orreryworks/orrery/pkg/layout"
)

// Options controls one pipeline execution.
type Options struct {
	// Input is the path of a serialized diagram document. Ignored when
	// Diagram is set directly (the server decodes request bodies itself).
	Input string

	// Diagram is an already-loaded diagram tree.
	Diagram *diagram.Diagram

	// Config is the layout configuration. Nil selects the defaults.
	Config *layout.Config

	// Algorithm overrides the configured default component engine.
	// Diagrams naming their own algorithm still win.
	Algorithm string

	// Seed overrides the force engine's random seed. Zero keeps the
	// configured seed.
	Seed int64

	// Refresh bypasses the cache and recomputes the layout.
	Refresh bool

	// Logger used by the layout builder. Nil selects the default logger.
	Logger *log.Logger
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Input == "" && o.Diagram == nil {
		return orrerr.New(orrerr.ErrCodeInvalidInput, "either an input path or a diagram is required")
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if o.Config == nil {
		cfg := layout.DefaultConfig()
		o.Config = &cfg
	}
	if o.Algorithm != "" {
		o.Config.Algorithm = o.Algorithm
	}
	if o.Seed != 0 {
		o.Config.Force.Seed = o.Seed
	}
	return o.Config.Validate()
}

// LayoutKeyOpts returns the option fields that participate in the layout
// cache key.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Algorithm:  o.Config.Algorithm,
		Seed:       o.Config.Force.Seed,
		ConfigHash: o.Config.Hash(),
	}
}

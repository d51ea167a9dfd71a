package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/orreryworks/orrery/pkg/cache"
	"github.com/orreryworks/orrery/pkg/diagram"
	"github.com/orreryworks/orrery/pkg/layout"
)

// Runner executes the pipeline with caching. It is stateless except for
// the cache and logger; multiple goroutines can share one Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// selects the default keyer, a nil logger the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Close releases the cache backend.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Result is the output of one pipeline execution.
type Result struct {
	Document    *Document
	DiagramHash string

	CacheInfo struct {
		LayoutHit bool
	}
	Stats struct {
		LoadTime   time.Duration
		LayoutTime time.Duration
	}
}

// Execute runs the complete load → layout pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	loadStart := time.Now()
	d, err := r.load(opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Stats.LoadTime = time.Since(loadStart)

	data, err := diagram.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("hash diagram: %w", err)
	}
	result.DiagramHash = cache.Hash(data)

	layoutStart := time.Now()
	doc, hit, err := r.generateLayout(ctx, d, result.DiagramHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Document = doc
	result.CacheInfo.LayoutHit = hit
	result.Stats.LayoutTime = time.Since(layoutStart)

	r.Logger.Info("pipeline complete",
		"diagram", d.Name,
		"layers", len(doc.Layers),
		"cached", hit,
		"duration", result.Stats.LayoutTime)
	return result, nil
}

// load resolves the input diagram.
func (r *Runner) load(opts Options) (*diagram.Diagram, error) {
	if opts.Diagram != nil {
		return opts.Diagram, nil
	}
	return diagram.ReadFile(opts.Input)
}

// generateLayout computes the layout document, consulting the cache
// first. A corrupt cached entry falls through to recompute. Transient
// backend failures (marked retryable by the Redis cache) are retried
// with backoff before the layout is recomputed.
func (r *Runner) generateLayout(ctx context.Context, d *diagram.Diagram, diagramHash string, opts Options) (*Document, bool, error) {
	key := r.Keyer.LayoutKey(diagramHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		var (
			data []byte
			hit  bool
		)
		err := cache.RetryWithBackoff(ctx, func() error {
			var err error
			data, hit, err = r.Cache.Get(ctx, key)
			return err
		})
		if err == nil && hit {
			if doc, err := UnmarshalDocument(data); err == nil {
				return doc, true, nil
			}
		}
	}

	builder, err := layout.NewBuilder(*opts.Config, opts.Logger)
	if err != nil {
		return nil, false, err
	}
	ll, err := builder.Build(d)
	if err != nil {
		return nil, false, err
	}
	doc := Export(ll, d.Name, diagramHash, opts.Config)

	if data, err := MarshalDocument(doc); err == nil {
		setErr := cache.RetryWithBackoff(ctx, func() error {
			return r.Cache.Set(ctx, key, data, cache.TTLLayout)
		})
		if setErr != nil {
			opts.Logger.Warn("cache layout", "err", setErr)
		}
	}
	return doc, false, nil
}

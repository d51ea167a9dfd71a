// Package layout turns an elaborated diagram tree into a positioned,
// render-ready LayeredLayout.
//
// Each diagram in the tree is laid out independently — component diagrams
// scope by scope through a pluggable engine, sequence diagrams through
// the event-driven pass — and the results are composed twice: nested
// scopes are offset into their containers (ContentStack), and embedded
// diagrams are stacked as clipped layers on top of the diagrams embedding
// them (LayeredLayout).
package layout

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"

	"github.com/BurntSushi/toml"

	orrerr "github.com/orreryworks/orrery/pkg/errors"
)

// Engine names accepted by Config.Algorithm and Diagram.Algorithm.
const (
	AlgorithmBasic        = "basic"
	AlgorithmForce        = "force"
	AlgorithmHierarchical = "hierarchical"
)

// Config is the full layout configuration. Zero values are not usable;
// start from DefaultConfig and override.
type Config struct {
	// Algorithm is the component engine used when a diagram does not name
	// one itself.
	Algorithm string `toml:"algorithm"`

	// Padding is the inset between a shape's border and its text/content.
	Padding float64 `toml:"padding"`

	// ClipPadding shrinks an embedded layer's clip rectangle inside the
	// embedding node's content box.
	ClipPadding float64 `toml:"clip_padding"`

	Text         TextConfig         `toml:"text"`
	Basic        BasicConfig        `toml:"basic"`
	Force        ForceConfig        `toml:"force"`
	Hierarchical HierarchicalConfig `toml:"hierarchical"`
	Sequence     SequenceConfig     `toml:"sequence"`
}

// TextConfig tunes the character-count text measurer.
type TextConfig struct {
	RuneWidth  float64 `toml:"rune_width"`
	LineHeight float64 `toml:"line_height"`
}

// BasicConfig tunes the layered BFS engine.
type BasicConfig struct {
	Padding     float64 `toml:"padding"`
	LabelMargin float64 `toml:"label_margin"`
}

// ForceConfig tunes the force-directed engine. Seed makes the simulation
// reproducible; two builds with the same seed and input produce the same
// positions.
type ForceConfig struct {
	Iterations  int     `toml:"iterations"`
	MinDistance float64 `toml:"min_distance"`
	Repulsion   float64 `toml:"repulsion"`
	Spring      float64 `toml:"spring"`
	Damping     float64 `toml:"damping"`
	MaxExtent   float64 `toml:"max_extent"`
	Seed        int64   `toml:"seed"`
}

// HierarchicalConfig tunes the oracle adapter.
type HierarchicalConfig struct {
	SpacingX float64 `toml:"spacing_x"`
	SpacingY float64 `toml:"spacing_y"`
	Padding  float64 `toml:"padding"`
	Margin   float64 `toml:"margin"`
}

// SequenceConfig tunes the event-driven sequence engine.
type SequenceConfig struct {
	ParticipantSpacing float64 `toml:"participant_spacing"`
	MessageSpacing     float64 `toml:"message_spacing"`
	ActivationWidth    float64 `toml:"activation_width"`
	FragmentPadding    float64 `toml:"fragment_padding"`
	NoteMargin         float64 `toml:"note_margin"`
	NotePadding        float64 `toml:"note_padding"`
	LabelMargin        float64 `toml:"label_margin"`
}

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() Config {
	return Config{
		Algorithm:   AlgorithmBasic,
		Padding:     12,
		ClipPadding: 4,
		Text: TextConfig{
			RuneWidth:  8,
			LineHeight: 16,
		},
		Basic: BasicConfig{
			Padding:     40,
			LabelMargin: 12,
		},
		Force: ForceConfig{
			Iterations:  300,
			MinDistance: 60,
			Repulsion:   800,
			Spring:      0.02,
			Damping:     0.85,
			MaxExtent:   2400,
			Seed:        42,
		},
		Hierarchical: HierarchicalConfig{
			SpacingX: 90,
			SpacingY: 70,
			Padding:  40,
			Margin:   20,
		},
		Sequence: SequenceConfig{
			ParticipantSpacing: 80,
			MessageSpacing:     40,
			ActivationWidth:    12,
			FragmentPadding:    10,
			NoteMargin:         8,
			NotePadding:        6,
			LabelMargin:        12,
		},
	}
}

// LoadConfig reads a TOML configuration file over the defaults, so a file
// only needs the keys it changes.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, orrerr.Wrap(orrerr.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, orrerr.Wrap(orrerr.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Hash fingerprints the configuration for cache keys: any change to a
// layout-relevant knob produces a different hash.
func (c Config) Hash() string {
	data, _ := json.Marshal(c)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Validate rejects configurations the engines cannot run with.
func (c Config) Validate() error {
	switch c.Algorithm {
	case AlgorithmBasic, AlgorithmForce, AlgorithmHierarchical:
	default:
		return orrerr.New(orrerr.ErrCodeInvalidAlgorithm, "unknown layout algorithm %q", c.Algorithm)
	}
	if c.Padding < 0 {
		return orrerr.New(orrerr.ErrCodeInvalidConfig, "padding must be non-negative, got %v", c.Padding)
	}
	if c.Text.RuneWidth <= 0 || c.Text.LineHeight <= 0 {
		return orrerr.New(orrerr.ErrCodeInvalidConfig, "text metrics must be positive")
	}
	if c.Force.Iterations <= 0 {
		return orrerr.New(orrerr.ErrCodeInvalidConfig, "force iterations must be positive, got %d", c.Force.Iterations)
	}
	if c.Force.Damping <= 0 || c.Force.Damping > 1 {
		return orrerr.New(orrerr.ErrCodeInvalidConfig, "force damping must be in (0, 1], got %v", c.Force.Damping)
	}
	if c.Force.MinDistance <= 0 || c.Force.MaxExtent <= 0 {
		return orrerr.New(orrerr.ErrCodeInvalidConfig, "force distances must be positive")
	}
	if c.Hierarchical.SpacingX <= 0 || c.Hierarchical.SpacingY <= 0 {
		return orrerr.New(orrerr.ErrCodeInvalidConfig, "hierarchical spacing must be positive")
	}
	if c.Sequence.MessageSpacing <= 0 {
		return orrerr.New(orrerr.ErrCodeInvalidConfig, "sequence message spacing must be positive, got %v", c.Sequence.MessageSpacing)
	}
	return nil
}

// Package config loads the immutable kinematic and planner tuning parameters the ART
// core is constructed from. It is a convenience for embedders that want to drive the
// planner from a file; the library itself (package motionplan) takes a plain Config
// struct and never touches the filesystem.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"go.artnav.dev/art/logging"
)

// Config holds the agent's kinematic parameters and the planner's tunables, per spec.md
// §6 ("Immutable kinematic config").
type Config struct {
	// Radius is the agent's circular footprint radius.
	Radius float64 `json:"radius" yaml:"radius"`
	// Speed is the maximum forward speed, v.
	Speed float64 `json:"speed" yaml:"speed"`
	// TurningSpeed is the maximum angular speed, omega.
	TurningSpeed float64 `json:"turning_speed" yaml:"turning_speed"`
	// FreeMargin is extra clearance added to every safety/obstacle check, m.
	FreeMargin float64 `json:"free_margin" yaml:"free_margin"`
	// SafetyThreshold is tau, the minimum cumulative safeness required to admit a plan.
	SafetyThreshold float64 `json:"safety_threshold" yaml:"safety_threshold"`
	// GlobalNodes is the node count at which global roadmap growth stops; the final
	// subdivided extension can overshoot it.
	GlobalNodes int `json:"global_nodes" yaml:"global_nodes"`
	// LocalMaxSize bounds how many new local-tree nodes plan() may add per tick.
	LocalMaxSize int `json:"local_max_size" yaml:"local_max_size"`
	// RejectionDist2 is the squared-distance clumping-rejection threshold used by the
	// global roadmap builder (flagged as a magic constant in spec.md §9; exposed here).
	RejectionDist2 float64 `json:"rejection_dist2" yaml:"rejection_dist2"`
	// LocalWindowHalfExtent is the half-width of the square local-view window the
	// per-tick sampler starts from before it widens out to the world bounds.
	LocalWindowHalfExtent float64 `json:"local_window_half_extent" yaml:"local_window_half_extent"`
	// SampleGrowthSteps is how many local-tree samples it takes for the sampler's window
	// to widen from the local view out to the full world bounds.
	SampleGrowthSteps int `json:"sample_growth_steps" yaml:"sample_growth_steps"`
	// Seed seeds the planner's injected RNG, for deterministic replays.
	Seed int64 `json:"seed" yaml:"seed"`
}

// MaxEdgeGlobal is the global roadmap's subdivision length, 2*radius per spec.md §4.4.
func (c Config) MaxEdgeGlobal() float64 { return 2 * c.Radius }

// MaxEdgeLocal is the local tree's subdivision length, 2*radius per spec.md §4.5.
func (c Config) MaxEdgeLocal() float64 { return 2 * c.Radius }

// Default returns the reference configuration used throughout spec.md §8's end-to-end
// scenarios.
func Default() Config {
	return Config{
		Radius:                5,
		Speed:                 30,
		TurningSpeed:          2 * 3.141592653589793 / 3,
		FreeMargin:            2,
		SafetyThreshold:       0.9,
		GlobalNodes:           60,
		LocalMaxSize:          10,
		RejectionDist2:        1000,
		LocalWindowHalfExtent: 50,
		SampleGrowthSteps:     10,
		Seed:                  1,
	}
}

// Validate rejects configurations that would make the kinodynamic cost and safety math
// degenerate (division by zero speeds, a non-positive radius, or a threshold outside
// (0,1]).
func (c Config) Validate() error {
	if c.Radius <= 0 {
		return errors.New("config: radius must be positive")
	}
	if c.Speed <= 0 {
		return errors.New("config: speed must be positive")
	}
	if c.TurningSpeed <= 0 {
		return errors.New("config: turning_speed must be positive")
	}
	if c.FreeMargin < 0 {
		return errors.New("config: free_margin must not be negative")
	}
	if c.SafetyThreshold <= 0 || c.SafetyThreshold > 1 {
		return errors.New("config: safety_threshold must be in (0,1]")
	}
	if c.GlobalNodes <= 0 {
		return errors.New("config: global_nodes must be positive")
	}
	if c.LocalMaxSize <= 0 {
		return errors.New("config: local_max_size must be positive")
	}
	if c.RejectionDist2 < 0 {
		return errors.New("config: rejection_dist2 must not be negative")
	}
	if c.LocalWindowHalfExtent <= 0 {
		return errors.New("config: local_window_half_extent must be positive")
	}
	if c.SampleGrowthSteps <= 0 {
		return errors.New("config: sample_growth_steps must be positive")
	}
	return nil
}

// Read loads a Config from a YAML or JSON file (selected by extension), decoding through
// an intermediate map via mapstructure so that partially-specified files fall back to
// Default()'s values, then validates the result. This mirrors the shape of the teacher's
// own config.Read(ctx, path, logger, ...), trimmed to this module's much smaller config
// surface (no components, remotes, or services to resolve).
func Read(path string, logger logging.Logger) (*Config, error) {
	raw, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %q", path)
	}

	generic := map[string]interface{}{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &generic); err != nil {
			return nil, errors.Wrapf(err, "parsing YAML config %q", path)
		}
	case ".json":
		if err := json.Unmarshal(raw, &generic); err != nil {
			return nil, errors.Wrapf(err, "parsing JSON config %q", path)
		}
	default:
		return nil, errors.Errorf("config: unsupported file extension %q", ext)
	}

	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		TagName:          "json",
	})
	if err != nil {
		return nil, errors.Wrap(err, "building config decoder")
	}
	if err := decoder.Decode(generic); err != nil {
		return nil, errors.Wrapf(err, "decoding config %q", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debugw("loaded config", "path", path, "config", cfg)
	return &cfg, nil
}

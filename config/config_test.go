package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"go.artnav.dev/art/logging"
)

func TestDefaultIsValid(t *testing.T) {
	test.That(t, Default().Validate(), test.ShouldBeNil)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"radius", func(c *Config) { c.Radius = 0 }},
		{"speed", func(c *Config) { c.Speed = -1 }},
		{"turning_speed", func(c *Config) { c.TurningSpeed = 0 }},
		{"free_margin", func(c *Config) { c.FreeMargin = -1 }},
		{"safety_threshold_low", func(c *Config) { c.SafetyThreshold = 0 }},
		{"safety_threshold_high", func(c *Config) { c.SafetyThreshold = 1.1 }},
		{"global_nodes", func(c *Config) { c.GlobalNodes = 0 }},
		{"local_max_size", func(c *Config) { c.LocalMaxSize = 0 }},
		{"rejection_dist2", func(c *Config) { c.RejectionDist2 = -1 }},
		{"local_window_half_extent", func(c *Config) { c.LocalWindowHalfExtent = 0 }},
		{"sample_growth_steps", func(c *Config) { c.SampleGrowthSteps = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			test.That(t, cfg.Validate(), test.ShouldNotBeNil)
		})
	}
}

func TestMaxEdgeHelpers(t *testing.T) {
	cfg := Default()
	test.That(t, cfg.MaxEdgeGlobal(), test.ShouldAlmostEqual, 2*cfg.Radius)
	test.That(t, cfg.MaxEdgeLocal(), test.ShouldAlmostEqual, 2*cfg.Radius)
}

func TestReadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planner.yaml")
	yamlContent := "radius: 8\nspeed: 40\n"
	test.That(t, os.WriteFile(path, []byte(yamlContent), 0o600), test.ShouldBeNil)

	logger := logging.NewTestLogger(t)
	cfg, err := Read(path, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Radius, test.ShouldAlmostEqual, 8.0)
	test.That(t, cfg.Speed, test.ShouldAlmostEqual, 40.0)
	// Fields not present in the file fall back to Default()'s values.
	test.That(t, cfg.GlobalNodes, test.ShouldEqual, Default().GlobalNodes)
}

func TestReadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planner.json")
	jsonContent := `{"radius": 6, "global_nodes": 80}`
	test.That(t, os.WriteFile(path, []byte(jsonContent), 0o600), test.ShouldBeNil)

	logger := logging.NewTestLogger(t)
	cfg, err := Read(path, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Radius, test.ShouldAlmostEqual, 6.0)
	test.That(t, cfg.GlobalNodes, test.ShouldEqual, 80)
}

func TestReadRejectsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planner.toml")
	test.That(t, os.WriteFile(path, []byte("radius = 8"), 0o600), test.ShouldBeNil)

	logger := logging.NewTestLogger(t)
	_, err := Read(path, logger)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestReadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planner.yaml")
	test.That(t, os.WriteFile(path, []byte("radius: -1\n"), 0o600), test.ShouldBeNil)

	logger := logging.NewTestLogger(t)
	_, err := Read(path, logger)
	test.That(t, err, test.ShouldNotBeNil)
}

// Package config loads and saves simulation scenarios as YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/integrators"
	"github.com/san-kum/orbitsim/internal/world"
)

const (
	DefaultDt        = 60.0
	DefaultDuration  = 86400.0
	DefaultTolerance = 1e-9
	DefaultMinDt     = 1e-6
)

// BodyConfig describes one body of a scenario in SI units.
type BodyConfig struct {
	Name string     `yaml:"name"`
	Pos  [3]float64 `yaml:"pos"`
	Vel  [3]float64 `yaml:"vel"`
	Mass float64    `yaml:"mass"`
}

// Config is a full scenario: the bodies plus how to integrate them.
type Config struct {
	Name       string       `yaml:"name"`
	Integrator string       `yaml:"integrator"` // rk4, dopri54, leapfrog
	Dt         float64      `yaml:"dt"`
	Duration   float64      `yaml:"duration"`
	Tolerance  float64      `yaml:"tolerance"`
	Softening  float64      `yaml:"softening"`
	Bodies     []BodyConfig `yaml:"bodies"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:       "custom",
		Integrator: "rk4",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Tolerance:  DefaultTolerance,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// BuildWorld constructs a container holding the scenario's bodies, in the
// order they are listed. Body validation errors carry world.ErrInvalidBody.
func (c *Config) BuildWorld() (*world.World, error) {
	w := world.New()
	w.Reserve(len(c.Bodies))
	for i, b := range c.Bodies {
		pos := world.Vec3{X: b.Pos[0], Y: b.Pos[1], Z: b.Pos[2]}
		vel := world.Vec3{X: b.Vel[0], Y: b.Vel[1], Z: b.Vel[2]}
		if _, err := w.AddBody(pos, vel, b.Mass); err != nil {
			return nil, fmt.Errorf("body %d (%s): %w", i, b.Name, err)
		}
	}
	return w, nil
}

// NewStepper builds the integrator the scenario names.
func (c *Config) NewStepper() (integrators.Stepper, error) {
	switch c.Integrator {
	case "rk4", "":
		s := integrators.NewRK4()
		s.Softening = c.Softening
		return s, nil
	case "dopri54":
		s := integrators.NewDopri54()
		s.Softening = c.Softening
		return s, nil
	case "leapfrog":
		s := integrators.NewLeapfrog()
		s.Softening = c.Softening
		return s, nil
	default:
		return nil, fmt.Errorf("config: unknown integrator %q", c.Integrator)
	}
}

// Adaptive reports whether the scenario's integrator uses step-size control.
func (c *Config) Adaptive() bool {
	return c.Integrator == "dopri54"
}

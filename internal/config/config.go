package config

import (
	"fmt"
	"math"
	"os"

	"github.com/san-kum/wavetoy/internal/dynamo"
	"gopkg.in/yaml.v3"
)

// Defaults reproduce the reference driver: 11 points, dt = dx/4 and 40
// iterations, which covers one unit of time.
const (
	DefaultPoints      = 11
	DefaultCourant     = 0.25
	DefaultIntegrator  = "midpoint"
	DefaultProfile     = "sine"
	DefaultOutputEvery = 1
)

type Config struct {
	Points      int     `yaml:"points"`
	Courant     float64 `yaml:"courant"`
	Iterations  int     `yaml:"iterations"`
	T0          float64 `yaml:"t0"`
	Integrator  string  `yaml:"integrator"`
	Profile     string  `yaml:"profile"`
	OutputEvery int     `yaml:"output_every"`
	Store       bool    `yaml:"store"`
}

func DefaultConfig() *Config {
	return &Config{
		Points:      DefaultPoints,
		Courant:     DefaultCourant,
		Integrator:  DefaultIntegrator,
		Profile:     DefaultProfile,
		OutputEvery: DefaultOutputEvery,
		Store:       true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

func (c *Config) Validate() error {
	if c.Points < 2 {
		return fmt.Errorf("points = %d: %w", c.Points, dynamo.ErrGridTooSmall)
	}
	if math.IsNaN(c.Courant) || math.IsInf(c.Courant, 0) {
		return fmt.Errorf("%w: courant must be finite, got %g", dynamo.ErrInvalidConfig, c.Courant)
	}
	if c.Courant <= 0 {
		return fmt.Errorf("%w: courant must be positive, got %g", dynamo.ErrInvalidConfig, c.Courant)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations must not be negative, got %d", dynamo.ErrInvalidConfig, c.Iterations)
	}
	if c.OutputEvery < 0 {
		return fmt.Errorf("%w: output_every must not be negative, got %d", dynamo.ErrInvalidConfig, c.OutputEvery)
	}
	return nil
}

// Dx is the grid spacing 1/(points-1).
func (c *Config) Dx() float64 {
	return 1.0 / float64(c.Points-1)
}

// Dt is the time step courant*dx.
func (c *Config) Dt() float64 {
	return c.Courant * c.Dx()
}

// Steps is the configured iteration count, or enough steps to cover one
// unit of time when none is set.
func (c *Config) Steps() int {
	if c.Iterations > 0 {
		return c.Iterations
	}
	return int(math.Ceil(1/c.Dt() - 1e-9))
}

// Sim converts c into driver settings.
func (c *Config) Sim() dynamo.Config {
	return dynamo.Config{
		Dt:            c.Dt(),
		Iterations:    c.Steps(),
		OutputEvery:   c.OutputEvery,
		ValidateState: true,
	}
}

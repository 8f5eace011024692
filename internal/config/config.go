// Package config loads layered configuration for the implicit command.
//
// Precedence (highest to lowest): flags > env vars > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/soypat/implicit/expr"
	"github.com/soypat/implicit/interval"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables read into the config.
// IMPLICIT_DOMAIN_MIN sets domain.min.
const EnvPrefix = "IMPLICIT_"

// Defaults.
const (
	DefaultSurface  = "sphere"
	DefaultFormat   = "stl"
	DefaultLogLevel = "info"
)

// Output formats.
const (
	FormatSTL  = "stl"
	FormatJSON = "json"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the complete configuration of a polygonization run.
type Config struct {
	// Surface names a catalog surface. Ignored when Expression is set.
	Surface string `koanf:"surface"`
	// Expression is DSL source of a custom surface.
	Expression string `koanf:"expression"`
	Domain     Domain `koanf:"domain"`
	// Resolution is the largest cell edge. Zero uses the surface default.
	Resolution    float64 `koanf:"resolution"`
	Workers       int     `koanf:"workers"`
	Canonicalize  bool    `koanf:"canonicalize"`
	Output        string  `koanf:"output"`
	Format        string  `koanf:"format"`
	WeldTolerance float64 `koanf:"weld_tolerance"`
	LogLevel      string  `koanf:"log_level"`

	// configFile is the config file read, if any.
	configFile string
}

// Domain overrides the search domain. Min and Max apply to every axis
// when Min < Max. Per axis X, Y and Z take precedence and must hold
// exactly two values.
type Domain struct {
	Min float64   `koanf:"min"`
	Max float64   `koanf:"max"`
	X   []float64 `koanf:"x"`
	Y   []float64 `koanf:"y"`
	Z   []float64 `koanf:"z"`
}

// Job is a fully resolved polygonization request.
type Job struct {
	Name       string
	Expr       expr.Expr
	Domain     interval.Box
	Resolution float64
}

// findConfigFile finds the config file to use.
// Priority: explicit path > implicit.yaml > implicit.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"implicit.yaml", "implicit.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// configKey maps a flag or environment variable name to its config key.
// Transform: domain-min -> domain.min, weld-tolerance -> weld_tolerance.
func configKey(name string) string {
	key := strings.ReplaceAll(strings.ToLower(name), "-", "_")
	if rest, ok := strings.CutPrefix(key, "domain_"); ok {
		return "domain." + rest
	}
	return key
}

// Load loads configuration from file, environment variables and flags.
// Only flags that were explicitly set override other sources.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"surface":        DefaultSurface,
		"format":         DefaultFormat,
		"log_level":      DefaultLogLevel,
		"workers":        0,
		"resolution":     0.0,
		"weld_tolerance": 0.0,
		"canonicalize":   false,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment variables. Axis ranges are comma separated.
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		key = configKey(strings.TrimPrefix(key, EnvPrefix))
		switch key {
		case "domain.x", "domain.y", "domain.z":
			return key, strings.Split(value, ",")
		}
		return key, value
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			return configKey(f.Name), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.configFile = used
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigFile returns the path of the config file read, if any.
func (c *Config) ConfigFile() string { return c.configFile }

// Validate checks field values without resolving the surface.
func (c *Config) Validate() error {
	var errs []error
	switch strings.ToLower(c.Format) {
	case FormatSTL, FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown format %q (want %s or %s)", c.Format, FormatSTL, FormatJSON))
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Resolution < 0 || math.IsNaN(c.Resolution) || math.IsInf(c.Resolution, 0) {
		errs = append(errs, fmt.Errorf("resolution must be positive and finite, got %v", c.Resolution))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative, got %d", c.Workers))
	}
	if c.WeldTolerance < 0 || math.IsNaN(c.WeldTolerance) {
		errs = append(errs, fmt.Errorf("weld_tolerance must not be negative, got %v", c.WeldTolerance))
	}
	for _, axis := range []struct {
		name string
		v    []float64
	}{{"x", c.Domain.X}, {"y", c.Domain.Y}, {"z", c.Domain.Z}} {
		if len(axis.v) != 0 && len(axis.v) != 2 {
			errs = append(errs, fmt.Errorf("domain.%s needs 2 values, got %d", axis.name, len(axis.v)))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Resolve returns the expression, domain and resolution selected by c.
// A custom expression defaults to the domain [-2,2]^3 and resolution 0.1.
func (c *Config) Resolve() (Job, error) {
	job := Job{
		Domain:     interval.Cube(-2, 2),
		Resolution: 0.1,
	}
	if c.Expression != "" {
		e, err := expr.Parse(c.Expression)
		if err != nil {
			return Job{}, err
		}
		job.Name = "custom"
		job.Expr = e
	} else {
		s, ok := expr.Lookup(c.Surface)
		if !ok {
			return Job{}, fmt.Errorf("unknown surface %q", c.Surface)
		}
		job.Name = s.Name
		job.Expr = s.Expr()
		job.Domain = s.Domain
		job.Resolution = s.Resolution
	}
	if c.Resolution > 0 {
		job.Resolution = c.Resolution
	}
	d := c.Domain
	if d.Min < d.Max {
		job.Domain = interval.Cube(d.Min, d.Max)
	}
	if len(d.X) == 2 {
		job.Domain.X = interval.New(d.X[0], d.X[1])
	}
	if len(d.Y) == 2 {
		job.Domain.Y = interval.New(d.Y[0], d.Y[1])
	}
	if len(d.Z) == 2 {
		job.Domain.Z = interval.New(d.Z[0], d.Z[1])
	}
	return job, nil
}

// ParseLevel parses a log level name.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

package config

import (
	"runtime"
	"strings"

	"github.com/arthur-debert/slim/pkg/errors"
	"github.com/arthur-debert/slim/pkg/paths"
)

const bytesPerMiB = 1024 * 1024

// Config is the effective slim configuration
type Config struct {
	Scan       Scan       `koanf:"scan" toml:"scan" json:"scan" yaml:"scan"`
	Relocation Relocation `koanf:"relocation" toml:"relocation" json:"relocation" yaml:"relocation"`
	Downloads  Downloads  `koanf:"downloads" toml:"downloads" json:"downloads" yaml:"downloads"`
}

// Scan controls candidate enumeration and sizing
type Scan struct {
	ThresholdMB   int64    `koanf:"threshold_mb" toml:"threshold_mb" json:"threshold_mb" yaml:"threshold_mb"`
	Excluded      []string `koanf:"excluded" toml:"excluded" json:"excluded" yaml:"excluded"`
	DocumentsName string   `koanf:"documents_name" toml:"documents_name" json:"documents_name" yaml:"documents_name"`
	Workers       int      `koanf:"workers" toml:"workers" json:"workers" yaml:"workers"`
}

// Relocation controls where folders go and how moves are recorded
type Relocation struct {
	Base          string `koanf:"base" toml:"base" json:"base" yaml:"base"`
	Prefix        string `koanf:"prefix" toml:"prefix" json:"prefix" yaml:"prefix"`
	LogFile       string `koanf:"log_file" toml:"log_file" json:"log_file" yaml:"log_file"`
	RecomputeSize bool   `koanf:"recompute_size" toml:"recompute_size" json:"recompute_size" yaml:"recompute_size"`
}

// Downloads names the folder flattened by `slim flatten`
type Downloads struct {
	Name string `koanf:"name" toml:"name" json:"name" yaml:"name"`
}

// Validate rejects values the engine cannot work with
func (c *Config) Validate() error {
	if c.Scan.ThresholdMB < 0 {
		return errors.Newf(errors.ErrConfigValid, "scan.threshold_mb must not be negative, got %d", c.Scan.ThresholdMB)
	}
	if c.Scan.Workers < 0 {
		return errors.Newf(errors.ErrConfigValid, "scan.workers must not be negative, got %d", c.Scan.Workers)
	}
	if c.Scan.DocumentsName == "" {
		return errors.New(errors.ErrConfigValid, "scan.documents_name must not be empty")
	}
	if c.Relocation.LogFile == "" {
		return errors.New(errors.ErrConfigValid, "relocation.log_file must not be empty")
	}
	if strings.ContainsAny(c.Relocation.LogFile, `/\`) {
		return errors.Newf(errors.ErrConfigValid, "relocation.log_file must be a plain file name, got %q", c.Relocation.LogFile)
	}
	if c.Downloads.Name == "" {
		return errors.New(errors.ErrConfigValid, "downloads.name must not be empty")
	}
	return nil
}

// ThresholdBytes converts scan.threshold_mb to bytes
func (c *Config) ThresholdBytes() int64 {
	return c.Scan.ThresholdMB * bytesPerMiB
}

// Workers returns the configured worker count, defaulting to min(NumCPU, 4)
func (c *Config) Workers() int {
	if c.Scan.Workers > 0 {
		return c.Scan.Workers
	}
	return min(runtime.NumCPU(), 4)
}

// RelocationRoot derives the relocation root for profileRoot
func (c *Config) RelocationRoot(profileRoot string) string {
	return paths.RelocationRoot(profileRoot, c.Relocation.Base, c.Relocation.Prefix)
}

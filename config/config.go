// Package config holds Violang's runtime tunables and loads overrides from
// an optional ~/.violang.yaml file via viper, the way the teacher stack's
// CLI layer loads its own settings.
package config

import (
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Defaults match spec.md's stated constants: a 512-slot value stack and a
// 1024-byte allocation threshold before the VM considers a GC cycle.
const (
	DefaultStackLimit  = 512
	DefaultGCThreshold = 1024
)

// Config holds the tunables a vm.VM and its Collector are built from.
type Config struct {
	// StackLimit is the maximum number of value-stack slots; a push
	// beyond it raises a KindStackOverflow FatalError.
	StackLimit int

	// GCThreshold is the heap.Allocated() byte count maybeGC compares
	// against before running a collection cycle.
	GCThreshold int

	// NoColor disables ANSI color in disassembly and CLI output,
	// regardless of terminal detection.
	NoColor bool

	// StrictGC runs gc.VerifyInvariants after every collection cycle and
	// logs any violation at error level, catching GC bugs at the point
	// they occur rather than as a later crash. Execution continues.
	StrictGC bool
}

// Default returns the built-in tunables, no file or environment involved.
func Default() Config {
	return Config{
		StackLimit:  DefaultStackLimit,
		GCThreshold: DefaultGCThreshold,
	}
}

// Load reads defaults, then overlays ~/.violang.yaml if present. A missing
// config file is not an error: Default() alone is a fully valid
// configuration.
func Load() (Config, error) {
	cfg := Default()

	home, err := homedir.Dir()
	if err != nil {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigName(".violang")
	v.SetConfigType("yaml")
	v.AddConfigPath(home)
	v.SetDefault("stack_limit", cfg.StackLimit)
	v.SetDefault("gc_threshold", cfg.GCThreshold)
	v.SetDefault("no_color", cfg.NoColor)
	v.SetDefault("strict_gc", cfg.StrictGC)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return cfg, err
	}

	cfg.StackLimit = v.GetInt("stack_limit")
	cfg.GCThreshold = v.GetInt("gc_threshold")
	cfg.NoColor = v.GetBool("no_color")
	cfg.StrictGC = v.GetBool("strict_gc")
	return cfg, nil
}

// Package config loads makegen settings from defaults, a makegen.yaml file,
// MAKEGEN_ environment variables and command-line flags.
package config

import (
	"github.com/kameshwarc/SDAccel-Examples/internal/emitter"
	"github.com/kameshwarc/SDAccel-Examples/internal/generate"
	"github.com/kameshwarc/SDAccel-Examples/pkg/core"
)

// Config holds all CLI configuration options.
type Config struct {
	// Description is the description file used when none is given on the command line.
	Description   string `koanf:"description"`
	CommonRepo    string `koanf:"common_repo"`
	DefaultDevice string `koanf:"default_device"`
	Layout        string `koanf:"layout"`
	OutputDir     string `koanf:"output_dir"`
	Makefile      string `koanf:"makefile"`
	IniFile       string `koanf:"ini_file"`
	// LibsRegistry is an optional YAML file of extra libraries.
	LibsRegistry string `koanf:"libs_registry"`
	Jobs         int    `koanf:"jobs"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`
	LogLevel     string `koanf:"log_level"`
	LogFormat    string `koanf:"log_format"`
}

// Default configuration values.
const (
	DefaultOutputDir = "."
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// defaults returns the lowest-precedence configuration layer.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"description":    generate.DefaultDescriptionName,
		"common_repo":    emitter.DefaultCommonRepo,
		"default_device": core.DefaultDevice,
		"layout":         string(core.LayoutLegacy),
		"output_dir":     DefaultOutputDir,
		"makefile":       generate.DefaultMakefile,
		"ini_file":       generate.DefaultIniFile,
		"libs_registry":  "",
		"jobs":           generate.DefaultJobs,
		"verbose":        false,
		"output":         DefaultOutput,
		"log_level":      DefaultLogLevel,
		"log_format":     DefaultLogFormat,
	}
}

// Default returns the configuration used when nothing has been loaded.
func Default() *Config {
	return &Config{
		Description:   generate.DefaultDescriptionName,
		CommonRepo:    emitter.DefaultCommonRepo,
		DefaultDevice: core.DefaultDevice,
		Layout:        string(core.LayoutLegacy),
		OutputDir:     DefaultOutputDir,
		Makefile:      generate.DefaultMakefile,
		IniFile:       generate.DefaultIniFile,
		Jobs:          generate.DefaultJobs,
		OutputFormat:  DefaultOutput,
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
	}
}

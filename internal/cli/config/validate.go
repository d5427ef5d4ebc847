package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/kameshwarc/SDAccel-Examples/internal/cli/output"
	"github.com/kameshwarc/SDAccel-Examples/pkg/core"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if _, err := core.ParseLayout(c.Layout); err != nil {
		errs = append(errs, err)
	}
	if c.OutputFormat != "" && !slices.Contains(output.ValidModes(), c.OutputFormat) {
		errs = append(errs, fmt.Errorf("unknown output format %q (want one of %v)", c.OutputFormat, output.ValidModes()))
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat))
	}
	if c.Jobs < 1 {
		errs = append(errs, fmt.Errorf("jobs must be at least 1, got %d", c.Jobs))
	}
	if c.Makefile == "" {
		errs = append(errs, errors.New("makefile name is required"))
	}
	if c.IniFile == "" {
		errs = append(errs, errors.New("ini_file name is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kameshwarc/SDAccel-Examples/internal/cli/config"
	"github.com/kameshwarc/SDAccel-Examples/internal/cli/output"
	"github.com/kameshwarc/SDAccel-Examples/internal/generate"
	"github.com/kameshwarc/SDAccel-Examples/internal/libs"
	"github.com/kameshwarc/SDAccel-Examples/pkg/core"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration, or defaults when none was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

// descriptionPath returns the description named on the command line or the configured default.
func (c *CommandContext) descriptionPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return c.Cfg.Description
}

// Registry returns the built-in libraries plus those of the configured registry file.
func (c *CommandContext) Registry() (*libs.Registry, error) {
	registry := libs.Builtin()
	if c.Cfg.LibsRegistry != "" {
		if err := registry.LoadFile(c.Cfg.LibsRegistry); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// GenerateOptions translates the configuration into pipeline options.
func (c *CommandContext) GenerateOptions(path string) (generate.Options, error) {
	layout, err := core.ParseLayout(c.Cfg.Layout)
	if err != nil {
		return generate.Options{}, err
	}
	registry, err := c.Registry()
	if err != nil {
		return generate.Options{}, err
	}
	return generate.Options{
		DescriptionPath: path,
		OutputDir:       c.Cfg.OutputDir,
		Makefile:        c.Cfg.Makefile,
		IniFile:         c.Cfg.IniFile,
		DescriptionName: c.Cfg.Description,
		Layout:          layout,
		CommonRepo:      c.Cfg.CommonRepo,
		DefaultDevice:   c.Cfg.DefaultDevice,
		Registry:        registry,
		Logger:          c.Logger,
	}, nil
}

// conflictTargets lists the targets of a run's rule conflicts.
func conflictTargets(res *generate.Result) []string {
	var out []string
	for _, c := range res.Rules.Conflicts {
		out = append(out, c.Target)
	}
	return out
}

func xclbinTargets(res *generate.Result) []string {
	var out []string
	for _, bin := range res.Plan.Bins {
		out = append(out, bin.Target())
	}
	return out
}

func pluralize(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

package config

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "makegen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "description.json", cfg.Description)
	assert.Equal(t, "../../../", cfg.CommonRepo)
	assert.Equal(t, "xilinx_kcu1500_dynamic_5_0", cfg.DefaultDevice)
	assert.Equal(t, "legacy", cfg.Layout)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "Makefile", cfg.Makefile)
	assert.Equal(t, "sdaccel.ini", cfg.IniFile)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_FileFoundUpward(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	writeConfig(t, root, "layout: per-container\ncommon_repo: ../../\nlibs_registry: libs.yaml\n")
	nested := filepath.Join(root, "getting_started", "vadd")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "per-container", cfg.Layout)
	assert.Equal(t, "../../", cfg.CommonRepo)
	assert.Equal(t, filepath.Join(root, "libs.yaml"), cfg.LibsRegistry)
	assert.Equal(t, filepath.Join(root, "makegen.yaml"), GetConfigFileUsed())
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, t.TempDir(), "default_device: from_file\n")
	t.Setenv("MAKEGEN_DEFAULT_DEVICE", "from_env")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("device", "", "device")
	require.NoError(t, flags.Set("device", "from_flag"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "from_flag", cfg.DefaultDevice, "flag value should override config file and env var")
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, t.TempDir(), "default_device: from_file\njobs: 2\n")
	t.Setenv("MAKEGEN_DEFAULT_DEVICE", "from_env")
	t.Setenv("MAKEGEN_JOBS", "8")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.DefaultDevice, "env var should override config file")
	assert.Equal(t, 8, cfg.Jobs)
}

func TestLoadConfig_FlagNotSetUsesEnv(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, t.TempDir(), "layout: legacy\n")
	t.Setenv("MAKEGEN_LAYOUT", "per-container")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("layout", "", "layout")
	flags.String("output-dir", "", "output directory")
	require.NoError(t, flags.Set("output-dir", "build"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "per-container", cfg.Layout, "env var should be used when flag is not set")
	assert.Equal(t, "build", cfg.OutputDir, "kebab-case flags map to snake_case keys")
}

func TestLoadConfig_Errors(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"), nil)
	assert.Error(t, err)

	bad := writeConfig(t, dir, "layout: sideways\n")
	_, err = LoadConfig(bad, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown layout")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad layout", func(c *Config) { c.Layout = "flat" }, "unknown layout"},
		{"bad output", func(c *Config) { c.OutputFormat = "yaml" }, "unknown output format"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "unknown log level"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "unknown log format"},
		{"zero jobs", func(c *Config) { c.Jobs = 0 }, "jobs must be at least 1"},
		{"no makefile", func(c *Config) { c.Makefile = "" }, "makefile name is required"},
		{"no ini", func(c *Config) { c.IniFile = "" }, "ini_file name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelWarn},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLogLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLogLevel("trace")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	cfg := Default()
	cfg.LogFormat = "json"
	cfg.Verbose = true

	logger, err := NewLogger(buf, cfg)
	require.NoError(t, err)
	logger.Info("hello", slog.String("k", "v"))
	logger.Debug("hidden")

	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.NotContains(t, buf.String(), "hidden")
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := slog.New(slog.DiscardHandler)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

// Package generate runs the full pipeline from a description file to the
// Makefile and sdaccel.ini written next to it.
package generate

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/kameshwarc/SDAccel-Examples/internal/description"
	"github.com/kameshwarc/SDAccel-Examples/internal/emitter"
	"github.com/kameshwarc/SDAccel-Examples/internal/libs"
	"github.com/kameshwarc/SDAccel-Examples/internal/resolver"
	"github.com/kameshwarc/SDAccel-Examples/internal/rules"
	"github.com/kameshwarc/SDAccel-Examples/pkg/core"
)

// Default output file names.
const (
	DefaultMakefile        = "Makefile"
	DefaultIniFile         = "sdaccel.ini"
	DefaultDescriptionName = "description.json"
)

// Options configures a generation run.
type Options struct {
	// DescriptionPath is the description file to generate from.
	DescriptionPath string
	// OutputDir receives the generated files. Empty means the directory of the description.
	OutputDir string
	Makefile  string
	IniFile   string
	// DescriptionName is the file name Batch looks for.
	DescriptionName string

	Layout        core.Layout
	CommonRepo    string
	DefaultDevice string
	Registry      *libs.Registry

	// DryRun renders the files without writing them.
	DryRun bool
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Makefile == "" {
		o.Makefile = DefaultMakefile
	}
	if o.IniFile == "" {
		o.IniFile = DefaultIniFile
	}
	if o.DescriptionName == "" {
		o.DescriptionName = DefaultDescriptionName
	}
	if o.Layout == "" {
		o.Layout = core.LayoutLegacy
	}
	if o.CommonRepo == "" {
		o.CommonRepo = emitter.DefaultCommonRepo
	}
	if o.DefaultDevice == "" {
		o.DefaultDevice = core.DefaultDevice
	}
	if o.Registry == nil {
		o.Registry = libs.Builtin()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Result is the outcome of one generation run.
type Result struct {
	DescriptionPath string
	Description     *core.Description
	Plan            *resolver.Plan
	Rules           *rules.RuleSet

	Makefile     []byte
	INI          []byte
	MakefilePath string
	INIPath      string
	// Written is false for dry runs.
	Written bool
}

// Run loads the description, resolves it and writes the generated files.
// Nothing is written unless every stage succeeds, and each file is replaced
// atomically.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	if opts.DescriptionPath == "" {
		return nil, fmt.Errorf("description path is required")
	}
	log := opts.Logger.With(slog.String("description", opts.DescriptionPath))

	d, err := description.Load(opts.DescriptionPath)
	if err != nil {
		return nil, err
	}
	log.Debug("description loaded",
		slog.String("example", d.Example),
		slog.String("mode", d.Mode.String()),
		slog.Int("containers", len(d.Containers)),
		slog.Int("accelerators", len(d.AllAccelerators())))

	plan, err := resolver.Resolve(d, opts.Layout)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve containers: %w", err)
	}
	log.Debug("containers resolved",
		slog.String("layout", string(plan.Layout)),
		slog.Bool("per_container_buckets", plan.PerContainer),
		slog.Int("xclbins", len(plan.Bins)))

	rs, err := rules.Build(plan)
	if err != nil {
		return nil, fmt.Errorf("failed to build kernel rules: %w", err)
	}
	for _, c := range rs.Conflicts {
		log.Warn("object target defined more than once, the last rule wins",
			slog.String("target", c.Target))
	}

	descDir := filepath.Dir(opts.DescriptionPath)
	registry := opts.Registry.WithSearchRoot(filepath.Join(descDir, opts.CommonRepo))
	libraries, err := registry.Resolve(d.Libs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.DescriptionPath, err)
	}

	mk, err := emitter.Emit(d, plan, rs, libraries, emitter.Options{
		CommonRepo:      opts.CommonRepo,
		DefaultDevice:   opts.DefaultDevice,
		DescriptionFile: filepath.Base(opts.DescriptionPath),
		Logger:          log,
	})
	if err != nil {
		return nil, err
	}

	outDir := opts.OutputDir
	if outDir == "" {
		outDir = descDir
	}
	res := &Result{
		DescriptionPath: opts.DescriptionPath,
		Description:     d,
		Plan:            plan,
		Rules:           rs,
		Makefile:        mk,
		INI:             emitter.ProfileINI(),
		MakefilePath:    filepath.Join(outDir, opts.Makefile),
		INIPath:         filepath.Join(outDir, opts.IniFile),
	}
	if opts.DryRun {
		return res, nil
	}

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := atomic.WriteFile(res.MakefilePath, bytes.NewReader(res.Makefile)); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", res.MakefilePath, err)
	}
	log.Info("generating sdaccel.ini", slog.String("example", d.Example))
	if err := atomic.WriteFile(res.INIPath, bytes.NewReader(res.INI)); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", res.INIPath, err)
	}
	res.Written = true
	log.Info("generated", slog.String("makefile", res.MakefilePath), slog.String("ini", res.INIPath))

	return res, nil
}

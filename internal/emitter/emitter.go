// Package emitter renders a resolved description as a Makefile.
//
// The Makefile is assembled in memory, section by section, in a fixed order.
// Later sections reference variables defined by earlier ones, so the order of
// the sections slice must not change.
package emitter

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kameshwarc/SDAccel-Examples/internal/libs"
	"github.com/kameshwarc/SDAccel-Examples/internal/resolver"
	"github.com/kameshwarc/SDAccel-Examples/internal/rules"
	"github.com/kameshwarc/SDAccel-Examples/pkg/core"
)

// DefaultCommonRepo is the path from an example directory to the repository root.
const DefaultCommonRepo = "../../../"

// DefaultDescriptionFile is the file the README rule is generated from.
const DefaultDescriptionFile = "description.json"

// Options tunes the emitted text.
type Options struct {
	// CommonRepo is assigned to COMMON_REPO.
	CommonRepo string
	// DefaultDevice is used when the description names no board.
	DefaultDevice string
	// DescriptionFile is the prerequisite of the README.md rule.
	DescriptionFile string
	Logger          *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.CommonRepo == "" {
		o.CommonRepo = DefaultCommonRepo
	}
	if o.DefaultDevice == "" {
		o.DefaultDevice = core.DefaultDevice
	}
	if o.DescriptionFile == "" {
		o.DescriptionFile = DefaultDescriptionFile
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Input is everything a Makefile is rendered from.
type Input struct {
	Description *core.Description
	Plan        *resolver.Plan
	Rules       *rules.RuleSet
	Libraries   []libs.Library
}

// section writes one part of the Makefile.
type section struct {
	name  string
	write func(w *writer, in *Input, opts Options) error
}

// sections lists every Makefile section in emission order.
var sections = []section{
	{"parameters", writeParameters},
	{"host flags", writeHostFlags},
	{"kernel flags", writeKernelFlags},
	{"declarations", writeDeclarations},
	{"libraries", writeLibraries},
	{"phony", writePhony},
	{"kernel rules", writeKernelRules},
	{"host rule", writeHostRule},
	{"check", writeCheck},
	{"clean", writeClean},
	{"help", writeHelp},
	{"docs", writeDocs},
}

// SectionNames returns the names of the Makefile sections in emission order.
func SectionNames() []string {
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.name
	}
	return names
}

// Emit renders the Makefile for a resolved description.
func Emit(d *core.Description, plan *resolver.Plan, rs *rules.RuleSet, libraries []libs.Library, opts Options) ([]byte, error) {
	if d == nil || plan == nil || rs == nil {
		return nil, errors.New("emit: description, plan and rules are required")
	}
	opts = opts.withDefaults()
	in := &Input{Description: d, Plan: plan, Rules: rs, Libraries: libraries}

	device := d.Device(opts.DefaultDevice)
	if d.Unsupported(device) {
		opts.Logger.Warn("selected device is listed as unsupported",
			slog.String("example", d.Example),
			slog.String("device", device))
	}

	w := &writer{}
	for _, s := range sections {
		if err := s.write(w, in, opts); err != nil {
			return nil, fmt.Errorf("failed to emit %s: %w", s.name, err)
		}
	}
	return w.Bytes(), nil
}

// ProfileINI returns the contents of sdaccel.ini.
func ProfileINI() []byte {
	return []byte("[Debug]\nprofile=true\n")
}

// writer accumulates Makefile text.
type writer struct {
	bytes.Buffer
}

// line writes its arguments followed by a newline.
func (w *writer) line(parts ...string) {
	for _, p := range parts {
		w.WriteString(p)
	}
	w.WriteByte('\n')
}

func (w *writer) linef(format string, args ...any) {
	fmt.Fprintf(w, format, args...)
	w.WriteByte('\n')
}

func (w *writer) blank() {
	w.WriteByte('\n')
}

// vars joins $(name) references with a leading space each.
func vars(names []string) string {
	var sb strings.Builder
	for _, n := range names {
		sb.WriteString(" $(" + n + ")")
	}
	return sb.String()
}

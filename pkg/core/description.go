package core

import "strings"

// DefaultDevice is the platform selected when a description names no board.
const DefaultDevice = "xilinx_kcu1500_dynamic_5_0"

// Description is a parsed accelerator build description (description.json).
//
// Exactly one of Containers or Accelerators is populated; Mode records which one
// once the description has been loaded.
type Description struct {
	Example      string        `json:"example" yaml:"example"`
	Containers   []Container   `json:"containers" yaml:"containers"`
	Accelerators []Accelerator `json:"accelerators" yaml:"accelerators"`
	Board        []string      `json:"board" yaml:"board"`
	NBoard       []string      `json:"nboard" yaml:"nboard"`
	Compiler     *Compiler     `json:"compiler" yaml:"compiler"`
	Libs         []string      `json:"libs" yaml:"libs"`
	CmdArgs      string        `json:"cmd_args" yaml:"cmd_args"`
	EmCmd        string        `json:"em_cmd" yaml:"em_cmd"`
	Targets      []string      `json:"targets" yaml:"targets"`

	// Mode is resolved by the loader, never decoded.
	Mode Mode `json:"-" yaml:"-"`

	// HasContainers and HasAccelerators track key presence, which is what
	// selects the mode (an empty list still counts as present).
	HasContainers   bool `json:"-" yaml:"-"`
	HasAccelerators bool `json:"-" yaml:"-"`
}

// Compiler holds extra host compiler options.
type Compiler struct {
	Options string `json:"options" yaml:"options"`
}

// Container is a named bundle of accelerators linked into one xclbin.
type Container struct {
	Name         string        `json:"name" yaml:"name"`
	Accelerators []Accelerator `json:"accelerators" yaml:"accelerators"`
	LDCLFlags    string        `json:"ldclflags" yaml:"ldclflags"`
}

// Accelerator is one kernel function and the source file defining it.
type Accelerator struct {
	Name           string `json:"name" yaml:"name"`
	Location       string `json:"location" yaml:"location"`
	MaxMemoryPorts bool   `json:"-" yaml:"-"`
	CLFlags        string `json:"clflags" yaml:"clflags"`
}

// CLFlag splits CLFlags into its flag and value tokens.
func (a Accelerator) CLFlag() (flag, value string, ok bool) {
	fields := strings.Fields(a.CLFlags)
	if len(fields) != 2 {
		return "", "", false
	}
	return fields[0], fields[1], true
}

// AllAccelerators returns every accelerator in declaration order regardless of mode.
func (d *Description) AllAccelerators() []Accelerator {
	switch d.Mode {
	case ModeContainers:
		var out []Accelerator
		for _, c := range d.Containers {
			out = append(out, c.Accelerators...)
		}
		return out
	case ModeFlat:
		return d.Accelerators
	default:
		return nil
	}
}

// Device returns the platform named by the description, or fallback.
func (d *Description) Device(fallback string) string {
	if len(d.Board) > 0 && d.Board[0] != "" {
		return d.Board[0]
	}
	if fallback == "" {
		return DefaultDevice
	}
	return fallback
}

// Unsupported reports whether device appears in the description's nboard list.
func (d *Description) Unsupported(device string) bool {
	for _, b := range d.NBoard {
		if b == device {
			return true
		}
	}
	return false
}

// CmdArgList splits cmd_args on single spaces, matching how the arguments are
// forwarded on the command line.
func (d *Description) CmdArgList() []string {
	if d.CmdArgs == "" {
		return nil
	}
	return strings.Split(d.CmdArgs, " ")
}

// EmulationArgs returns the em_cmd tokens that follow the executable.
func (d *Description) EmulationArgs() []string {
	if d.EmCmd == "" {
		return nil
	}
	args := strings.Split(d.EmCmd, " ")
	return args[1:]
}

// UsesDataDir reports whether any cmd_args token references a data directory.
func (d *Description) UsesDataDir() bool {
	for _, arg := range d.CmdArgList() {
		if strings.Contains(arg, "/data") {
			return true
		}
	}
	return false
}

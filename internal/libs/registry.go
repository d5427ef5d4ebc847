// Package libs resolves the library names of a description to the make
// fragments and exported variables they contribute.
package libs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownLibrary is returned when a description names a library the registry cannot resolve.
var ErrUnknownLibrary = errors.New("unknown library")

// Library describes the make fragment of a host-side library.
type Library struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	// Fragment is the make file included for the library.
	Fragment string `yaml:"fragment,omitempty"`
	// CXXFlagsVar, LDFlagsVar and SourcesVar name the variables the fragment exports.
	CXXFlagsVar string `yaml:"cxxflags_var,omitempty"`
	LDFlagsVar  string `yaml:"ldflags_var,omitempty"`
	SourcesVar  string `yaml:"srcs_var,omitempty"`
}

// withDefaults fills the conventional fragment path and variable names.
func (l Library) withDefaults() Library {
	if l.Fragment == "" {
		l.Fragment = "$(ABS_COMMON_REPO)/libs/" + l.Name + "/" + l.Name + ".mk"
	}
	if l.CXXFlagsVar == "" {
		l.CXXFlagsVar = l.Name + "_CXXFLAGS"
	}
	if l.LDFlagsVar == "" {
		l.LDFlagsVar = l.Name + "_LDFLAGS"
	}
	if l.SourcesVar == "" {
		l.SourcesVar = l.Name + "_SRCS"
	}
	return l
}

// Registry maps library names to their fragments.
type Registry struct {
	libs map[string]Library
	// searchRoot is the common repository on disk; libraries found under
	// <searchRoot>/libs/<name>/<name>.mk resolve without registration.
	searchRoot string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{libs: make(map[string]Library)}
}

// Builtin returns a registry holding the libraries shipped with the common repository.
func Builtin() *Registry {
	r := NewRegistry()
	for _, lib := range []Library{
		{Name: "opencl", Description: "OpenCL runtime headers and link flags"},
		{Name: "xcl2", Description: "Xilinx OpenCL helper API (C++)"},
		{Name: "xcl", Description: "Xilinx OpenCL helper API (C)"},
		{Name: "oclHelper", Description: "OpenCL setup helpers"},
		{Name: "logger", Description: "Logging utility"},
		{Name: "cmdparser", Description: "Command line parser"},
		{Name: "simplebmp", Description: "Minimal BMP reader and writer"},
		{Name: "bitmap", Description: "Bitmap image support"},
	} {
		_ = r.Register(lib)
	}
	return r
}

// WithSearchRoot returns a view of the registry that also discovers
// unregistered libraries under dir. The view shares registrations with r.
func (r *Registry) WithSearchRoot(dir string) *Registry {
	return &Registry{libs: r.libs, searchRoot: dir}
}

// Register adds or replaces a library.
func (r *Registry) Register(lib Library) error {
	lib.Name = strings.TrimSpace(lib.Name)
	if lib.Name == "" {
		return fmt.Errorf("library name is required")
	}
	if strings.ContainsAny(lib.Name, " \t$()") {
		return fmt.Errorf("library name %q is not a valid make identifier", lib.Name)
	}
	r.libs[lib.Name] = lib.withDefaults()
	return nil
}

// registryFile is the on-disk layout of a library registry.
type registryFile struct {
	Libraries []Library `yaml:"libraries"`
}

// LoadFile registers every library listed in a YAML registry file.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read library registry: %w", err)
	}
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse library registry %s: %w", path, err)
	}
	for i, lib := range file.Libraries {
		if err := r.Register(lib); err != nil {
			return fmt.Errorf("%s: libraries[%d]: %w", path, i, err)
		}
	}
	return nil
}

// Lookup returns the library registered under name, falling back to on-disk
// discovery when a search root is set.
func (r *Registry) Lookup(name string) (Library, bool) {
	if lib, ok := r.libs[name]; ok {
		return lib, true
	}
	if r.searchRoot == "" {
		return Library{}, false
	}
	fragment := filepath.Join(r.searchRoot, "libs", name, name+".mk")
	if _, err := os.Stat(fragment); err != nil {
		return Library{}, false
	}
	return Library{Name: name, Description: "discovered at " + fragment}.withDefaults(), true
}

// Resolve maps names to libraries, preserving order and duplicates. Every
// unknown name is reported in a single error.
func (r *Registry) Resolve(names []string) ([]Library, error) {
	out := make([]Library, 0, len(names))
	var unknown []string
	for _, name := range names {
		lib, ok := r.Lookup(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		out = append(out, lib)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLibrary, strings.Join(unknown, ", "))
	}
	return out, nil
}

// All returns the registered libraries sorted by name.
func (r *Registry) All() []Library {
	out := make([]Library, 0, len(r.libs))
	for _, lib := range r.libs {
		out = append(out, lib)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

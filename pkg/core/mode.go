package core

import "fmt"

// Mode selects how accelerators are grouped in a description.
type Mode int

const (
	// ModeEmpty means neither containers nor accelerators were declared.
	ModeEmpty Mode = iota
	// ModeContainers groups accelerators under named containers.
	ModeContainers
	// ModeFlat is a single flat accelerator list.
	ModeFlat
)

func (m Mode) String() string {
	switch m {
	case ModeContainers:
		return "containers"
	case ModeFlat:
		return "accelerators"
	default:
		return "empty"
	}
}

// Layout selects how compiled objects are named and bucketed.
type Layout string

const (
	// LayoutLegacy reproduces the historical generator output: objects are named
	// after their container and per-container buckets only appear when the
	// description holds exactly two named, non-empty containers.
	LayoutLegacy Layout = "legacy"
	// LayoutPerContainer always buckets per container and names each object
	// after its accelerator.
	LayoutPerContainer Layout = "per-container"
)

// ParseLayout converts a configuration value into a Layout.
func ParseLayout(s string) (Layout, error) {
	switch Layout(s) {
	case "", LayoutLegacy:
		return LayoutLegacy, nil
	case LayoutPerContainer:
		return LayoutPerContainer, nil
	default:
		return "", fmt.Errorf("unknown layout %q (want %s or %s)", s, LayoutLegacy, LayoutPerContainer)
	}
}

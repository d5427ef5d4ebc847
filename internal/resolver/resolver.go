// Package resolver decides how a description's accelerators are grouped into
// xclbin artifacts and which aggregation bucket collects each compiled object.
package resolver

import (
	"fmt"
	"path"
	"strings"

	"github.com/kameshwarc/SDAccel-Examples/pkg/core"
)

// SharedBucket collects every object when no per-container bucket applies.
const SharedBucket = "BINARY_CONTAINER_1_OBJS"

// Target name fragments shared by declarations and rules.
const (
	xclbinDir = "$(XCLBIN)/"
	suffix    = ".$(TARGET).$(DSA)"
)

// Kernel is one accelerator together with the object file it compiles to.
type Kernel struct {
	core.Accelerator
	// Object is the basename of the compiled object, without directory or suffix.
	Object string
}

// ObjectTarget is the make target of the kernel's compiled object.
func (k Kernel) ObjectTarget() string {
	return ObjectTarget(k.Object)
}

// Bin is one xclbin artifact and the kernels linked into it.
type Bin struct {
	// Name is the artifact basename.
	Name string
	// Bucket is the make variable aggregating the bin's objects.
	Bucket string
	// Kernels are the accelerators linked into the bin, in declaration order.
	Kernels []Kernel
	// LinkFlags are extra container-level linker flags.
	LinkFlags string
}

// Target is the make target of the bin's xclbin.
func (b Bin) Target() string {
	return XclbinTarget(b.Name)
}

// Plan is the resolved grouping of a description.
type Plan struct {
	Mode   core.Mode
	Layout core.Layout
	// PerContainer is true when each bin has its own bucket.
	PerContainer bool
	Bins         []Bin
}

// Kernels returns every kernel of the plan in declaration order.
func (p *Plan) Kernels() []Kernel {
	var out []Kernel
	for _, b := range p.Bins {
		out = append(out, b.Kernels...)
	}
	return out
}

// Buckets returns the distinct bucket variables in first-use order.
func (p *Plan) Buckets() []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range p.Bins {
		if !seen[b.Bucket] {
			seen[b.Bucket] = true
			out = append(out, b.Bucket)
		}
	}
	return out
}

// XclbinTarget returns the make target of an xclbin artifact.
func XclbinTarget(name string) string {
	return xclbinDir + name + suffix + ".xclbin"
}

// ObjectTarget returns the make target of a compiled kernel object.
func ObjectTarget(name string) string {
	return xclbinDir + name + suffix + ".xo"
}

// ContainerBucket returns the per-container bucket variable for a container.
func ContainerBucket(container string) string {
	return "BINARY_CONTAINER_" + container + "_OBJS"
}

// Resolve groups the accelerators of d into bins.
func Resolve(d *core.Description, layout core.Layout) (*Plan, error) {
	plan := &Plan{Mode: d.Mode, Layout: layout}

	switch d.Mode {
	case core.ModeContainers:
		plan.PerContainer = usePerContainerBuckets(d.Containers, layout)
		for _, c := range d.Containers {
			plan.Bins = append(plan.Bins, containerBin(c, plan.PerContainer, layout))
		}
	case core.ModeFlat:
		if len(d.Accelerators) == 0 {
			return nil, fmt.Errorf("flat description has no accelerators")
		}
		bin := Bin{
			Name:   FlatBinName(d.Accelerators[0].Location),
			Bucket: SharedBucket,
		}
		for _, acc := range d.Accelerators {
			bin.Kernels = append(bin.Kernels, Kernel{Accelerator: acc, Object: acc.Name})
		}
		plan.Bins = []Bin{bin}
	default:
		return nil, fmt.Errorf("cannot resolve a description in %s mode", d.Mode)
	}

	return plan, nil
}

// usePerContainerBuckets evaluates the bucket scheme once for the whole
// description. Under the legacy layout the counts are global: per-container
// buckets are used only when exactly two containers are named and exactly two
// have accelerators.
func usePerContainerBuckets(containers []core.Container, layout core.Layout) bool {
	if layout == core.LayoutPerContainer {
		return true
	}
	accCnt, binCnt := 0, 0
	for _, c := range containers {
		if len(c.Accelerators) > 0 {
			accCnt++
		}
		if c.Name != "" {
			binCnt++
		}
	}
	return accCnt == 2 && binCnt == 2
}

func containerBin(c core.Container, perContainer bool, layout core.Layout) Bin {
	bin := Bin{
		Name:      c.Name,
		Bucket:    SharedBucket,
		LinkFlags: c.LDCLFlags,
	}
	if perContainer {
		bin.Bucket = ContainerBucket(c.Name)
	}
	for _, acc := range c.Accelerators {
		object := c.Name
		if layout == core.LayoutPerContainer {
			object = acc.Name
		}
		bin.Kernels = append(bin.Kernels, Kernel{Accelerator: acc, Object: object})
	}
	return bin
}

// FlatBinName derives the xclbin basename from a kernel source location by
// dropping the directory and everything from the first dot of the file name.
func FlatBinName(location string) string {
	base := path.Base(strings.ReplaceAll(location, "\\", "/"))
	name, _, _ := strings.Cut(base, ".")
	return name
}

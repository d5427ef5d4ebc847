package description

import (
	"fmt"
	"strings"

	"github.com/kameshwarc/SDAccel-Examples/pkg/core"
)

// Validate checks the required fields of a decoded description. Every problem
// is collected into a single *ValidationError.
func Validate(d *core.Description) error {
	verr := &ValidationError{}

	switch {
	case d.HasContainers && d.HasAccelerators:
		verr.addErr("", ErrBothModes)
	case d.Mode == core.ModeEmpty:
		verr.addErr("", ErrNoMode)
	case d.Mode == core.ModeContainers:
		if len(d.Containers) == 0 {
			verr.add("containers", "must declare at least one container")
		}
		for i, c := range d.Containers {
			path := fmt.Sprintf("containers[%d]", i)
			if strings.TrimSpace(c.Name) == "" {
				verr.add(path+".name", "is required")
			}
			for j, acc := range c.Accelerators {
				validateAccelerator(verr, fmt.Sprintf("%s.accelerators[%d]", path, j), acc)
			}
		}
	case d.Mode == core.ModeFlat:
		if len(d.Accelerators) == 0 {
			verr.add("accelerators", "must declare at least one accelerator")
		}
		for i, acc := range d.Accelerators {
			validateAccelerator(verr, fmt.Sprintf("accelerators[%d]", i), acc)
		}
	}

	for i, lib := range d.Libs {
		if strings.TrimSpace(lib) == "" {
			verr.add(fmt.Sprintf("libs[%d]", i), "library name is empty")
		}
	}

	if len(verr.Issues) > 0 {
		return verr
	}
	return nil
}

func validateAccelerator(verr *ValidationError, path string, acc core.Accelerator) {
	if strings.TrimSpace(acc.Name) == "" {
		verr.add(path+".name", "is required")
	}
	if strings.TrimSpace(acc.Location) == "" {
		verr.add(path+".location", "is required")
	}
	if acc.CLFlags != "" {
		if _, _, ok := acc.CLFlag(); !ok {
			verr.add(path+".clflags", "must be exactly one flag and one value, got %q", acc.CLFlags)
		}
	}
}

package description

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoMode is reported when a description declares neither containers nor accelerators.
	ErrNoMode = errors.New("description declares neither containers nor accelerators")
	// ErrBothModes is reported when a description declares both containers and accelerators.
	ErrBothModes = errors.New("description declares both containers and accelerators")
)

// Issue is a single validation problem located by a JSON-path-like key.
type Issue struct {
	Path    string
	Message string
	Err     error
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// ValidationError collects every problem found in a description so they can
// be reported together before anything is emitted.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("invalid description (%d problem(s)): %s", len(e.Issues), strings.Join(parts, "; "))
}

// Unwrap exposes the sentinel errors attached to individual issues.
func (e *ValidationError) Unwrap() []error {
	var errs []error
	for _, issue := range e.Issues {
		if issue.Err != nil {
			errs = append(errs, issue.Err)
		}
	}
	return errs
}

func (e *ValidationError) add(path, format string, args ...any) {
	e.Issues = append(e.Issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (e *ValidationError) addErr(path string, err error) {
	e.Issues = append(e.Issues, Issue{Path: path, Message: err.Error(), Err: err})
}

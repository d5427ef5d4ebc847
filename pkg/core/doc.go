// Package core defines the shared language of the makegen system.
//
// This package contains:
//   - The build description (Description, Container, Accelerator)
//   - The description mode, resolved once at load time (Mode)
//   - The object naming and bucketing scheme (Layout)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kameshwarc/SDAccel-Examples/internal/emitter"
	"github.com/kameshwarc/SDAccel-Examples/internal/libs"
	"github.com/kameshwarc/SDAccel-Examples/pkg/core"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the makegen version together with the built-in defaults used
when neither makegen.yaml, MAKEGEN_ variables nor flags override them.`,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "makegen v%s\n", version)
			_, _ = fmt.Fprintln(out, "Makefile generator for SDAccel accelerator examples")
			_, _ = fmt.Fprintf(out, "  layout:       %s (alternative: %s)\n", core.LayoutLegacy, core.LayoutPerContainer)
			_, _ = fmt.Fprintf(out, "  device:       %s\n", core.DefaultDevice)
			_, _ = fmt.Fprintf(out, "  common repo:  %s\n", emitter.DefaultCommonRepo)
			_, _ = fmt.Fprintf(out, "  libraries:    %d built-in\n", len(libs.Builtin().All()))
		},
	}
}

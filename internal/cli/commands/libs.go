package commands

import (
	"github.com/spf13/cobra"

	"github.com/kameshwarc/SDAccel-Examples/internal/cli/output"
	"github.com/kameshwarc/SDAccel-Examples/internal/libs"
)

// NewLibsCommand creates the libs command.
func NewLibsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "libs",
		Short: "List the libraries a description can use",
		Long: `List the registered host libraries: the built-in libraries of the common
repository plus those of the configured libs_registry file. Libraries found on
disk under <common_repo>/libs/<name>/<name>.mk are resolved at generation time
and are not listed here.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLibs(NewCommandContext(cmd))
		},
	}
}

func runLibs(cmdCtx *CommandContext) error {
	registry, err := cmdCtx.Registry()
	if err != nil {
		return err
	}
	all := registry.All()

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		infos := make([]output.LibraryInfo, 0, len(all))
		for _, lib := range all {
			infos = append(infos, libraryInfo(lib))
		}
		return r.JSON(infos)
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Println(output.FormatHeader(1, "Libraries"))
		r.Println("")
	} else {
		r.Header(1, "Libraries")
	}
	rows := make([][]string, 0, len(all))
	for _, lib := range all {
		rows = append(rows, []string{lib.Name, lib.Fragment, lib.Description})
	}
	r.Table([]string{"Name", "Fragment", "Description"}, rows)
	return nil
}

func libraryInfo(lib libs.Library) output.LibraryInfo {
	return output.LibraryInfo{
		Name:        lib.Name,
		Description: lib.Description,
		Fragment:    lib.Fragment,
		CXXFlags:    lib.CXXFlagsVar,
		LDFlags:     lib.LDFlagsVar,
		Sources:     lib.SourcesVar,
	}
}

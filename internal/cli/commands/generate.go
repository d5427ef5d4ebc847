package commands

import (
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kameshwarc/SDAccel-Examples/internal/cli/output"
	"github.com/kameshwarc/SDAccel-Examples/internal/generate"
)

// NewGenerateCommand creates the generate command.
func NewGenerateCommand() *cobra.Command {
	var watch, dryRun bool

	cmd := &cobra.Command{
		Use:   "generate [description]",
		Short: "Generate the Makefile and sdaccel.ini",
		Long: `Generate a Makefile and sdaccel.ini from an accelerator description.

The description defaults to ./description.json. Both files are rendered in
memory and replaced atomically, so a failing description never leaves a
truncated Makefile behind.`,
		Example: `  # Generate from ./description.json
  makegen generate

  # Preview without writing anything
  makegen generate --dry-run

  # Name each object after its kernel and bucket per container
  makegen generate --layout per-container

  # Regenerate whenever the description changes
  makegen generate --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			path := cmdCtx.descriptionPath(args)
			if watch {
				return runWatch(cmd, cmdCtx, path)
			}
			return RunGenerate(cmd, cmdCtx, path, dryRun)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Regenerate when the description changes")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render the Makefile without writing files")
	cmd.Flags().String("output-dir", "", "Directory receiving the generated files (default: current directory)")
	cmd.Flags().String("makefile", "", "Name of the generated Makefile")
	cmd.Flags().String("ini-file", "", "Name of the generated ini file")
	cmd.MarkFlagsMutuallyExclusive("watch", "dry-run")

	return cmd
}

// RunGenerate generates once and renders the result.
func RunGenerate(cmd *cobra.Command, cmdCtx *CommandContext, path string, dryRun bool) error {
	opts, err := cmdCtx.GenerateOptions(path)
	if err != nil {
		return err
	}
	opts.DryRun = dryRun

	res, err := generate.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	return renderGenerate(cmdCtx.Renderer, res)
}

func runWatch(cmd *cobra.Command, cmdCtx *CommandContext, path string) error {
	opts, err := cmdCtx.GenerateOptions(path)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	r := cmdCtx.Renderer
	r.Println(r.Styles().Muted.Render("Watching " + path + " (Ctrl+C to stop)"))
	return generate.Watch(ctx, opts, func(res *generate.Result, err error) {
		if err != nil {
			r.Error(err.Error())
			return
		}
		_ = renderGenerate(r, res)
	})
}

func generateOutput(res *generate.Result) output.GenerateOutput {
	out := output.GenerateOutput{
		Description: res.DescriptionPath,
		Example:     res.Description.Example,
		Mode:        res.Description.Mode.String(),
		Layout:      string(res.Plan.Layout),
		Makefile:    res.MakefilePath,
		Ini:         res.INIPath,
		Written:     res.Written,
		Xclbins:     xclbinTargets(res),
		Conflicts:   conflictTargets(res),
	}
	if !res.Written {
		out.Content = string(res.Makefile)
	}
	return out
}

func renderGenerate(r *output.Renderer, res *generate.Result) error {
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(generateOutput(res))
	case output.ModeMarkdown:
		return generateMarkdown(r, res)
	default:
		return generateText(r, res)
	}
}

func generateText(r *output.Renderer, res *generate.Result) error {
	styles := r.Styles()
	conflicts := conflictTargets(res)

	if !res.Written {
		r.Printf("%s", res.Makefile)
		r.Println(styles.Muted.Render("dry run: nothing written"))
	} else {
		r.Success("Generated " + res.MakefilePath)
		r.StatusLine(res.MakefilePath, "success", pluralize(len(res.Plan.Bins), "xclbin"))
		r.StatusLine(res.INIPath, "success", "")
	}
	for _, target := range conflicts {
		r.Warning("object target " + target + " is defined more than once; the last rule wins")
	}
	return nil
}

func generateMarkdown(r *output.Renderer, res *generate.Result) error {
	r.Println(output.FormatHeader(1, "Generate"))
	r.Println("")
	r.Println(output.FormatKeyValue("Description", res.DescriptionPath))
	r.Println(output.FormatKeyValue("Mode", res.Description.Mode.String()))
	r.Println(output.FormatKeyValue("Layout", string(res.Plan.Layout)))
	r.Println(output.FormatKeyValue("Xclbins", strings.Join(xclbinTargets(res), ", ")))
	if conflicts := conflictTargets(res); len(conflicts) > 0 {
		r.Println(output.FormatKeyValue("Redefined targets", strings.Join(conflicts, ", ")))
	}
	r.Println("")
	if !res.Written {
		r.Println(output.FormatCodeBlock("make", string(res.Makefile)))
		return nil
	}
	r.Println(output.FormatKeyValue("Makefile", res.MakefilePath))
	r.Println(output.FormatKeyValue("Ini", res.INIPath))
	return nil
}

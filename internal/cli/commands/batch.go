package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kameshwarc/SDAccel-Examples/internal/cli/output"
	"github.com/kameshwarc/SDAccel-Examples/internal/generate"
)

// NewBatchCommand creates the batch command.
func NewBatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <root>",
		Short: "Generate every description under a directory tree",
		Long: `Find every description file under root and generate its Makefile and
sdaccel.ini next to it. Descriptions are processed concurrently; a failing
description is reported without stopping the others.`,
		Example: `  # Regenerate every example in the repository
  makegen batch .

  # Limit concurrency
  makegen batch getting_started --jobs 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, NewCommandContext(cmd), args[0])
		},
	}

	cmd.Flags().IntP("jobs", "j", 0, "Number of descriptions generated concurrently")

	return cmd
}

func runBatch(cmd *cobra.Command, cmdCtx *CommandContext, root string) error {
	opts, err := cmdCtx.GenerateOptions("")
	if err != nil {
		return err
	}

	paths, err := generate.Find(root, opts.DescriptionName)
	if err != nil {
		return err
	}
	results, runErr := generate.Batch(cmd.Context(), root, opts, cmdCtx.Cfg.Jobs)

	out := output.BatchOutput{Root: root}
	for i, path := range paths {
		entry := output.BatchEntry{Description: path, Status: "failed"}
		if i < len(results) && results[i] != nil {
			entry.Status = "success"
			entry.Makefile = results[i].MakefilePath
			out.Generated++
		} else {
			out.Failed++
		}
		out.Entries = append(out.Entries, entry)
	}
	if runErr != nil {
		out.Errors = splitJoined(runErr)
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(out); err != nil {
			return err
		}
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Batch"))
		r.Println("")
		rows := make([][]string, 0, len(out.Entries))
		for _, e := range out.Entries {
			rows = append(rows, []string{e.Description, e.Status})
		}
		r.Table([]string{"Description", "Status"}, rows)
		r.Println("")
		for _, e := range out.Errors {
			r.Println("- " + e)
		}
	default:
		r.Header(1, "Batch")
		for _, e := range out.Entries {
			r.StatusLine(e.Description, e.Status, "")
		}
		for _, e := range out.Errors {
			r.Error(e)
		}
		r.Println(r.Styles().Muted.Render(fmt.Sprintf("Total: %s generated, %d failed",
			pluralize(out.Generated, "description"), out.Failed)))
	}

	if runErr != nil {
		return fmt.Errorf("%d of %d descriptions failed", out.Failed, len(paths))
	}
	return nil
}

// splitJoined flattens an errors.Join result into one message per error.
func splitJoined(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var msgs []string
		for _, e := range joined.Unwrap() {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}

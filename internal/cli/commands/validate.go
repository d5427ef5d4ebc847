package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kameshwarc/SDAccel-Examples/internal/cli/output"
	"github.com/kameshwarc/SDAccel-Examples/internal/description"
	"github.com/kameshwarc/SDAccel-Examples/internal/generate"
)

// errInvalid is returned after the problems of an invalid description have been printed.
var errInvalid = errors.New("description is invalid")

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [description]",
		Short: "Check a description without writing files",
		Long: `Check a description for every problem that would stop generation.

All problems are reported together: missing or conflicting modes, required
fields, malformed clflags, unknown libraries and, under the per-container
layout, conflicting kernel rules. Legacy object-name collisions and an
unsupported default device are reported as warnings.`,
		Example: `  makegen validate
  makegen validate path/to/description.json --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			return runValidate(cmd, cmdCtx, cmdCtx.descriptionPath(args))
		},
	}
}

func runValidate(cmd *cobra.Command, cmdCtx *CommandContext, path string) error {
	opts, err := cmdCtx.GenerateOptions(path)
	if err != nil {
		return err
	}
	opts.DryRun = true

	result := output.ValidateOutput{Description: path, Valid: true}
	res, err := generate.Run(cmd.Context(), opts)
	if err != nil {
		result.Valid = false
		var verr *description.ValidationError
		if errors.As(err, &verr) {
			for _, issue := range verr.Issues {
				result.Issues = append(result.Issues, output.IssueInfo{Path: issue.Path, Message: issue.Message})
			}
		} else {
			result.Issues = append(result.Issues, output.IssueInfo{Message: err.Error()})
		}
	} else {
		result.Mode = res.Description.Mode.String()
		result.Warnings = validationWarnings(res, cmdCtx.Cfg.DefaultDevice)
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(result); err != nil {
			return err
		}
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Validate"))
		r.Println("")
		r.Println(output.FormatKeyValue("Description", path))
		r.Println(output.FormatKeyValue("Valid", fmt.Sprintf("%t", result.Valid)))
		for _, issue := range result.Issues {
			r.Println(output.FormatKeyValue("Problem", issueText(issue)))
		}
		for _, w := range result.Warnings {
			r.Println(output.FormatKeyValue("Warning", w))
		}
	default:
		for _, issue := range result.Issues {
			r.StatusLine(issueText(issue), "failed", "")
		}
		for _, w := range result.Warnings {
			r.Warning(w)
		}
		if result.Valid {
			r.Success(path + " is valid (" + result.Mode + ")")
		}
	}

	if !result.Valid {
		return errInvalid
	}
	return nil
}

func issueText(issue output.IssueInfo) string {
	if issue.Path == "" {
		return issue.Message
	}
	return issue.Path + ": " + issue.Message
}

func validationWarnings(res *generate.Result, fallback string) []string {
	var warnings []string
	d := res.Description
	for _, c := range d.Containers {
		if len(c.Accelerators) == 0 {
			warnings = append(warnings, "container "+c.Name+" has no accelerators")
		}
	}
	for _, target := range conflictTargets(res) {
		warnings = append(warnings, "object target "+target+" is defined more than once; the last rule wins")
	}
	if device := d.Device(fallback); d.Unsupported(device) {
		warnings = append(warnings, "device "+device+" is listed in nboard")
	}
	return warnings
}

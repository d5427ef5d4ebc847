package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kameshwarc/SDAccel-Examples/internal/cli/output"
	"github.com/kameshwarc/SDAccel-Examples/internal/dag"
	"github.com/kameshwarc/SDAccel-Examples/internal/generate"
)

// NewPlanCommand creates the plan command.
func NewPlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan [description]",
		Short: "Show how kernels are grouped into xclbins",
		Long: `Show the resolved build plan of a description.

Lists each xclbin with the aggregation bucket collecting its objects and the
kernels linked into it, then the kernel targets grouped by build level.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  makegen plan
  makegen plan --layout per-container
  makegen plan --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			return runPlan(cmd, cmdCtx, cmdCtx.descriptionPath(args))
		},
	}
}

func runPlan(cmd *cobra.Command, cmdCtx *CommandContext, path string) error {
	opts, err := cmdCtx.GenerateOptions(path)
	if err != nil {
		return err
	}
	opts.DryRun = true

	res, err := generate.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	levels, err := res.Rules.Graph.Levels()
	if err != nil {
		return fmt.Errorf("failed to get build levels: %w", err)
	}

	planOut := planOutput(res, levels)
	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(planOut)
	case output.ModeMarkdown:
		return planMarkdown(r, planOut)
	default:
		return planText(r, planOut)
	}
}

func planOutput(res *generate.Result, levels [][]string) output.PlanOutput {
	out := output.PlanOutput{
		Description:  res.DescriptionPath,
		Mode:         res.Plan.Mode.String(),
		Layout:       string(res.Plan.Layout),
		PerContainer: res.Plan.PerContainer,
		Levels:       levels,
		Targets:      res.Rules.Graph.NodeCount(),
		Edges:        res.Rules.Graph.EdgeCount(),
		Conflicts:    conflictTargets(res),
	}
	for _, bin := range res.Plan.Bins {
		pb := output.PlanBin{
			Name:      bin.Name,
			Target:    bin.Target(),
			Bucket:    bin.Bucket,
			LinkFlags: bin.LinkFlags,
		}
		for _, k := range bin.Kernels {
			pb.Kernels = append(pb.Kernels, k.Name)
			pb.Objects = append(pb.Objects, k.ObjectTarget())
		}
		pb.Sources = sourcesOf(res.Rules.Graph, bin.Target())
		out.Bins = append(out.Bins, pb)
	}
	return out
}

// sourcesOf lists the kernel sources an xclbin is built from.
func sourcesOf(g *dag.Graph, target string) []string {
	var out []string
	for _, name := range g.Upstream(target) {
		if t, ok := g.Target(name); ok && t.Kind == dag.KindSource {
			out = append(out, name)
		}
	}
	return out
}

func planRows(p output.PlanOutput) [][]string {
	rows := make([][]string, 0, len(p.Bins))
	for _, bin := range p.Bins {
		rows = append(rows, []string{
			bin.Name,
			bin.Bucket,
			strings.Join(bin.Kernels, ", "),
			strings.Join(bin.Objects, ", "),
		})
	}
	return rows
}

var planHeader = []string{"Xclbin", "Bucket", "Kernels", "Objects"}

func planText(r *output.Renderer, p output.PlanOutput) error {
	styles := r.Styles()

	r.Header(1, "Build Plan")
	r.Printf("%s %s   %s %s   %s %d targets, %d edges\n",
		styles.Muted.Render("mode:"), p.Mode,
		styles.Muted.Render("layout:"), p.Layout,
		styles.Muted.Render("graph:"), p.Targets, p.Edges)
	r.Table(planHeader, planRows(p))
	r.Println("")

	for i, level := range p.Levels {
		r.Println(styles.Header2.Render(fmt.Sprintf("Level %d:", i)))
		for _, target := range level {
			r.Printf("  %s\n", styles.Path.Render(target))
		}
	}
	for _, target := range p.Conflicts {
		r.Warning("object target " + target + " is defined more than once; the last rule wins")
	}
	return nil
}

func planMarkdown(r *output.Renderer, p output.PlanOutput) error {
	r.Println(output.FormatHeader(1, "Build Plan"))
	r.Println("")
	r.Println(output.FormatKeyValue("Mode", p.Mode))
	r.Println(output.FormatKeyValue("Layout", p.Layout))
	r.Println(output.FormatKeyValue("Per-container buckets", fmt.Sprintf("%t", p.PerContainer)))
	r.Println("")
	r.Table(planHeader, planRows(p))
	r.Println("")

	for i, level := range p.Levels {
		r.Println(output.FormatHeader(2, fmt.Sprintf("Level %d", i)))
		r.Println("")
		r.Printf("%s", output.FormatList(level))
		r.Println("")
	}
	if len(p.Conflicts) > 0 {
		r.Println(output.FormatHeader(2, "Redefined targets"))
		r.Println("")
		r.Printf("%s", output.FormatList(p.Conflicts))
	}
	return nil
}

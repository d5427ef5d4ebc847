// Package rules builds the kernel compile and link rules for a resolved plan.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kameshwarc/SDAccel-Examples/internal/dag"
	"github.com/kameshwarc/SDAccel-Examples/internal/resolver"
	"github.com/kameshwarc/SDAccel-Examples/pkg/core"
)

// CompileRule compiles one accelerator into an object file.
type CompileRule struct {
	Target string
	Source string
	Kernel string
}

// Prereq is the rule's dependency as written in the rule file.
func (r CompileRule) Prereq() string {
	return "./" + r.Source
}

// Recipe returns the indented action lines of the rule.
func (r CompileRule) Recipe() string {
	var sb strings.Builder
	sb.WriteString("\tmkdir -p $(XCLBIN)\n")
	fmt.Fprintf(&sb, "\t$(XOCC) $(CLFLAGS) -c -k %s -I'$(<D)' -o'$@' '$<'\n", r.Kernel)
	return sb.String()
}

// String renders the complete rule.
func (r CompileRule) String() string {
	return r.Target + ": " + r.Prereq() + "\n" + r.Recipe()
}

// LinkRule links a bucket of objects into an xclbin.
type LinkRule struct {
	Target  string
	Bucket  string
	Kernels []string
	// ExtraFlags are container-level linker flags, appended after the --nk directives.
	ExtraFlags string
}

// Prereq is the rule's dependency as written in the rule file.
func (r LinkRule) Prereq() string {
	return "$(" + r.Bucket + ")"
}

// Recipe returns the indented action line of the rule.
func (r LinkRule) Recipe() string {
	var sb strings.Builder
	sb.WriteString("\t$(XOCC) $(CLFLAGS) -l $(LDCLFLAGS)")
	for _, k := range r.Kernels {
		fmt.Fprintf(&sb, " --nk %s:1", k)
	}
	if r.ExtraFlags != "" {
		sb.WriteString(" " + r.ExtraFlags)
	}
	sb.WriteString(" -o'$@' $(+)\n")
	return sb.String()
}

// String renders the complete rule.
func (r LinkRule) String() string {
	return r.Target + ": " + r.Prereq() + "\n" + r.Recipe()
}

// RuleSet holds the kernel rules of a plan in emission order.
type RuleSet struct {
	Compile []CompileRule
	Link    []LinkRule
	// Graph is the dependency graph of every emitted kernel target.
	Graph *dag.Graph
	// Conflicts lists targets redefined with a different recipe. They only
	// occur under the legacy layout, where the later rule overrides the earlier.
	Conflicts []*dag.ConflictError
}

// Build derives the compile and link rules of plan.
//
// Under the legacy layout every accelerator gets its own compile rule even
// when several share an object target; the conflicts are reported in
// RuleSet.Conflicts. Under the per-container layout identical rules are
// emitted once and conflicting ones are an error.
func Build(plan *resolver.Plan) (*RuleSet, error) {
	rs := &RuleSet{Graph: dag.NewGraph()}
	legacy := plan.Layout != core.LayoutPerContainer

	for _, k := range plan.Kernels() {
		rule := CompileRule{
			Target: k.ObjectTarget(),
			Source: k.Location,
			Kernel: k.Name,
		}
		_, seen := rs.Graph.Target(rule.Target)
		if err := rs.addTarget(rule.Target, dag.KindObject, rule.Prereq()+"\n"+rule.Recipe(), legacy); err != nil {
			return nil, err
		}
		if legacy || !seen {
			rs.Compile = append(rs.Compile, rule)
		}
		if err := rs.Graph.AddPrereq(rule.Target, rule.Prereq()); err != nil {
			return nil, err
		}
	}

	bucketObjects := make(map[string][]string)
	for _, bin := range plan.Bins {
		for _, k := range bin.Kernels {
			bucketObjects[bin.Bucket] = append(bucketObjects[bin.Bucket], k.ObjectTarget())
		}
	}

	for _, bin := range plan.Bins {
		rule := LinkRule{
			Target:     bin.Target(),
			Bucket:     bin.Bucket,
			ExtraFlags: bin.LinkFlags,
		}
		for _, k := range bin.Kernels {
			rule.Kernels = append(rule.Kernels, k.Name)
		}
		_, seen := rs.Graph.Target(rule.Target)
		if err := rs.addTarget(rule.Target, dag.KindXclbin, rule.Prereq()+"\n"+rule.Recipe(), legacy); err != nil {
			return nil, err
		}
		if legacy || !seen {
			rs.Link = append(rs.Link, rule)
		}
		for _, obj := range bucketObjects[bin.Bucket] {
			if err := rs.Graph.AddPrereq(rule.Target, obj); err != nil {
				return nil, err
			}
		}
	}

	if hasCycle, path := rs.Graph.HasCycle(); hasCycle {
		return nil, fmt.Errorf("kernel rules form a cycle: %v", path)
	}

	return rs, nil
}

func (rs *RuleSet) addTarget(name string, kind dag.Kind, recipe string, legacy bool) error {
	err := rs.Graph.AddTarget(name, kind, recipe)
	if err == nil {
		return nil
	}
	var conflict *dag.ConflictError
	if legacy && errors.As(err, &conflict) {
		rs.Conflicts = append(rs.Conflicts, conflict)
		return nil
	}
	return fmt.Errorf("failed to add rule: %w", err)
}

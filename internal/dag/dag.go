// Package dag models the emitted build rules as a directed acyclic graph of
// make targets. It detects conflicting rule definitions, rejects cycles and
// groups targets into build levels.
package dag

import (
	"errors"
	"fmt"
	"sort"
)

// ErrTargetConflict is returned when a target is defined twice with different recipes.
var ErrTargetConflict = errors.New("conflicting rule definitions")

// Kind classifies a make target.
type Kind int

// Target kinds.
const (
	KindSource Kind = iota
	KindObject
	KindXclbin
	KindExecutable
	KindPhony
)

func (k Kind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindObject:
		return "object"
	case KindXclbin:
		return "xclbin"
	case KindExecutable:
		return "executable"
	case KindPhony:
		return "phony"
	default:
		return "unknown"
	}
}

// Target is a node in the rule graph.
type Target struct {
	// Name is the make target as written in the rule file.
	Name string
	Kind Kind
	// Recipe identifies the action that builds the target. Two definitions of
	// the same target are equivalent only if their recipes match.
	Recipe string
}

// ConflictError describes a target defined twice with different recipes.
// The later definition replaces the earlier one, as make itself would.
type ConflictError struct {
	Target   string
	Previous string
	Current  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: target %s redefined", ErrTargetConflict, e.Target)
}

func (e *ConflictError) Unwrap() error { return ErrTargetConflict }

// Graph is a rule graph. Edges point from a prerequisite to the targets that
// depend on it.
type Graph struct {
	targets    map[string]*Target
	order      []string            // declaration order
	dependents map[string][]string // prerequisite -> targets
	prereqs    map[string][]string // target -> prerequisites
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		targets:    make(map[string]*Target),
		dependents: make(map[string][]string),
		prereqs:    make(map[string][]string),
	}
}

// AddTarget declares a target. Redeclaring a target with the same recipe is a
// no-op. Redeclaring it with a different recipe replaces the recipe and
// returns a *ConflictError.
func (g *Graph) AddTarget(name string, kind Kind, recipe string) error {
	existing, exists := g.targets[name]
	if !exists {
		g.targets[name] = &Target{Name: name, Kind: kind, Recipe: recipe}
		g.dependents[name] = []string{}
		g.prereqs[name] = []string{}
		g.order = append(g.order, name)
		return nil
	}

	// Sources are placeholders until a rule claims them.
	if existing.Kind == KindSource && kind != KindSource {
		existing.Kind = kind
		existing.Recipe = recipe
		return nil
	}
	if existing.Recipe == recipe {
		return nil
	}

	conflict := &ConflictError{Target: name, Previous: existing.Recipe, Current: recipe}
	existing.Kind = kind
	existing.Recipe = recipe
	return conflict
}

// AddPrereq records that target depends on prereq. An undeclared prereq is
// added as a source target.
func (g *Graph) AddPrereq(target, prereq string) error {
	if _, exists := g.targets[target]; !exists {
		return fmt.Errorf("target %q does not exist", target)
	}
	if target == prereq {
		return fmt.Errorf("self-dependency detected: %s", target)
	}
	if _, exists := g.targets[prereq]; !exists {
		_ = g.AddTarget(prereq, KindSource, "")
	}

	if !contains(g.dependents[prereq], target) {
		g.dependents[prereq] = append(g.dependents[prereq], target)
	}
	if !contains(g.prereqs[target], prereq) {
		g.prereqs[target] = append(g.prereqs[target], prereq)
	}
	return nil
}

// Target returns a target by name.
func (g *Graph) Target(name string) (*Target, bool) {
	t, exists := g.targets[name]
	return t, exists
}

// Targets returns all targets in declaration order.
func (g *Graph) Targets() []*Target {
	out := make([]*Target, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.targets[name])
	}
	return out
}

// TargetsOfKind returns the targets of one kind in declaration order.
func (g *Graph) TargetsOfKind(kind Kind) []*Target {
	var out []*Target
	for _, name := range g.order {
		if t := g.targets[name]; t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// Prereqs returns the prerequisites of a target.
func (g *Graph) Prereqs(name string) []string {
	return g.prereqs[name]
}

// NodeCount returns the number of targets in the graph.
func (g *Graph) NodeCount() int {
	return len(g.targets)
}

// EdgeCount returns the number of dependency edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, deps := range g.dependents {
		count += len(deps)
	}
	return count
}

// HasCycle returns true if the graph contains a cycle, along with the cycle path.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make(map[string]string)

	var cyclePath []string

	var dfs func(name string) bool
	dfs = func(name string) bool {
		visited[name] = true
		recStack[name] = true

		for _, dep := range g.dependents[name] {
			if !visited[dep] {
				path[dep] = name
				if dfs(dep) {
					return true
				}
			} else if recStack[dep] {
				cyclePath = []string{dep}
				for curr := name; curr != dep; curr = path[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{dep}, cyclePath...)
				return true
			}
		}

		recStack[name] = false
		return false
	}

	for _, name := range g.order {
		if !visited[name] {
			if dfs(name) {
				return true, cyclePath
			}
		}
	}

	return false, nil
}

// Levels groups targets by build level. Level 0 holds targets with no
// prerequisites; a target at level N only depends on targets below N.
func (g *Graph) Levels() ([][]string, error) {
	if hasCycle, cyclePath := g.HasCycle(); hasCycle {
		return nil, fmt.Errorf("cycle detected: %v", cyclePath)
	}

	assigned := make(map[string]int)

	var levelOf func(name string) int
	levelOf = func(name string) int {
		if level, ok := assigned[name]; ok {
			return level
		}
		level := 0
		for _, prereq := range g.prereqs[name] {
			if l := levelOf(prereq) + 1; l > level {
				level = l
			}
		}
		assigned[name] = level
		return level
	}

	maxLevel := -1
	for _, name := range g.order {
		if level := levelOf(name); level > maxLevel {
			maxLevel = level
		}
	}

	levels := make([][]string, maxLevel+1)
	for name, level := range assigned {
		levels[level] = append(levels[level], name)
	}
	for i := range levels {
		sort.Strings(levels[i])
	}

	return levels, nil
}

// Upstream returns every target that name transitively depends on.
func (g *Graph) Upstream(name string) []string {
	upstream := make(map[string]bool)

	var mark func(n string)
	mark = func(n string) {
		for _, prereq := range g.prereqs[n] {
			if !upstream[prereq] {
				upstream[prereq] = true
				mark(prereq)
			}
		}
	}
	mark(name)

	out := make([]string, 0, len(upstream))
	for n := range upstream {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}

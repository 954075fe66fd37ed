// Package mmdcompiler is the opt-in semantic pass over a parsed diagram.
//
// Grammar parsers accept everything that is syntactically well-formed; the
// checks here catch valid syntax with invalid meaning, like an id declared
// twice with conflicting labels. Callers that only need an AST never have to
// pay for them.
package mmdcompiler

import (
	"fmt"

	"oss.terrastruct.com/mmd/mmdast"
	"oss.terrastruct.com/mmd/mmdparser"
	"oss.terrastruct.com/mmd/mmdvisitor"
)

// Validate checks d for semantic violations and returns them all at once as
// a *mmdparser.ParseError of *mmdast.SemanticError values, or nil when d is
// clean. It never modifies d.
func Validate(d mmdast.Diagram) error {
	v := &validator{}
	if err := mmdvisitor.Walk(d, v); err != nil {
		return err
	}
	if len(v.errs) == 0 {
		return nil
	}
	return &mmdparser.ParseError{Errors: v.errs}
}

type validator struct {
	mmdvisitor.Noop

	errs []error
}

func (v *validator) errorf(context, f string, a ...interface{}) {
	v.errs = append(v.errs, &mmdast.SemanticError{
		Message: fmt.Sprintf(f, a...),
		Context: context,
	})
}

func (v *validator) VisitFlowchart(f *mmdast.Flowchart) error {
	labels := make(map[string]string, len(f.Nodes))
	for _, n := range f.Nodes {
		if prev, ok := labels[n.ID]; ok {
			if prev != n.Label {
				v.errorf("flowchart", "node %q declared twice with conflicting labels %q and %q", n.ID, prev, n.Label)
			} else {
				v.errorf("flowchart", "node %q declared twice", n.ID)
			}
			continue
		}
		labels[n.ID] = n.Label
	}

	for _, e := range f.Edges {
		if _, ok := labels[e.From]; !ok {
			v.errorf("flowchart", "edge references undeclared node %q", e.From)
		}
		if _, ok := labels[e.To]; !ok {
			v.errorf("flowchart", "edge references undeclared node %q", e.To)
		}
	}

	// A node may belong to at most one direct subgraph.
	owner := map[string]string{}
	err := mmdvisitor.WalkSubgraphs(f, func(sg *mmdast.Subgraph) error {
		for _, id := range sg.Nodes {
			if prev, ok := owner[id]; ok && prev != sg.ID {
				v.errorf("flowchart", "node %q belongs to subgraphs %q and %q", id, prev, sg.ID)
				continue
			}
			owner[id] = sg.ID
			if _, ok := labels[id]; !ok {
				v.errorf("flowchart", "subgraph %q references undeclared node %q", sg.ID, id)
			}
		}
		return nil
	})
	return err
}

func (v *validator) VisitSequence(s *mmdast.Sequence) error {
	seen := make(map[string]bool, len(s.Participants))
	for _, p := range s.Participants {
		if seen[p.ID] {
			v.errorf("sequence", "participant %q declared twice", p.ID)
			continue
		}
		seen[p.ID] = true
	}
	for _, m := range s.Messages {
		if !seen[m.From] {
			v.errorf("sequence", "message references unknown participant %q", m.From)
		}
		if !seen[m.To] {
			v.errorf("sequence", "message references unknown participant %q", m.To)
		}
	}
	return nil
}

func (v *validator) VisitPie(p *mmdast.Pie) error {
	seen := make(map[string]bool, len(p.Slices))
	for _, s := range p.Slices {
		if s.Value < 0 {
			v.errorf("pie", "slice %q has negative value %v", s.Label, s.Value)
		}
		if seen[s.Label] {
			v.errorf("pie", "slice %q declared twice", s.Label)
			continue
		}
		seen[s.Label] = true
	}
	return nil
}

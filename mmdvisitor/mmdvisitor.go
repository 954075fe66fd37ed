// Package mmdvisitor walks mmdast trees.
//
// Two parallel contracts exist, one for read-only analysis and one for
// in-place mutation. Each has one method per diagram kind and a no-op base
// type so callers override only the kinds they care about. Walk and WalkMut
// do the tag dispatch; neither ever mutates or reorders the tree themselves.
package mmdvisitor

import (
	"fmt"

	"oss.terrastruct.com/mmd/mmdast"
)

// Visitor is the read-only traversal contract. Implementations must not
// modify the diagram they are handed.
type Visitor interface {
	VisitFlowchart(*mmdast.Flowchart) error
	VisitSequence(*mmdast.Sequence) error
	VisitPie(*mmdast.Pie) error
	VisitMisc(*mmdast.Misc) error
}

// MutVisitor is the mutating traversal contract. Implementations may rewrite
// labels, classes and ids in place. Keeping ids unique after a rewrite is the
// implementation's responsibility, not the framework's.
type MutVisitor interface {
	VisitFlowchartMut(*mmdast.Flowchart) error
	VisitSequenceMut(*mmdast.Sequence) error
	VisitPieMut(*mmdast.Pie) error
	VisitMiscMut(*mmdast.Misc) error
}

// Noop implements Visitor with no-op methods. Embed it to implement only the
// kinds you analyze.
type Noop struct{}

func (Noop) VisitFlowchart(*mmdast.Flowchart) error { return nil }
func (Noop) VisitSequence(*mmdast.Sequence) error   { return nil }
func (Noop) VisitPie(*mmdast.Pie) error             { return nil }
func (Noop) VisitMisc(*mmdast.Misc) error           { return nil }

// NoopMut is Noop's mutating counterpart.
type NoopMut struct{}

func (NoopMut) VisitFlowchartMut(*mmdast.Flowchart) error { return nil }
func (NoopMut) VisitSequenceMut(*mmdast.Sequence) error   { return nil }
func (NoopMut) VisitPieMut(*mmdast.Pie) error             { return nil }
func (NoopMut) VisitMiscMut(*mmdast.Misc) error           { return nil }

var (
	_ Visitor    = Noop{}
	_ MutVisitor = NoopMut{}
)

// Walk dispatches d to the matching Visitor method. The switch is exhaustive
// over the mmdast union; an unknown dynamic type means the union grew without
// this package keeping up and is reported as an error rather than skipped.
func Walk(d mmdast.Diagram, v Visitor) error {
	switch d := d.(type) {
	case *mmdast.Flowchart:
		return v.VisitFlowchart(d)
	case *mmdast.Sequence:
		return v.VisitSequence(d)
	case *mmdast.Pie:
		return v.VisitPie(d)
	case *mmdast.Misc:
		return v.VisitMisc(d)
	default:
		return fmt.Errorf("mmdvisitor: unhandled diagram type %T", d)
	}
}

// WalkMut is Walk for the mutating contract.
func WalkMut(d mmdast.Diagram, v MutVisitor) error {
	switch d := d.(type) {
	case *mmdast.Flowchart:
		return v.VisitFlowchartMut(d)
	case *mmdast.Sequence:
		return v.VisitSequenceMut(d)
	case *mmdast.Pie:
		return v.VisitPieMut(d)
	case *mmdast.Misc:
		return v.VisitMiscMut(d)
	default:
		return fmt.Errorf("mmdvisitor: unhandled diagram type %T", d)
	}
}

// WalkSubgraphs visits every subgraph of f pre-order, parent before children,
// in declaration order. Returning an error from fn stops the walk.
func WalkSubgraphs(f *mmdast.Flowchart, fn func(*mmdast.Subgraph) error) error {
	var walk func(sgs []*mmdast.Subgraph) error
	walk = func(sgs []*mmdast.Subgraph) error {
		for _, sg := range sgs {
			if err := fn(sg); err != nil {
				return err
			}
			if err := walk(sg.Subgraphs); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(f.Subgraphs)
}

package mmdvisitor

import "oss.terrastruct.com/mmd/mmdast"

// NodeCounter tallies the primary entities of whatever diagram it walks.
// For flowcharts that is nodes and edges, for sequence diagrams participants
// and messages, for pie charts slices. Reusable across walks; counts
// accumulate.
type NodeCounter struct {
	Noop

	Nodes int
	Edges int
}

func (c *NodeCounter) VisitFlowchart(f *mmdast.Flowchart) error {
	c.Nodes += len(f.Nodes)
	c.Edges += len(f.Edges)
	return nil
}

func (c *NodeCounter) VisitSequence(s *mmdast.Sequence) error {
	c.Nodes += len(s.Participants)
	c.Edges += len(s.Messages)
	return nil
}

func (c *NodeCounter) VisitPie(p *mmdast.Pie) error {
	c.Nodes += len(p.Slices)
	return nil
}

package mmdvisitor_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/mmd/mmdast"
	"oss.terrastruct.com/mmd/mmdparser"
	"oss.terrastruct.com/mmd/mmdvisitor"
)

func mustParse(t *testing.T, text string) mmdast.Diagram {
	t.Helper()
	d, err := mmdparser.Parse(strings.NewReader(text), nil)
	assert.NoError(t, err)
	return d
}

func TestNodeCounter(t *testing.T) {
	t.Parallel()

	t.Run("flowchart", func(t *testing.T) {
		t.Parallel()

		d := mustParse(t, "flowchart TD\nA --> B --> C\nD\n")
		var c mmdvisitor.NodeCounter
		assert.NoError(t, mmdvisitor.Walk(d, &c))
		assert.Equal(t, 4, c.Nodes)
		assert.Equal(t, 2, c.Edges)
	})

	t.Run("sequence", func(t *testing.T) {
		t.Parallel()

		d := mustParse(t, "sequenceDiagram\nA->>B: one\nB->>A: two\n")
		var c mmdvisitor.NodeCounter
		assert.NoError(t, mmdvisitor.Walk(d, &c))
		assert.Equal(t, 2, c.Nodes)
		assert.Equal(t, 2, c.Edges)
	})

	t.Run("accumulates", func(t *testing.T) {
		t.Parallel()

		var c mmdvisitor.NodeCounter
		assert.NoError(t, mmdvisitor.Walk(mustParse(t, "graph TD\nA-->B\n"), &c))
		assert.NoError(t, mmdvisitor.Walk(mustParse(t, "pie\n\"x\" : 1\n"), &c))
		assert.Equal(t, 3, c.Nodes)
		assert.Equal(t, 1, c.Edges)
	})
}

type labelUpper struct {
	mmdvisitor.NoopMut
}

func (labelUpper) VisitFlowchartMut(f *mmdast.Flowchart) error {
	for _, n := range f.Nodes {
		n.Label = strings.ToUpper(n.Label)
	}
	return nil
}

func TestWalkMut(t *testing.T) {
	t.Parallel()

	d := mustParse(t, "flowchart TD\nA[start] --> B[finish]\n")
	assert.NoError(t, mmdvisitor.WalkMut(d, labelUpper{}))

	f := d.(*mmdast.Flowchart)
	assert.Equal(t, "START", f.Node("A").Label)
	assert.Equal(t, "FINISH", f.Node("B").Label)
}

type errVisitor struct {
	mmdvisitor.Noop
}

var errBoom = errors.New("boom")

func (errVisitor) VisitFlowchart(*mmdast.Flowchart) error { return errBoom }

func TestWalkPropagatesError(t *testing.T) {
	t.Parallel()

	d := mustParse(t, "graph TD\nA-->B\n")
	assert.ErrorIs(t, mmdvisitor.Walk(d, errVisitor{}), errBoom)
}

func TestWalkSubgraphsPreOrder(t *testing.T) {
	t.Parallel()

	d := mustParse(t, strings.Join([]string{
		"flowchart TD",
		"subgraph first",
		"subgraph inner",
		"A",
		"end",
		"end",
		"subgraph second",
		"B",
		"end",
	}, "\n"))

	var order []string
	f := d.(*mmdast.Flowchart)
	assert.NoError(t, mmdvisitor.WalkSubgraphs(f, func(sg *mmdast.Subgraph) error {
		order = append(order, sg.ID)
		return nil
	}))
	assert.Equal(t, []string{"first", "inner", "second"}, order)
}

func TestWalkSubgraphsStopsOnError(t *testing.T) {
	t.Parallel()

	f := &mmdast.Flowchart{
		Subgraphs: []*mmdast.Subgraph{{ID: "a"}, {ID: "b"}},
	}
	var seen int
	err := mmdvisitor.WalkSubgraphs(f, func(*mmdast.Subgraph) error {
		seen++
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, 1, seen)
}

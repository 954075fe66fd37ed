package mmdcompiler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"oss.terrastruct.com/mmd/mmdast"
	"oss.terrastruct.com/mmd/mmdcompiler"
	"oss.terrastruct.com/mmd/mmdparser"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		d    mmdast.Diagram

		expErrs []string
	}{
		{
			name: "clean_flowchart",
			d: &mmdast.Flowchart{
				Nodes: []*mmdast.FlowNode{
					{ID: "A", Label: "A"},
					{ID: "B", Label: "B"},
				},
				Edges: []*mmdast.FlowEdge{{From: "A", To: "B"}},
			},
		},
		{
			name: "duplicate_node_conflicting_labels",
			d: &mmdast.Flowchart{
				Nodes: []*mmdast.FlowNode{
					{ID: "A", Label: "first"},
					{ID: "A", Label: "second"},
				},
			},
			expErrs: []string{`node "A" declared twice with conflicting labels "first" and "second"`},
		},
		{
			name: "duplicate_node_same_label",
			d: &mmdast.Flowchart{
				Nodes: []*mmdast.FlowNode{
					{ID: "A", Label: "same"},
					{ID: "A", Label: "same"},
				},
			},
			expErrs: []string{`node "A" declared twice`},
		},
		{
			name: "dangling_edge",
			d: &mmdast.Flowchart{
				Nodes: []*mmdast.FlowNode{{ID: "A", Label: "A"}},
				Edges: []*mmdast.FlowEdge{{From: "A", To: "ghost"}},
			},
			expErrs: []string{`edge references undeclared node "ghost"`},
		},
		{
			name: "node_in_two_subgraphs",
			d: &mmdast.Flowchart{
				Nodes: []*mmdast.FlowNode{{ID: "A", Label: "A"}},
				Subgraphs: []*mmdast.Subgraph{
					{ID: "S1", Nodes: []string{"A"}},
					{ID: "S2", Nodes: []string{"A"}},
				},
			},
			expErrs: []string{`node "A" belongs to subgraphs "S1" and "S2"`},
		},
		{
			name: "subgraph_unknown_member",
			d: &mmdast.Flowchart{
				Subgraphs: []*mmdast.Subgraph{
					{ID: "S", Nodes: []string{"ghost"}},
				},
			},
			expErrs: []string{`subgraph "S" references undeclared node "ghost"`},
		},
		{
			name: "sequence_duplicate_participant",
			d: &mmdast.Sequence{
				Participants: []*mmdast.Participant{
					{ID: "A"}, {ID: "A"},
				},
			},
			expErrs: []string{`participant "A" declared twice`},
		},
		{
			name: "sequence_unknown_participant",
			d: &mmdast.Sequence{
				Participants: []*mmdast.Participant{{ID: "A"}},
				Messages:     []*mmdast.Message{{From: "A", To: "B"}},
			},
			expErrs: []string{`message references unknown participant "B"`},
		},
		{
			name: "pie_negative_and_duplicate",
			d: &mmdast.Pie{
				Slices: []mmdast.PieSlice{
					{Label: "a", Value: -1},
					{Label: "a", Value: 2},
				},
			},
			expErrs: []string{
				`slice "a" has negative value -1`,
				`slice "a" declared twice`,
			},
		},
		{
			name: "misc_never_fails",
			d:    &mmdast.Misc{Keyword: "whatever", Lines: []string{"x"}},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := mmdcompiler.Validate(tc.d)
			if len(tc.expErrs) == 0 {
				assert.NoError(t, err)
				return
			}

			pe, ok := err.(*mmdparser.ParseError)
			assert.True(t, ok)
			assert.Len(t, pe.Errors, len(tc.expErrs))
			for i, exp := range tc.expErrs {
				var serr *mmdast.SemanticError
				assert.ErrorAs(t, pe.Errors[i], &serr)
				assert.Contains(t, pe.Errors[i].Error(), exp)
			}
		})
	}
}

func TestValidateParsedDiagram(t *testing.T) {
	t.Parallel()

	d, err := mmdparser.Parse(strings.NewReader("flowchart TD\nA[Start] --> B\nB --> A\n"), nil)
	assert.NoError(t, err)
	assert.NoError(t, mmdcompiler.Validate(d))
}

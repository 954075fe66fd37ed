package mmdparser_test

import (
	"errors"
	"strings"
	"testing"

	"oss.terrastruct.com/util-go/assert"

	"oss.terrastruct.com/mmd/mmdast"
)

func TestFlowchart(t *testing.T) {
	t.Parallel()

	var testCases = []testCase{
		{
			name: "header_direction_defaults",
			text: "flowchart\nA-->B",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				assert.Equal(t, mmdast.DirectionTD, f.Direction)
			},
		},
		{
			name: "all_directions",
			text: "flowchart BT\nA-->B",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				assert.Equal(t, mmdast.DirectionBT, d.(*mmdast.Flowchart).Direction)
			},
		},
		{
			name: "semicolon_statements",
			text: "graph TD; A-->B; B-->C;",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				assert.Equal(t, 2, len(f.Edges))
				assert.Equal(t, 3, len(f.Nodes))
			},
		},
		{
			name: "chained_edges",
			text: "flowchart LR\nA --> B --> C --> D",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				assert.Equal(t, 3, len(f.Edges))
				assert.Equal(t, "B", f.Edges[1].From)
				assert.Equal(t, "C", f.Edges[1].To)
			},
		},
		{
			name: "edge_label",
			text: "flowchart TD\nA -->|yes| B\nA -->|no way| C",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				assert.Equal(t, "yes", f.Edges[0].Label)
				assert.Equal(t, "no way", f.Edges[1].Label)
			},
		},
		{
			name: "unterminated_edge_label",
			text: "flowchart TD\nA -->|yes B",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				var serr *mmdast.SyntaxError
				assert.True(t, errors.As(err, &serr))
				assert.JSON(t, []string{"|"}, serr.Expected)
			},
		},
		{
			name: "line_types",
			text: "flowchart TD\nA --- B\nB -.-> C\nC === D\nD ==> E\nE -.- F",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				assert.Equal(t, mmdast.ArrowOpen, f.Edges[0].Arrow)
				assert.Equal(t, mmdast.LineSolid, f.Edges[0].Line)
				assert.Equal(t, mmdast.ArrowHead, f.Edges[1].Arrow)
				assert.Equal(t, mmdast.LineDotted, f.Edges[1].Line)
				assert.Equal(t, mmdast.ArrowOpen, f.Edges[2].Arrow)
				assert.Equal(t, mmdast.LineThick, f.Edges[2].Line)
				assert.Equal(t, mmdast.ArrowHead, f.Edges[3].Arrow)
				assert.Equal(t, mmdast.LineThick, f.Edges[3].Line)
				assert.Equal(t, mmdast.ArrowOpen, f.Edges[4].Arrow)
				assert.Equal(t, mmdast.LineDotted, f.Edges[4].Line)
			},
		},
		{
			name: "arrow_heads",
			text: "flowchart TD\nA --o B\nB --x C\nC <--> D\nD ~~~ E",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				assert.Equal(t, mmdast.ArrowCircle, f.Edges[0].Arrow)
				assert.Equal(t, mmdast.ArrowCross, f.Edges[1].Arrow)
				assert.Equal(t, mmdast.ArrowBidirectional, f.Edges[2].Arrow)
				assert.Equal(t, mmdast.ArrowInvisible, f.Edges[3].Arrow)
			},
		},
		{
			name: "shapes",
			text: strings.Join([]string{
				"flowchart TD",
				"A[rect]",
				"B(round)",
				"C([stadium])",
				"D[[subroutine]]",
				"E[(database)]",
				"F((circle))",
				"G(((double)))",
				"H{rhombus}",
				"I{{hexagon}}",
				"J[/para/]",
				"K[\\palt\\]",
				"L[/trap\\]",
				"M[\\talt/]",
				"N>asym]",
			}, "\n"),
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				wantShapes := map[string]mmdast.Shape{
					"A": mmdast.ShapeRectangle,
					"B": mmdast.ShapeRounded,
					"C": mmdast.ShapeStadium,
					"D": mmdast.ShapeSubroutine,
					"E": mmdast.ShapeCylinder,
					"F": mmdast.ShapeCircle,
					"G": mmdast.ShapeDoubleCircle,
					"H": mmdast.ShapeRhombus,
					"I": mmdast.ShapeHexagon,
					"J": mmdast.ShapeParallelogram,
					"K": mmdast.ShapeParallelogramAlt,
					"L": mmdast.ShapeTrapezoid,
					"M": mmdast.ShapeTrapezoidAlt,
					"N": mmdast.ShapeAsymmetric,
				}
				assert.Equal(t, len(wantShapes), len(f.Nodes))
				for id, shape := range wantShapes {
					n := f.Node(id)
					assert.True(t, n != nil)
					assert.Equal(t, shape, n.Shape)
				}
				assert.Equal(t, "database", f.Node("E").Label)
			},
		},
		{
			name: "multi_word_label",
			text: "flowchart TD\nA[Start the machine] --> B",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				assert.Equal(t, "Start the machine", f.Node("A").Label)
			},
		},
		{
			name: "label_free_text",
			text: "flowchart TD\nA[api.example.com] -->|v1.2 path| B[Don't panic!]",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				assert.Equal(t, "api.example.com", f.Node("A").Label)
				assert.Equal(t, "Don't panic!", f.Node("B").Label)
				assert.Equal(t, "v1.2 path", f.Edges[0].Label)
			},
		},
		{
			name: "label_unicode",
			text: "flowchart TD\nA[héllo wörld] --> B",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				assert.Equal(t, "héllo wörld", f.Node("A").Label)
			},
		},
		{
			name: "quoted_label",
			text: "flowchart TD\nA[\"quoted [label]\"] --> B",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				assert.Equal(t, "quoted [label]", f.Node("A").Label)
			},
		},
		{
			name: "mismatched_shape_closer",
			text: "flowchart TD\nA(oops",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				var enh *mmdast.EnhancedSyntaxError
				assert.True(t, errors.As(err, &enh))
				assert.JSON(t, []string{")"}, enh.Expected)
			},
		},
		{
			name: "placeholder_overwritten_by_declaration",
			text: "flowchart TD\nA --> B\nB{decide}",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				b := f.Node("B")
				assert.Equal(t, mmdast.ShapeRhombus, b.Shape)
				assert.Equal(t, "decide", b.Label)
				assert.Equal(t, 2, len(f.Nodes))
			},
		},
		{
			name: "last_declaration_wins",
			text: "flowchart TD\nB[first]\nB{second}",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				assert.Equal(t, 1, len(f.Nodes))
				assert.Equal(t, "second", f.Node("B").Label)
				assert.Equal(t, mmdast.ShapeRhombus, f.Node("B").Shape)
			},
		},
		{
			name: "title",
			text: "flowchart TD\ntitle My Pipeline\nA --> B",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				assert.Equal(t, "My Pipeline", d.(*mmdast.Flowchart).Title)
			},
		},
		{
			name: "subgraph_membership",
			text: "flowchart TD\nsubgraph S\nA --> B\nend\nC --> A",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				assert.Equal(t, 1, len(f.Subgraphs))
				assert.Equal(t, "S", f.Subgraphs[0].ID)
				assert.JSON(t, []string{"A", "B"}, f.Subgraphs[0].Nodes)
				assert.Equal(t, 3, len(f.Nodes))
			},
		},
		{
			name: "subgraph_bracketed_title",
			text: "flowchart TD\nsubgraph one [The First Stage]\nA --> B\nend",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				assert.Equal(t, "one", f.Subgraphs[0].ID)
				assert.Equal(t, "The First Stage", f.Subgraphs[0].Title)
			},
		},
		{
			name: "nested_subgraphs",
			text: "flowchart TD\nsubgraph outer\nA\nsubgraph inner\nB --> C\nend\nD\nend",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				assert.Equal(t, 1, len(f.Subgraphs))
				outer := f.Subgraphs[0]
				assert.JSON(t, []string{"A", "D"}, outer.Nodes)
				assert.Equal(t, 1, len(outer.Subgraphs))
				assert.JSON(t, []string{"B", "C"}, outer.Subgraphs[0].Nodes)
			},
		},
		{
			name: "subgraph_missing_end",
			text: "flowchart TD\nsubgraph S\nA --> B",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				var serr *mmdast.SyntaxError
				assert.True(t, errors.As(err, &serr))
				assert.Equal(t, 2, serr.Pos.Line)
				assert.True(t, strings.Contains(serr.Message, "missing its end"))
			},
		},
		{
			name: "stray_end",
			text: "flowchart TD\nA --> B\nend",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				var serr *mmdast.SyntaxError
				assert.True(t, errors.As(err, &serr))
				assert.True(t, strings.Contains(serr.Message, "without a matching subgraph"))
			},
		},
		{
			name: "class_statement",
			text: "flowchart TD\nA[Start] --> B\nclass A,B important",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				assert.JSON(t, []string{"important"}, f.Node("A").Classes)
				assert.JSON(t, []string{"important"}, f.Node("B").Classes)
			},
		},
		{
			name: "class_before_declaration",
			text: "flowchart TD\nclass A important\nA[Start] --> B",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				assert.JSON(t, []string{"important"}, f.Node("A").Classes)
			},
		},
		{
			name: "class_unknown_id_dropped",
			text: "flowchart TD\nA --> B\nclass Z missing",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				assert.Equal(t, 2, len(f.Nodes))
				assert.True(t, f.Node("Z") == nil)
			},
		},
		{
			name: "class_shorthand",
			text: "flowchart TD\nA:::hot --> B:::cold\nA:::alsohot --> C",
			assert: func(t testing.TB, d mmdast.Diagram, err error) {
				assert.Success(t, err)
				f := d.(*mmdast.Flowchart)
				assert.JSON(t, []string{"hot", "alsohot"}, f.Node("A").Classes)
				assert.JSON(t, []string{"cold"}, f.Node("B").Classes)
			},
		},
	}

	runa(t, testCases)
}

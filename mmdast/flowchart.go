package mmdast

import "oss.terrastruct.com/mmd/lib/go2"

// Flowchart is the AST for the flowchart/graph grammar, the structurally
// richest grammar of the family: delimiter-defined node shapes, typed edges,
// nested subgraphs and forward-referenced class attachment.
type Flowchart struct {
	Direction Direction   `json:"direction"`
	Title     string      `json:"title,omitempty"`
	Nodes     []*FlowNode `json:"nodes"`
	Edges     []*FlowEdge `json:"edges"`
	Subgraphs []*Subgraph `json:"subgraphs,omitempty"`
}

func (f *Flowchart) diagram()   {}
func (f *Flowchart) Kind() Kind { return KindFlowchart }

// Node returns the node with the given id, or nil. Ids are case-sensitive.
func (f *Flowchart) Node(id string) *FlowNode {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// EdgesFrom returns all edges originating at the given node id.
func (f *Flowchart) EdgesFrom(id string) []*FlowEdge {
	return go2.Filter(f.Edges, func(e *FlowEdge) bool { return e.From == id })
}

// Direction is the layout direction declared in the diagram header.
type Direction int

const (
	DirectionTD Direction = iota // top down, the default
	DirectionTB                  // top to bottom, same layout as TD
	DirectionBT
	DirectionRL
	DirectionLR
)

var directionNames = map[Direction]string{
	DirectionTD: "TD",
	DirectionTB: "TB",
	DirectionBT: "BT",
	DirectionRL: "RL",
	DirectionLR: "LR",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "TD"
}

// FlowNode is a single declared (or auto-created) node. Auto-created nodes
// get their id as label and the default shape; a later explicit declaration
// overwrites both.
type FlowNode struct {
	ID      string   `json:"id"`
	Label   string   `json:"label,omitempty"`
	Shape   Shape    `json:"shape"`
	Classes []string `json:"classes,omitempty"`
}

// Shape is the rendering category selected by the delimiter pair around a
// node's label.
type Shape int

const (
	ShapeRectangle Shape = iota // [text]
	ShapeRounded                // (text)
	ShapeStadium                // ([text])
	ShapeSubroutine             // [[text]]
	ShapeCylinder               // [(text)]
	ShapeCircle                 // ((text))
	ShapeDoubleCircle           // (((text)))
	ShapeAsymmetric             // >text]
	ShapeRhombus                // {text}
	ShapeHexagon                // {{text}}
	ShapeParallelogram          // [/text/]
	ShapeParallelogramAlt       // [\text\]
	ShapeTrapezoid              // [/text\]
	ShapeTrapezoidAlt           // [\text/]
)

var shapeNames = map[Shape]string{
	ShapeRectangle:        "rectangle",
	ShapeRounded:          "rounded",
	ShapeStadium:          "stadium",
	ShapeSubroutine:       "subroutine",
	ShapeCylinder:         "cylinder",
	ShapeCircle:           "circle",
	ShapeDoubleCircle:     "double_circle",
	ShapeAsymmetric:       "asymmetric",
	ShapeRhombus:          "rhombus",
	ShapeHexagon:          "hexagon",
	ShapeParallelogram:    "parallelogram",
	ShapeParallelogramAlt: "parallelogram_alt",
	ShapeTrapezoid:        "trapezoid",
	ShapeTrapezoidAlt:     "trapezoid_alt",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return "rectangle"
}

// FlowEdge connects two nodes by id. Both endpoints are guaranteed to have a
// FlowNode entry in the owning Flowchart once parsing completes.
type FlowEdge struct {
	From  string    `json:"from"`
	To    string    `json:"to"`
	Label string    `json:"label,omitempty"`
	Arrow ArrowType `json:"arrow"`
	Line  LineType  `json:"line"`
}

// ArrowType is the head style decoded from an edge's operator lexeme.
type ArrowType int

const (
	ArrowHead ArrowType = iota // -->
	ArrowOpen                  // --- (no head)
	ArrowCircle                // --o
	ArrowCross                 // --x
	ArrowBidirectional         // <-->
	ArrowInvisible             // ~~~
)

var arrowNames = map[ArrowType]string{
	ArrowHead:          "arrow",
	ArrowOpen:          "open",
	ArrowCircle:        "circle",
	ArrowCross:         "cross",
	ArrowBidirectional: "bidirectional",
	ArrowInvisible:     "invisible",
}

func (a ArrowType) String() string {
	if name, ok := arrowNames[a]; ok {
		return name
	}
	return "arrow"
}

// LineType is the stroke style decoded from an edge's operator lexeme.
type LineType int

const (
	LineSolid LineType = iota
	LineDotted
	LineThick
)

var lineNames = map[LineType]string{
	LineSolid:  "solid",
	LineDotted: "dotted",
	LineThick:  "thick",
}

func (l LineType) String() string {
	if name, ok := lineNames[l]; ok {
		return name
	}
	return "solid"
}

// Subgraph is a named, nestable grouping of nodes. Membership is additive
// bookkeeping: member nodes always also live in the Flowchart's node table.
type Subgraph struct {
	ID        string      `json:"id"`
	Title     string      `json:"title,omitempty"`
	Nodes     []string    `json:"nodes,omitempty"`
	Subgraphs []*Subgraph `json:"subgraphs,omitempty"`
}

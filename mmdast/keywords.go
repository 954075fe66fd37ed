package mmdast

// Kind tags the diagram language a piece of text was classified as. The set
// is closed: detection never produces a kind outside this list, and anything
// that matches no keyword at all becomes KindMisc.
type Kind int

const (
	KindMisc Kind = iota
	KindFlowchart
	KindSequence
	KindClass
	KindState
	KindER
	KindGantt
	KindPie
	KindGit
	KindMindmap
	KindTimeline
	KindJourney
	KindC4
	KindQuadrant
	KindXYChart
	KindKanban
	KindBlock
	KindArchitecture
	KindPacket
	KindRequirement
	KindSankey
	KindTreemap
	KindRadar
)

var kindNames = map[Kind]string{
	KindMisc:         "misc",
	KindFlowchart:    "flowchart",
	KindSequence:     "sequence",
	KindClass:        "class",
	KindState:        "state",
	KindER:           "er",
	KindGantt:        "gantt",
	KindPie:          "pie",
	KindGit:          "git",
	KindMindmap:      "mindmap",
	KindTimeline:     "timeline",
	KindJourney:      "journey",
	KindC4:           "c4",
	KindQuadrant:     "quadrant",
	KindXYChart:      "xychart",
	KindKanban:       "kanban",
	KindBlock:        "block",
	KindArchitecture: "architecture",
	KindPacket:       "packet",
	KindRequirement:  "requirement",
	KindSankey:       "sankey",
	KindTreemap:      "treemap",
	KindRadar:        "radar",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// DiagramKeywords maps every recognized header keyword to its kind. Keys are
// the lowercased first word of the first meaningful line, matched exactly: a
// word that merely starts with a keyword (pies, gantturous) is not a match
// and falls back to the misc representation.
var DiagramKeywords = map[string]Kind{
	"flowchart":          KindFlowchart,
	"graph":              KindFlowchart,
	"sequencediagram":    KindSequence,
	"classdiagram":       KindClass,
	"statediagram-v2":    KindState,
	"statediagram":       KindState,
	"erdiagram":          KindER,
	"gantt":              KindGantt,
	"pie":                KindPie,
	"gitgraph":           KindGit,
	"mindmap":            KindMindmap,
	"timeline":           KindTimeline,
	"journey":            KindJourney,
	"c4context":          KindC4,
	"c4container":        KindC4,
	"c4component":        KindC4,
	"c4dynamic":          KindC4,
	"c4deployment":       KindC4,
	"quadrantchart":      KindQuadrant,
	"quadrant":           KindQuadrant,
	"xychart-beta":       KindXYChart,
	"xychart":            KindXYChart,
	"kanban":             KindKanban,
	"block-beta":         KindBlock,
	"block":              KindBlock,
	"architecture-beta":  KindArchitecture,
	"architecture":       KindArchitecture,
	"packet-beta":        KindPacket,
	"packet":             KindPacket,
	"requirementdiagram": KindRequirement,
	"requirement":        KindRequirement,
	"sankey-beta":        KindSankey,
	"sankey":             KindSankey,
	"treemap":            KindTreemap,
	"radar":              KindRadar,
	"info":               KindMisc,
}

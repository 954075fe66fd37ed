package mmdast

// Sequence is the AST for the sequenceDiagram grammar: participants exchanging
// typed messages, with optional notes and automatic numbering.
type Sequence struct {
	Title        string         `json:"title,omitempty"`
	Participants []*Participant `json:"participants"`
	Messages     []*Message     `json:"messages"`
	Notes        []*SeqNote     `json:"notes,omitempty"`
	AutoNumber   bool           `json:"autonumber,omitempty"`
}

func (s *Sequence) diagram()   {}
func (s *Sequence) Kind() Kind { return KindSequence }

// Participant returns the participant declared (or auto-created) under the
// given id, or nil.
func (s *Sequence) Participant(id string) *Participant {
	for _, p := range s.Participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Participant is an actor, object or system lane in a sequence diagram.
type Participant struct {
	ID    string `json:"id"`
	Alias string `json:"alias,omitempty"`
	Actor bool   `json:"actor,omitempty"` // declared with the actor keyword
}

// Message is one exchange between two participants. Endpoints reference
// participants by id; undeclared endpoints are auto-created in order of first
// use, mirroring the flowchart placeholder-node rule.
type Message struct {
	From  string       `json:"from"`
	To    string       `json:"to"`
	Text  string       `json:"text,omitempty"`
	Arrow SeqArrowType `json:"arrow"`
}

// SeqArrowType is the message arrow decoded from the exact operator lexeme.
type SeqArrowType int

const (
	SeqSolidClosed  SeqArrowType = iota // ->>
	SeqSolidOpen                        // ->
	SeqDottedClosed                     // -->>
	SeqDottedOpen                       // -->
	SeqCross                            // -x
	SeqDottedCross                      // --x
	SeqPoint                            // -)
	SeqDottedPoint                      // --)
)

var seqArrowNames = map[SeqArrowType]string{
	SeqSolidClosed:  "solid_closed",
	SeqSolidOpen:    "solid_open",
	SeqDottedClosed: "dotted_closed",
	SeqDottedOpen:   "dotted_open",
	SeqCross:        "cross",
	SeqDottedCross:  "dotted_cross",
	SeqPoint:        "point",
	SeqDottedPoint:  "dotted_point",
}

func (a SeqArrowType) String() string {
	if name, ok := seqArrowNames[a]; ok {
		return name
	}
	return "solid_closed"
}

// SeqNote annotates a participant's lane.
type SeqNote struct {
	Position NotePosition `json:"position"`
	Actor    string       `json:"actor"`
	Text     string       `json:"text"`
}

type NotePosition int

const (
	NoteRightOf NotePosition = iota
	NoteLeftOf
	NoteOver
)

var notePositionNames = map[NotePosition]string{
	NoteRightOf: "right_of",
	NoteLeftOf:  "left_of",
	NoteOver:    "over",
}

func (n NotePosition) String() string {
	if name, ok := notePositionNames[n]; ok {
		return name
	}
	return "right_of"
}

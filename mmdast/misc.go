package mmdast

// Misc is the lenient fallback for top-level keywords that match no known
// grammar. The content is kept as raw lines without structural
// interpretation, which deliberately distinguishes "unrecognized" from
// "invalid": unrecognized input still parses.
type Misc struct {
	// Keyword is the unrecognized first word that routed the text here.
	Keyword string   `json:"keyword"`
	Lines   []string `json:"lines,omitempty"`
}

func (m *Misc) diagram()   {}
func (m *Misc) Kind() Kind { return KindMisc }

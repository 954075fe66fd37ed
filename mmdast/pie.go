package mmdast

// Pie is the AST for the pie chart grammar.
type Pie struct {
	Title    string     `json:"title,omitempty"`
	ShowData bool       `json:"showData,omitempty"`
	Slices   []PieSlice `json:"slices"`
}

func (p *Pie) diagram()   {}
func (p *Pie) Kind() Kind { return KindPie }

// PieSlice is one labeled value. The parser keeps repeated labels as-is;
// the validation pass is what flags them.
type PieSlice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

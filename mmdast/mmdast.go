// mmdast implements the abstract syntax trees for the mermaid family of
// diagram languages.
//
// Every diagram kind gets its own self-contained tree of owned values. All
// relationships inside a tree are expressed through string identifiers
// resolved against the tree's own tables, never through pointers between
// sibling values, so a Diagram is always safe to copy, compare and mutate
// without aliasing surprises.
package mmdast

import (
	"bytes"
	"encoding"
	"errors"
	"fmt"
	"strconv"

	"oss.terrastruct.com/util-go/xdefer"
)

// Diagram is the closed union over all parseable diagram kinds. Exactly one
// concrete type is produced per successful parse.
type Diagram interface {
	diagram()

	// Kind returns the diagram kind tag used for visitor dispatch.
	Kind() Kind
}

var _ Diagram = &Flowchart{}
var _ Diagram = &Sequence{}
var _ Diagram = &Pie{}
var _ Diagram = &Misc{}

// Position is a 1-based line:column pair in the source text.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

var _ fmt.Stringer = Position{}
var _ encoding.TextMarshaler = Position{}
var _ encoding.TextUnmarshaler = &Position{}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Advance moves p past r. Newlines reset the column to 1.
func (p Position) Advance(r rune) Position {
	if r == '\n' {
		p.Line++
		p.Column = 1
	} else {
		p.Column++
	}
	return p
}

func (p Position) Before(p2 Position) bool {
	if p.Line != p2.Line {
		return p.Line < p2.Line
	}
	return p.Column < p2.Column
}

// See docs on Range.
func (p Position) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%d:%d", p.Line, p.Column)), nil
}

// See docs on Range.
func (p *Position) UnmarshalText(b []byte) (err error) {
	defer xdefer.Errorf(&err, "failed to unmarshal Position from %q", b)

	fields := bytes.Split(b, []byte{':'})
	if len(fields) != 2 {
		return errors.New("expected two fields")
	}

	p.Line, err = strconv.Atoi(string(fields[0]))
	if err != nil {
		return err
	}
	p.Column, err = strconv.Atoi(string(fields[1]))
	return err
}

// Range represents a span between Start and End in the source text.
//
// It has a compact text encoding, start-end, so that JSON dumps of ASTs and
// errors stay readable.
type Range struct {
	Start Position
	End   Position
}

var _ fmt.Stringer = Range{}
var _ encoding.TextMarshaler = Range{}
var _ encoding.TextUnmarshaler = &Range{}

// String returns only the start position, which is what error messages want.
func (r Range) String() string {
	return r.Start.String()
}

func (r Range) OneLine() bool {
	return r.Start.Line == r.End.Line
}

// See docs on Range.
func (r Range) MarshalText() ([]byte, error) {
	start, _ := r.Start.MarshalText()
	end, _ := r.End.MarshalText()
	return []byte(fmt.Sprintf("%s-%s", start, end)), nil
}

// See docs on Range.
func (r *Range) UnmarshalText(b []byte) (err error) {
	defer xdefer.Errorf(&err, "failed to unmarshal Range from %q", b)

	i := bytes.LastIndexByte(b, '-')
	if i == -1 {
		return errors.New("missing End field")
	}

	err = r.Start.UnmarshalText(b[:i])
	if err != nil {
		return err
	}
	return r.End.UnmarshalText(b[i+1:])
}

func MakeRange(s string) Range {
	var r Range
	_ = r.UnmarshalText([]byte(s))
	return r
}

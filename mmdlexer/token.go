package mmdlexer

import (
	"fmt"

	"oss.terrastruct.com/mmd/mmdast"
)

// Kind classifies a lexical token.
type Kind int

const (
	EOF Kind = iota
	Newline
	Ident
	String // quoted string, Text holds the decoded content
	Number
	Op   // operator, arrow or delimiter lexeme from the grammar profile
	Text // free label text collected inside a delimiter's text mode
)

var kindNames = map[Kind]string{
	EOF:     "end of input",
	Newline: "newline",
	Ident:   "identifier",
	String:  "string",
	Number:  "number",
	Op:      "operator",
	Text:    "label text",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Token is a classified, located lexical unit. Tokens are ephemeral: they are
// consumed by a grammar parser and never retained in an AST.
type Token struct {
	Kind Kind
	Text string
	Pos  mmdast.Position
}

func (t Token) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Text)
}

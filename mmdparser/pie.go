package mmdparser

import (
	"strconv"
	"strings"

	"oss.terrastruct.com/mmd/mmdast"
	"oss.terrastruct.com/mmd/mmdlexer"
)

// pieProfile covers the entire pie grammar: quoted slice labels, numeric
// values and a colon between them. Titles are free text so they are handled
// on the raw token stream instead of a dedicated op.
var pieProfile = mmdlexer.Profile{
	Ops: []string{":"},
}

type pieParser struct {
	toks    []mmdlexer.Token
	i       int
	recover bool
	errs    []error

	p *mmdast.Pie
}

func parsePie(src string, recover bool) (*mmdast.Pie, error) {
	toks, err := mmdlexer.Tokenize(src, pieProfile)
	if err != nil {
		if !recover {
			return nil, err
		}
		return &mmdast.Pie{}, &ParseError{Errors: []error{err}}
	}

	p := &pieParser{toks: toks, recover: recover, p: &mmdast.Pie{}}

	p.parseHeader()
	for p.peek().Kind != mmdlexer.EOF {
		if p.peek().Kind == mmdlexer.Newline {
			p.i++
			continue
		}
		if err := p.parseStatement(); err != nil {
			if !p.recover {
				return nil, err
			}
			p.errs = append(p.errs, err)
			p.syncToNewline()
		}
	}

	if len(p.errs) > 0 {
		return p.p, &ParseError{Errors: p.errs}
	}
	return p.p, nil
}

// parseHeader consumes "pie" and the optional showData flag on the same line.
func (p *pieParser) parseHeader() {
	if p.peek().Kind == mmdlexer.Ident && strings.EqualFold(p.peek().Text, "pie") {
		p.i++
	}
	if p.peek().Kind == mmdlexer.Ident && p.peek().Text == "showData" {
		p.p.ShowData = true
		p.i++
	}
}

func (p *pieParser) parseStatement() error {
	tok := p.peek()
	switch {
	case tok.Kind == mmdlexer.Ident && tok.Text == "title":
		p.i++
		p.p.Title = p.restOfLine()
		return nil
	case tok.Kind == mmdlexer.Ident && tok.Text == "showData":
		p.p.ShowData = true
		p.i++
		return nil
	case tok.Kind == mmdlexer.String:
		return p.parseSlice()
	default:
		return &mmdast.SyntaxError{
			Pos:      tok.Pos,
			Message:  "unexpected token at start of statement",
			Expected: []string{"title", "showData", "quoted label"},
			Found:    tok.Text,
		}
	}
}

func (p *pieParser) parseSlice() error {
	label := p.peek().Text
	p.i++

	if !(p.peek().Kind == mmdlexer.Op && p.peek().Text == ":") {
		return &mmdast.SyntaxError{
			Pos:      p.peek().Pos,
			Message:  "slice label must be followed by a value",
			Expected: []string{":"},
			Found:    p.peek().Text,
		}
	}
	p.i++

	tok := p.peek()
	if tok.Kind != mmdlexer.Number {
		return &mmdast.SyntaxError{
			Pos:      tok.Pos,
			Message:  "slice value must be a number",
			Expected: []string{"number"},
			Found:    tok.Text,
		}
	}
	value, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil {
		return &mmdast.SyntaxError{
			Pos:      tok.Pos,
			Message:  "slice value must be a number",
			Expected: []string{"number"},
			Found:    tok.Text,
		}
	}
	p.i++

	p.p.Slices = append(p.p.Slices, mmdast.PieSlice{Label: label, Value: value})
	return nil
}

// restOfLine joins every token up to the next newline with single spaces.
// Original spacing is not preserved; mermaid collapses it too.
func (p *pieParser) restOfLine() string {
	var parts []string
	for p.peek().Kind != mmdlexer.Newline && p.peek().Kind != mmdlexer.EOF {
		parts = append(parts, p.peek().Text)
		p.i++
	}
	return strings.Join(parts, " ")
}

func (p *pieParser) syncToNewline() {
	for p.peek().Kind != mmdlexer.Newline && p.peek().Kind != mmdlexer.EOF {
		p.i++
	}
}

func (p *pieParser) peek() mmdlexer.Token {
	if p.i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.i]
}

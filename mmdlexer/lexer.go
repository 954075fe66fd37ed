// mmdlexer is the tokenization framework shared by every grammar of the
// family. A grammar supplies a Profile (operator lexemes, comment markers,
// identifier extensions) and gets back a token stream with 1-based positions.
// Whitespace, comments and blank lines are stripped here so parsers never
// special-case them, while the line counter stays true through skipped text.
package mmdlexer

import (
	"fmt"
	"sort"
	"strings"

	"oss.terrastruct.com/mmd/mmdast"
)

// Profile configures the tokenizer for one grammar of the family.
type Profile struct {
	// Ops are the operator/arrow/delimiter lexemes of the grammar. Matching
	// is maximal munch: at each position the longest lexeme wins, so "-->"
	// is never mis-read as "--" then ">".
	Ops []string

	// LineComments are the comment markers stripped at the lexer boundary.
	// Defaults to %% and // when empty.
	LineComments []string

	// IdentExtra lists bytes allowed inside identifiers beyond
	// [A-Za-z0-9_], e.g. "-" for grammars with dashed keywords.
	IdentExtra string

	// TextAfter maps an opener lexeme to the lexemes that close it. After
	// one of these ops the lexer collects runs of characters raw into Text
	// tokens until a closer, a quote or the end of the line, so free label
	// content like api.example.com needs no quoting. Quoted strings inside
	// keep their escape handling.
	TextAfter map[string][]string
}

func (p Profile) lineComments() []string {
	if len(p.LineComments) == 0 {
		return []string{"%%", "//"}
	}
	return p.LineComments
}

// Tokenize scans src into a complete token stream terminated by an EOF
// token. The only error it can return is *mmdast.LexError.
func Tokenize(src string, p Profile) ([]Token, error) {
	ops := make([]string, len(p.Ops))
	copy(ops, p.Ops)
	sort.Slice(ops, func(i, j int) bool { return len(ops[i]) > len(ops[j]) })

	lx := &lexer{
		src:     src,
		pos:     mmdast.Position{Line: 1, Column: 1},
		ops:     ops,
		profile: p,
	}
	return lx.run()
}

type lexer struct {
	src     string
	off     int // current byte offset
	pos     mmdast.Position
	ops     []string // profile ops, longest first
	profile Profile

	textClosers []string // non-nil while inside a delimiter's text mode

	toks []Token
}

func (lx *lexer) run() ([]Token, error) {
	for !lx.atEnd() {
		if lx.textClosers != nil {
			if err := lx.scanLabel(); err != nil {
				return nil, err
			}
			continue
		}
		ch := lx.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			lx.advance()
		case ch == '\n':
			lx.emitNewline()
			lx.advance()
		case lx.atComment():
			lx.skipLine()
		case ch == '"':
			if err := lx.scanString(); err != nil {
				return nil, err
			}
		case isDigit(ch):
			lx.scanNumber()
		case lx.isIdentStart(ch):
			lx.scanIdent()
		default:
			if !lx.scanOp() {
				return nil, &mmdast.LexError{
					Pos:     lx.pos,
					Message: fmt.Sprintf("unexpected character %q", ch),
				}
			}
		}
	}

	// A trailing newline before EOF is noise for parsers.
	if n := len(lx.toks); n > 0 && lx.toks[n-1].Kind == Newline {
		lx.toks = lx.toks[:n-1]
	}
	lx.toks = append(lx.toks, Token{Kind: EOF, Pos: lx.pos})
	return lx.toks, nil
}

func (lx *lexer) atEnd() bool {
	return lx.off >= len(lx.src)
}

func (lx *lexer) peek() byte {
	if lx.atEnd() {
		return 0
	}
	return lx.src[lx.off]
}

func (lx *lexer) advance() byte {
	ch := lx.src[lx.off]
	lx.off++
	// UTF-8 continuation bytes are zero width for column accounting.
	if ch&0xC0 != 0x80 {
		lx.pos = lx.pos.Advance(rune(ch))
	}
	return ch
}

func (lx *lexer) atComment() bool {
	for _, marker := range lx.profile.lineComments() {
		if strings.HasPrefix(lx.src[lx.off:], marker) {
			return true
		}
	}
	return false
}

// skipLine consumes up to but not including the newline, so the newline
// token after a comment still separates statements.
func (lx *lexer) skipLine() {
	for !lx.atEnd() && lx.peek() != '\n' {
		lx.advance()
	}
}

// emitNewline collapses runs of blank lines into a single separator and
// swallows leading newlines entirely.
func (lx *lexer) emitNewline() {
	if len(lx.toks) == 0 || lx.toks[len(lx.toks)-1].Kind == Newline {
		return
	}
	lx.toks = append(lx.toks, Token{Kind: Newline, Text: "\n", Pos: lx.pos})
}

func (lx *lexer) scanString() error {
	start := lx.pos
	lx.advance() // opening quote

	var sb strings.Builder
	for {
		if lx.atEnd() || lx.peek() == '\n' {
			return &mmdast.LexError{Pos: start, Message: "unterminated string"}
		}
		ch := lx.advance()
		if ch == '"' {
			lx.toks = append(lx.toks, Token{Kind: String, Text: sb.String(), Pos: start})
			return nil
		}
		if ch == '\\' {
			if lx.atEnd() {
				return &mmdast.LexError{Pos: start, Message: "unterminated string escape"}
			}
			switch esc := lx.advance(); esc {
			case '"':
				sb.WriteByte('"')
			case '\\':
				sb.WriteByte('\\')
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			default:
				// Unknown escapes are preserved as written.
				sb.WriteByte('\\')
				sb.WriteByte(esc)
			}
			continue
		}
		sb.WriteByte(ch)
	}
}

func (lx *lexer) scanNumber() {
	start := lx.pos
	startOff := lx.off
	for !lx.atEnd() && isDigit(lx.peek()) {
		lx.advance()
	}
	if !lx.atEnd() && lx.peek() == '.' && lx.off+1 < len(lx.src) && isDigit(lx.src[lx.off+1]) {
		lx.advance()
		for !lx.atEnd() && isDigit(lx.peek()) {
			lx.advance()
		}
	}
	lx.toks = append(lx.toks, Token{Kind: Number, Text: lx.src[startOff:lx.off], Pos: start})
}

func (lx *lexer) scanIdent() {
	start := lx.pos
	startOff := lx.off
	for !lx.atEnd() && lx.isIdentPart(lx.peek()) {
		lx.advance()
	}
	lx.toks = append(lx.toks, Token{Kind: Ident, Text: lx.src[startOff:lx.off], Pos: start})
}

func (lx *lexer) scanOp() bool {
	rest := lx.src[lx.off:]
	for _, op := range lx.ops {
		if strings.HasPrefix(rest, op) {
			start := lx.pos
			for range op {
				lx.advance()
			}
			lx.toks = append(lx.toks, Token{Kind: Op, Text: op, Pos: start})
			if closers, ok := lx.profile.TextAfter[op]; ok {
				lx.textClosers = closers
			}
			return true
		}
	}
	return false
}

// scanLabel handles one step inside a delimiter's text mode. Free text runs
// become single Text tokens regardless of the grammar's lexical rules, so
// label content like api.example.com or Don't panic! parses without quoting.
func (lx *lexer) scanLabel() error {
	for !lx.atEnd() && (lx.peek() == ' ' || lx.peek() == '\t' || lx.peek() == '\r') {
		lx.advance()
	}
	if lx.atEnd() {
		return nil
	}

	if closer := lx.textCloser(); closer != "" {
		start := lx.pos
		for range closer {
			lx.advance()
		}
		lx.toks = append(lx.toks, Token{Kind: Op, Text: closer, Pos: start})
		lx.textClosers = nil
		return nil
	}
	switch lx.peek() {
	case '\n':
		// An unterminated label is the parser's error to report.
		lx.textClosers = nil
		return nil
	case '"':
		return lx.scanString()
	}

	start := lx.pos
	startOff := lx.off
	for !lx.atEnd() && lx.peek() != '\n' && lx.peek() != '"' && lx.textCloser() == "" {
		lx.advance()
	}
	text := strings.TrimRight(lx.src[startOff:lx.off], " \t\r")
	if text != "" {
		lx.toks = append(lx.toks, Token{Kind: Text, Text: text, Pos: start})
	}
	return nil
}

// textCloser returns the closing lexeme at the current offset, preferring the
// longest, or "" when the active text mode does not end here.
func (lx *lexer) textCloser() string {
	best := ""
	for _, closer := range lx.textClosers {
		if strings.HasPrefix(lx.src[lx.off:], closer) && len(closer) > len(best) {
			best = closer
		}
	}
	return best
}

func (lx *lexer) isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func (lx *lexer) isIdentPart(ch byte) bool {
	return lx.isIdentStart(ch) || isDigit(ch) ||
		strings.IndexByte(lx.profile.IdentExtra, ch) >= 0
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

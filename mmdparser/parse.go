// mmdparser turns mermaid diagram text into mmdast trees.
//
// Parsing is pure and synchronous: no I/O, no shared state between calls.
// Callers hand in an already-materialized input and get back either a
// Diagram or an error from the closed taxonomy in mmdast.
package mmdparser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	tunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"oss.terrastruct.com/mmd/mmdast"
)

// DefaultMaxDepth bounds recursive constructs (subgraph nesting) when
// ParseOptions.MaxDepth is zero. Exceeding it is a SyntaxError, not a stack
// overflow.
const DefaultMaxDepth = 50

type ParseOptions struct {
	// MaxDepth overrides DefaultMaxDepth when positive.
	MaxDepth int

	// ParseError collects errors across calls when set, mainly useful for
	// language tooling that parses many snippets into one report.
	ParseError *ParseError
}

func (opts *ParseOptions) maxDepth() int {
	if opts != nil && opts.MaxDepth > 0 {
		return opts.MaxDepth
	}
	return DefaultMaxDepth
}

// ParseError accumulates every error encountered during one recovery-mode
// parse. In fail-fast mode it holds at most one.
type ParseError struct {
	Errors []error `json:"errs"`
}

func (pe *ParseError) Empty() bool {
	return pe == nil || len(pe.Errors) == 0
}

func (pe *ParseError) Error() string {
	var sb strings.Builder
	for i, err := range pe.Errors {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

func (pe *ParseError) Unwrap() []error { return pe.Errors }

// Parse reads a mermaid diagram from r, detects its kind and parses it with
// the registered grammar. It fails fast: the first unrecoverable error aborts
// and is returned.
//
// Input may be UTF-8 or UTF-16 with a byte order mark; the BOM variants are
// transparently decoded the way browsers emit them.
func Parse(r io.Reader, opts *ParseOptions) (mmdast.Diagram, error) {
	text, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return parseText(text, opts, false)
}

// ParseWithRecovery trades strictness for a best-effort partial AST: instead
// of aborting on the first syntax error it records the error, resynchronizes
// at the next statement and keeps going. The returned ParseError is nil when
// the input was clean.
func ParseWithRecovery(r io.Reader, opts *ParseOptions) (mmdast.Diagram, *ParseError) {
	text, err := readAll(r)
	if err != nil {
		return nil, &ParseError{Errors: []error{err}}
	}
	d, perr := parseText(text, opts, true)
	if perr == nil {
		return d, nil
	}
	pe, ok := perr.(*ParseError)
	if !ok {
		pe = &ParseError{Errors: []error{perr}}
	}
	if opts != nil && opts.ParseError != nil {
		opts.ParseError.Errors = append(opts.ParseError.Errors, pe.Errors...)
	}
	return d, pe
}

func parseText(text string, opts *ParseOptions, recover bool) (mmdast.Diagram, error) {
	kind, keyword, err := detect(text)
	if err != nil {
		return nil, err
	}

	switch kind {
	case mmdast.KindFlowchart:
		return parseFlow(text, opts.maxDepth(), recover)
	case mmdast.KindSequence:
		return parseSequence(text, recover)
	case mmdast.KindPie:
		return parsePie(text, recover)
	case mmdast.KindMisc:
		return parseMisc(text, keyword), nil
	default:
		// Recognized keyword, no registered grammar. Deliberately not the
		// misc fallback: a known keyword promises a grammar.
		return nil, &mmdast.UnsupportedDiagramTypeError{Keyword: keyword}
	}
}

func readAll(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", &mmdast.IOError{Message: fmt.Sprintf("reading input: %v", err)}
	}

	// 0xFFFE is invalid UTF-8 so checking for the UTF-16 BOMs is safe.
	if len(b) >= 2 && ((b[0] == 0xFF && b[1] == 0xFE) || (b[0] == 0xFE && b[1] == 0xFF)) {
		dec := tunicode.UTF16(tunicode.LittleEndian, tunicode.UseBOM).NewDecoder()
		b2, _, err := transform.Bytes(dec, b)
		if err != nil {
			return "", &mmdast.IOError{Message: fmt.Sprintf("decoding UTF-16 input: %v", err)}
		}
		b = b2
	}
	b = bytes.TrimPrefix(b, []byte{0xEF, 0xBB, 0xBF})

	return string(b), nil
}

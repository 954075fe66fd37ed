package mmdast

import (
	"fmt"
	"strings"
)

// The error taxonomy lives here rather than in mmdparser so that both the
// parser and the semantic validation pass in mmdcompiler can produce values
// of the same closed set. Every failure in the module is one of these types,
// returned as an ordinary error value; nothing is ever panicked across a
// package boundary.

// EmptyInputError is returned when the input is empty or contains only
// whitespace and comments.
type EmptyInputError struct{}

func (EmptyInputError) Error() string {
	return "input is empty or contains no valid diagram content"
}

// UnknownDiagramTypeError is reserved for an explicit-strict detection mode.
// Lenient detection (the default) never returns it; unrecognized keywords
// fall back to the misc representation instead.
type UnknownDiagramTypeError struct {
	Keyword string
}

func (e *UnknownDiagramTypeError) Error() string {
	return fmt.Sprintf("unknown diagram type: %q", e.Keyword)
}

// UnsupportedDiagramTypeError is returned when the header keyword is
// recognized but no grammar is registered for it. This is distinct from the
// misc fallback on purpose: a recognized keyword promises a grammar, so
// silently degrading it would hide the gap.
type UnsupportedDiagramTypeError struct {
	Keyword string
}

func (e *UnsupportedDiagramTypeError) Error() string {
	return fmt.Sprintf("diagram type %q is not yet supported", e.Keyword)
}

// LexError is an invalid character or malformed literal found while
// tokenizing, located at the offending character (for unterminated strings,
// at the opening quote).
type LexError struct {
	Pos     Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: lexical error: %s", e.Pos, e.Message)
}

// SyntaxError is a grammar violation. Expected lists the token or lexeme
// alternatives that were valid at Pos, Found is the offending text.
type SyntaxError struct {
	Pos      Position
	Message  string
	Expected []string
	Found    string
}

func (e *SyntaxError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", e.Pos, e.Message)
	if len(e.Expected) > 0 {
		fmt.Fprintf(&sb, ". Expected one of: [%s]", strings.Join(e.Expected, ", "))
		if e.Found != "" {
			fmt.Fprintf(&sb, ", but found: %q", e.Found)
		}
	}
	return sb.String()
}

// EnhancedSyntaxError is a SyntaxError plus developer aid: a rendered source
// snippet with a caret under the offending column range, and advisory
// suggestions. Suggestions never alter the parse result.
type EnhancedSyntaxError struct {
	SyntaxError
	Snippet     string
	Suggestions []string
}

// Unwrap exposes the underlying SyntaxError so errors.As sees through the
// enhancement.
func (e *EnhancedSyntaxError) Unwrap() error {
	return &e.SyntaxError
}

func (e *EnhancedSyntaxError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.SyntaxError.Error())
	if e.Snippet != "" {
		sb.WriteByte('\n')
		sb.WriteString(e.Snippet)
	}
	for _, s := range e.Suggestions {
		sb.WriteByte('\n')
		if strings.Contains(s, "http") || strings.HasPrefix(s, "See ") {
			sb.WriteString(" = help: ")
		} else {
			sb.WriteString(" = note: ")
		}
		sb.WriteString(s)
	}
	return sb.String()
}

// SemanticError is valid syntax with invalid meaning, produced only by the
// opt-in validation pass, never by the grammar parsers.
type SemanticError struct {
	Message string
	Context string
}

func (e *SemanticError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("semantic error in %s: %s", e.Context, e.Message)
	}
	return fmt.Sprintf("semantic error: %s", e.Message)
}

// IOError wraps an input acquisition failure from a collaborator, e.g. the
// CLI failing to read a file. The core parsers never perform I/O themselves.
type IOError struct {
	Message string
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error: %s", e.Message)
}

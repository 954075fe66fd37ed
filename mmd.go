// Package mmd parses mermaid diagram text into typed syntax trees.
//
// It is a thin convenience layer over mmdparser for callers that already
// hold the input as a string. Anything streaming or needing options should
// use mmdparser directly.
package mmd

import (
	"strings"

	"oss.terrastruct.com/mmd/mmdast"
	"oss.terrastruct.com/mmd/mmdparser"
)

// Parse detects the diagram kind of text and parses it, failing on the first
// error.
func Parse(text string) (mmdast.Diagram, error) {
	return mmdparser.Parse(strings.NewReader(text), nil)
}

// ParseWithRecovery parses text collecting every error instead of aborting,
// returning a best-effort partial tree alongside them.
func ParseWithRecovery(text string) (mmdast.Diagram, *mmdparser.ParseError) {
	return mmdparser.ParseWithRecovery(strings.NewReader(text), nil)
}

// Detect reports the diagram kind of text without parsing its body.
func Detect(text string) (mmdast.Kind, error) {
	return mmdparser.Detect(text)
}

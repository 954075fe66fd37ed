package mmdparser

import (
	"strings"

	"oss.terrastruct.com/mmd/mmdast"
)

// parseMisc keeps input with an unrecognized header around verbatim so
// callers can still inspect it. It cannot fail: any text that reached it
// already has a meaningful first line.
func parseMisc(src, keyword string) *mmdast.Misc {
	m := &mmdast.Misc{Keyword: keyword}

	sawHeader := false
	for _, raw := range strings.Split(src, "\n") {
		line := strings.TrimSuffix(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if !sawHeader {
			if trimmed == "" || strings.HasPrefix(trimmed, "%%") || strings.HasPrefix(trimmed, "//") {
				continue
			}
			sawHeader = true
			continue
		}
		m.Lines = append(m.Lines, line)
	}

	// Trailing blank lines carry no content.
	for len(m.Lines) > 0 && strings.TrimSpace(m.Lines[len(m.Lines)-1]) == "" {
		m.Lines = m.Lines[:len(m.Lines)-1]
	}
	return m
}

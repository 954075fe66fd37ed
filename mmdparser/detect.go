package mmdparser

import (
	"strings"

	"oss.terrastruct.com/mmd/mmdast"
)

// Detect classifies text by its first meaningful line without parsing the
// body. It fails only on wholly empty or comment-only input; a meaningful
// line that matches no registered keyword designates the misc fallback kind
// rather than an error.
func Detect(text string) (mmdast.Kind, error) {
	kind, _, err := detect(text)
	return kind, err
}

func detect(text string) (mmdast.Kind, string, error) {
	line, ok := firstMeaningfulLine(text)
	if !ok {
		return mmdast.KindMisc, "", mmdast.EmptyInputError{}
	}

	word := line
	if i := strings.IndexAny(word, " \t"); i >= 0 {
		word = word[:i]
	}
	word = strings.TrimSuffix(word, ":")

	// Only an exact match of the first word counts: pie matches but pies
	// does not and falls back to misc. Dashed variants like stateDiagram-v2
	// are their own table entries.
	lower := strings.ToLower(word)
	if kind, ok := mmdast.DiagramKeywords[lower]; ok {
		return kind, lower, nil
	}
	return mmdast.KindMisc, word, nil
}

func firstMeaningfulLine(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "//") || strings.HasPrefix(line, "%%") {
			continue
		}
		return line, true
	}
	return "", false
}

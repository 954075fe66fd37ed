package mmdparser

import (
	"fmt"
	"strings"

	"oss.terrastruct.com/mmd/lib/go2"
	"oss.terrastruct.com/mmd/mmdast"
)

// commonMistakes maps frequently mistyped lexemes to the lexeme the author
// almost certainly wanted. Checked before the edit-distance heuristic so the
// classic mistakes always get the best suggestion.
var commonMistakes = map[string]string{
	"=>":  "-->",
	"->":  "-->",
	"<->": "<-->",
	"..>": "-.->",
	"==":  "===",
	"-":   "---",
}

const maxSuggestionDistance = 2

// suggest produces advisory "did you mean" lines by comparing found against
// the expected lexemes with a bounded edit distance, seeded with a static
// table of known common mistakes. It never affects the parse result.
func suggest(found string, expected []string) []string {
	var out []string
	seen := map[string]bool{}

	if want, ok := commonMistakes[found]; ok {
		out = append(out, fmt.Sprintf("did you mean %q?", want))
		seen[want] = true
	}

	best := ""
	bestDist := maxSuggestionDistance + 1
	for _, exp := range expected {
		if seen[exp] {
			continue
		}
		if d := editDistance(found, exp); d < bestDist {
			best, bestDist = exp, d
		}
	}
	if best != "" && !seen[best] {
		out = append(out, fmt.Sprintf("did you mean %q?", best))
	}

	if len(out) > 0 && isArrowish(found) {
		out = append(out, "See https://mermaid.js.org/syntax/flowchart.html#links-between-nodes")
	}
	return out
}

func isArrowish(s string) bool {
	return strings.ContainsAny(s, "-=<>~.")
}

// editDistance is plain Levenshtein, cheap enough at lexeme lengths.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = go2.Min(go2.Min(cur[j-1]+1, prev[j]+1), prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// renderSnippet shows the offending line with one line of context on each
// side when available, with a caret marker under the offending column range.
func renderSnippet(src string, pos mmdast.Position, width int) string {
	lines := strings.Split(src, "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return ""
	}
	width = go2.Max(width, 1)

	last := go2.Min(pos.Line+1, len(lines))
	gutter := len(fmt.Sprintf("%d", last))
	var sb strings.Builder

	writeLine := func(n int) {
		fmt.Fprintf(&sb, "%*d | %s\n", gutter, n, lines[n-1])
	}

	if pos.Line > 1 {
		writeLine(pos.Line - 1)
	}
	writeLine(pos.Line)
	fmt.Fprintf(&sb, "%s | %s%s\n",
		strings.Repeat(" ", gutter),
		strings.Repeat(" ", pos.Column-1),
		strings.Repeat("^", width))
	if pos.Line < len(lines) {
		writeLine(pos.Line + 1)
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

package mmdparser

import (
	"strings"
	"testing"

	"oss.terrastruct.com/util-go/assert"

	"oss.terrastruct.com/mmd/mmdast"
)

func TestSuggest(t *testing.T) {
	t.Parallel()

	t.Run("common_mistake_first", func(t *testing.T) {
		t.Parallel()

		got := suggest("=>", flowArrowLexemes)
		assert.True(t, len(got) > 0)
		assert.True(t, strings.Contains(got[0], `"-->"`))
	})

	t.Run("edit_distance_bounded", func(t *testing.T) {
		t.Parallel()

		// Nothing within distance 2 of a long garbage lexeme.
		got := suggest("@@@@@@@@", []string{"-->", "---"})
		assert.Equal(t, 0, len(got))
	})

	t.Run("arrowish_gets_docs_link", func(t *testing.T) {
		t.Parallel()

		got := suggest("->", flowArrowLexemes)
		assert.True(t, strings.Contains(got[len(got)-1], "mermaid.js.org"))
	})

	t.Run("non_arrow_no_link", func(t *testing.T) {
		t.Parallel()

		got := suggest("clas", []string{"class"})
		assert.Equal(t, 1, len(got))
		assert.True(t, strings.Contains(got[0], `"class"`))
	})
}

func TestEditDistance(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"=>", "-->", 2},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
	} {
		assert.Equal(t, tc.want, editDistance(tc.a, tc.b))
	}
}

func TestRenderSnippet(t *testing.T) {
	t.Parallel()

	src := "flowchart TD\nA=>B\nC-->D"
	got := renderSnippet(src, mmdast.Position{Line: 2, Column: 2}, 2)

	want := strings.Join([]string{
		"1 | flowchart TD",
		"2 | A=>B",
		"  |  ^^",
		"3 | C-->D",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRenderSnippetLastLine(t *testing.T) {
	t.Parallel()

	got := renderSnippet("graph TD\nA=>B", mmdast.Position{Line: 2, Column: 2}, 2)
	want := strings.Join([]string{
		"1 | graph TD",
		"2 | A=>B",
		"  |  ^^",
	}, "\n")
	assert.Equal(t, want, got)
}

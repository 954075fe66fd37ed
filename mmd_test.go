package mmd_test

import (
	"testing"

	"oss.terrastruct.com/util-go/assert"

	"oss.terrastruct.com/mmd"
	"oss.terrastruct.com/mmd/mmdast"
)

func TestParse(t *testing.T) {
	t.Parallel()

	d, err := mmd.Parse("flowchart TD\nA-->B\n")
	assert.Success(t, err)
	assert.Equal(t, mmdast.KindFlowchart, d.Kind())

	kind, err := mmd.Detect("pie\n\"a\" : 1\n")
	assert.Success(t, err)
	assert.Equal(t, mmdast.KindPie, kind)

	d, pe := mmd.ParseWithRecovery("graph TD\nA => B\nC --> D\n")
	assert.True(t, !pe.Empty())
	assert.Equal(t, 1, len(d.(*mmdast.Flowchart).Edges))
}

package glyph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath_Data(t *testing.T) {
	testCases := []struct {
		name   string
		path   Path
		expect string
	}{
		{
			name:   "empty",
			path:   Path{},
			expect: "",
		},
		{
			name: "single command",
			path: Path{Commands: []Command{{Op: "M", X: 12, Y: 388}}},
			expect: "M 12 388",
		},
		{
			name: "mixed commands",
			path: Path{Commands: []Command{
				{Op: "M", X: 12, Y: 388},
				{Op: "L", X: 4, Y: 99},
				{Op: "L", X: 0, Y: 500},
			}},
			expect: "M 12 388 L 4 99 L 0 500",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expect, testCase.path.Data())
		})
	}
}

func TestGlyph_Counts(t *testing.T) {
	g := &Glyph{
		Canvas: 500,
		Paths: []Path{
			{Commands: make([]Command, 3)},
			{Commands: make([]Command, 1)},
		},
	}
	assert.Equal(t, 2, g.PathCount())
	assert.Equal(t, []int{3, 1}, g.CommandCounts())
}

package genart

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphmint/glyphmint/model/glyph"
	"github.com/glyphmint/glyphmint/model/seed"
)

func golden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"))
}

func TestGenerate_Golden(t *testing.T) {
	content, err := Generate(seed.FromUint64(12345), nil)
	require.NoError(t, err)
	golden(t).Assert(t, "seed_12345", content)
}

func TestGenerate_CompactPaletteGolden(t *testing.T) {
	s, err := seed.FromHex("0xdeadbeef")
	require.NoError(t, err)
	content, err := Generate(s, &Palette{
		MaxPaths:    3,
		MaxCommands: 4,
		CanvasSize:  64,
		Commands:    []string{"M", "L"},
		Colors:      []string{"red", "blue"},
	})
	require.NoError(t, err)
	golden(t).Assert(t, "compact_deadbeef", content)
}

func TestRenderSVG(t *testing.T) {
	g := &glyph.Glyph{
		Canvas: 100,
		Paths: []glyph.Path{
			{
				Commands: []glyph.Command{{Op: "M", X: 1, Y: 2}, {Op: "L", X: 3, Y: 4}},
				Stroke:   "red",
				Fill:     Fill,
			},
		},
	}
	expect := "<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 100 100\" width=\"100\" height=\"100\">\n" +
		"  <path d=\"M 1 2 L 3 4\" fill=\"transparent\" stroke=\"red\"/>\n" +
		"</svg>\n"
	assert.Equal(t, expect, string(RenderSVG(g)))
}

func TestGenerate_MatchesDeriveRender(t *testing.T) {
	s := seed.FromUint64(42)
	g, err := Derive(s, nil)
	require.NoError(t, err)
	content, err := Generate(s, nil)
	require.NoError(t, err)
	assert.Equal(t, RenderSVG(g), content)
}

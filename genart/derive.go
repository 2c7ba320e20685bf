// Package genart expands a 256-bit seed into deterministic vector art. Every
// function is pure: the same seed and palette always produce identical bytes,
// across processes and machines, so published content can be recomputed and
// checked by anyone holding the seed.
package genart

import (
	"github.com/glyphmint/glyphmint/model/glyph"
	"github.com/glyphmint/glyphmint/model/seed"
)

// Derive expands a seed into a glyph within palette bounds. A nil palette
// selects DefaultPalette.
//
// The derivation schedule is frozen alongside Rehash: the seed picks the path
// count, each path seed Rehash(seed, pathIndex) picks the command count and
// stroke color, each command seed Rehash(pathSeed, commandIndex+canvas) picks
// the operation, and two further rehashes pick the x and y coordinate.
func Derive(s seed.Seed, palette *Palette) (*glyph.Glyph, error) {
	if palette == nil {
		palette = DefaultPalette()
	}
	if err := palette.Validate(); err != nil {
		return nil, err
	}
	canvas := uint64(palette.CanvasSize)
	pathCount := int(s.Mod(uint64(palette.MaxPaths))) + 1
	result := &glyph.Glyph{
		Canvas: palette.CanvasSize,
		Paths:  make([]glyph.Path, 0, pathCount),
	}
	for i := 0; i < pathCount; i++ {
		pathSeed := Rehash(s, uint64(i))
		commandCount := int(pathSeed.Mod(uint64(palette.MaxCommands))) + 1
		path := glyph.Path{
			Commands: make([]glyph.Command, 0, commandCount),
			Stroke:   palette.Colors[pathSeed.Mod(uint64(len(palette.Colors)))],
			Fill:     Fill,
		}
		for j := 0; j < commandCount; j++ {
			commandSeed := Rehash(pathSeed, uint64(j)+canvas)
			path.Commands = append(path.Commands, glyph.Command{
				Op: palette.Commands[commandSeed.Mod(uint64(len(palette.Commands)))],
				X:  int(Rehash(commandSeed, 2*canvas).Mod(canvas)),
				Y:  int(Rehash(commandSeed, 2*canvas+1).Mod(canvas)),
			})
		}
		result.Paths = append(result.Paths, path)
	}
	return result, nil
}

// Generate derives a glyph and renders it, returning the final content bytes.
func Generate(s seed.Seed, palette *Palette) ([]byte, error) {
	g, err := Derive(s, palette)
	if err != nil {
		return nil, err
	}
	return RenderSVG(g), nil
}

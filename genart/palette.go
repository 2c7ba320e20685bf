package genart

import "fmt"

// Fill is the fill style applied to every generated path.
const Fill = "transparent"

// Palette bounds the derivation space of the generator: how many paths and
// commands a glyph may have, the canvas size coordinates are reduced to and
// the command and color alphabets draws are taken from. Treat a palette as
// immutable once glyphs were derived with it.
type Palette struct {
	MaxPaths    int      `json:"maxPaths" yaml:"maxPaths"`
	MaxCommands int      `json:"maxCommands" yaml:"maxCommands"`
	CanvasSize  int      `json:"canvasSize" yaml:"canvasSize"`
	Commands    []string `json:"commands" yaml:"commands"`
	Colors      []string `json:"colors" yaml:"colors"`
}

// DefaultPalette returns the stock palette.
func DefaultPalette() *Palette {
	return &Palette{
		MaxPaths:    10,
		MaxCommands: 5,
		CanvasSize:  500,
		Commands:    []string{"M", "L"},
		Colors:      []string{"red", "blue", "green", "yellow", "black", "purple"},
	}
}

// Validate checks that every derivation bound is usable.
func (p *Palette) Validate() error {
	if p.MaxPaths <= 0 {
		return fmt.Errorf("palette: maxPaths was %v, expected positive", p.MaxPaths)
	}
	if p.MaxCommands <= 0 {
		return fmt.Errorf("palette: maxCommands was %v, expected positive", p.MaxCommands)
	}
	if p.CanvasSize <= 0 {
		return fmt.Errorf("palette: canvasSize was %v, expected positive", p.CanvasSize)
	}
	if len(p.Commands) == 0 {
		return fmt.Errorf("palette: command alphabet was empty")
	}
	if len(p.Colors) == 0 {
		return fmt.Errorf("palette: color alphabet was empty")
	}
	return nil
}

// Clone returns a deep copy.
func (p *Palette) Clone() *Palette {
	if p == nil {
		return nil
	}
	result := *p
	result.Commands = append([]string{}, p.Commands...)
	result.Colors = append([]string{}, p.Colors...)
	return &result
}

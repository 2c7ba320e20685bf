// Package glyph models the shape description a seed expands into.
package glyph

import (
	"strconv"
	"strings"
)

// Command is a single path drawing instruction with absolute coordinates.
type Command struct {
	Op string `json:"op" yaml:"op"`
	X  int    `json:"x" yaml:"x"`
	Y  int    `json:"y" yaml:"y"`
}

// Path is an ordered command sequence with stroke and fill styling.
type Path struct {
	Commands []Command `json:"commands" yaml:"commands"`
	Stroke   string    `json:"stroke" yaml:"stroke"`
	Fill     string    `json:"fill" yaml:"fill"`
}

// Glyph is a complete shape description for a square canvas.
type Glyph struct {
	Canvas int    `json:"canvas" yaml:"canvas"`
	Paths  []Path `json:"paths" yaml:"paths"`
}

// Data renders the path commands as SVG path data, i.e. "M 12 388 L 4 99".
func (p *Path) Data() string {
	builder := strings.Builder{}
	for i, command := range p.Commands {
		if i > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(command.Op)
		builder.WriteByte(' ')
		builder.WriteString(strconv.Itoa(command.X))
		builder.WriteByte(' ')
		builder.WriteString(strconv.Itoa(command.Y))
	}
	return builder.String()
}

// PathCount returns the number of paths.
func (g *Glyph) PathCount() int {
	return len(g.Paths)
}

// CommandCounts returns the per path command counts, in path order.
func (g *Glyph) CommandCounts() []int {
	counts := make([]int, 0, len(g.Paths))
	for i := range g.Paths {
		counts = append(counts, len(g.Paths[i].Commands))
	}
	return counts
}

package genart

import (
	"bytes"
	"fmt"

	"github.com/glyphmint/glyphmint/model/glyph"
)

// RenderSVG serializes a glyph as a standalone SVG document. The output is
// byte for byte stable for a given glyph.
func RenderSVG(g *glyph.Glyph) []byte {
	buf := bytes.Buffer{}
	fmt.Fprintf(&buf, "<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" width=\"%d\" height=\"%d\">\n",
		g.Canvas, g.Canvas, g.Canvas, g.Canvas)
	for i := range g.Paths {
		path := &g.Paths[i]
		fmt.Fprintf(&buf, "  <path d=%q fill=%q stroke=%q/>\n", path.Data(), path.Fill, path.Stroke)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

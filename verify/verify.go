// Package verify recomputes published artifacts from their seed so that any
// observer can confirm published content matches what the generator derives.
package verify

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/glyphmint/glyphmint/genart"
	"github.com/glyphmint/glyphmint/model/glyph"
	"github.com/glyphmint/glyphmint/model/seed"
	"github.com/glyphmint/glyphmint/service/artifact/datauri"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/viant/afs"
)

// Report is the outcome of verifying a single published artifact.
type Report struct {
	Match    bool   `json:"match"`
	Diff     string `json:"diff,omitempty"`
	Paths    int    `json:"paths"`
	Commands []int  `json:"commands,omitempty"`
}

// Artifact recomputes the markup for seed and palette and compares it byte for
// byte with the published artifact. The published locator is either a data URI
// document from the datauri publisher or a URL the afs service can download.
// A nil palette recomputes with the default palette. On mismatch the report
// carries a unified diff between the recomputed and the published rendering.
func Artifact(ctx context.Context, s seed.Seed, palette *genart.Palette, published string) (*Report, error) {
	markup, err := publishedMarkup(ctx, published)
	if err != nil {
		return nil, err
	}
	expected, err := genart.Generate(s, palette)
	if err != nil {
		return nil, err
	}
	report := &Report{Match: bytes.Equal(markup, expected)}
	if !report.Match {
		ud := difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(expected)),
			B:        difflib.SplitLines(string(markup)),
			FromFile: "recomputed",
			ToFile:   "published",
			Context:  3,
		}
		diff, err := difflib.GetUnifiedDiffString(ud)
		if err != nil {
			return nil, err
		}
		report.Diff = diff
	}
	for i, data := range PathData(markup) {
		commands, err := ParsePathData([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("failed to parse path %v data: %w", i, err)
		}
		report.Paths++
		report.Commands = append(report.Commands, len(commands))
	}
	return report, nil
}

func publishedMarkup(ctx context.Context, published string) ([]byte, error) {
	if strings.HasPrefix(published, datauri.DocumentPrefix) {
		_, markup, err := datauri.Decode(published)
		return markup, err
	}
	return afs.New().DownloadWithURL(ctx, published)
}

// PathData extracts the raw d attribute of every path element in markup, in
// document order.
func PathData(markup []byte) []string {
	const marker = `<path d="`
	var result []string
	for _, line := range strings.Split(string(markup), "\n") {
		index := strings.Index(line, marker)
		if index == -1 {
			continue
		}
		data := line[index+len(marker):]
		if end := strings.IndexByte(data, '"'); end != -1 {
			result = append(result, data[:end])
		}
	}
	return result
}

// CheckBounds verifies every command uses an operator from the palette
// alphabet and keeps both parameters inside the canvas.
func CheckBounds(commands []glyph.Command, palette *genart.Palette) error {
	if palette == nil {
		palette = genart.DefaultPalette()
	}
	for i, command := range commands {
		if !contains(palette.Commands, command.Op) {
			return fmt.Errorf("command %v: operator %q outside palette alphabet", i, command.Op)
		}
		if command.X < 0 || command.X >= palette.CanvasSize {
			return fmt.Errorf("command %v: x %v outside canvas %v", i, command.X, palette.CanvasSize)
		}
		if command.Y < 0 || command.Y >= palette.CanvasSize {
			return fmt.Errorf("command %v: y %v outside canvas %v", i, command.Y, palette.CanvasSize)
		}
	}
	return nil
}

func contains(values []string, candidate string) bool {
	for _, value := range values {
		if value == candidate {
			return true
		}
	}
	return false
}

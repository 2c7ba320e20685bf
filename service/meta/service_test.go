package meta

import (
	"context"
	"embed"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	_ "github.com/viant/afs/embed"
)

//go:embed testdata/*
var testFS embed.FS

type testPalette struct {
	MaxPaths    int      `yaml:"maxPaths"`
	MaxCommands int      `yaml:"maxCommands"`
	CanvasSize  int      `yaml:"canvasSize"`
	Commands    []string `yaml:"commands"`
	Colors      []string `yaml:"colors"`
}

func TestService_Load(t *testing.T) {
	ctx := context.Background()
	baseURL := t.TempDir()
	document := `maxPaths: 4
maxCommands: 3
canvasSize: 97
commands:
  - M
  - L
colors:
  - ${env.GLYPH_TEST_COLOR}
  - blue
`
	require.NoError(t, os.WriteFile(filepath.Join(baseURL, "palette.yaml"), []byte(document), 0o644))
	t.Setenv("GLYPH_TEST_COLOR", "crimson")

	service := New(afs.New(), baseURL)

	var palette testPalette
	require.NoError(t, service.Load(ctx, "palette.yaml", &palette))
	assert.Equal(t, 4, palette.MaxPaths)
	assert.Equal(t, 3, palette.MaxCommands)
	assert.Equal(t, 97, palette.CanvasSize)
	assert.Equal(t, []string{"M", "L"}, palette.Commands)
	assert.Equal(t, []string{"crimson", "blue"}, palette.Colors)

	var loose map[string]interface{}
	require.NoError(t, service.Load(ctx, "palette.yaml", &loose))
	assert.Equal(t, 4, loose["maxPaths"])
}

func TestService_Load_Embedded(t *testing.T) {
	ctx := context.Background()
	service := New(afs.New(), "embed:///testdata", &testFS)

	var palette testPalette
	require.NoError(t, service.Load(ctx, "palette.yaml", &palette))
	assert.Equal(t, 10, palette.MaxPaths)
	assert.Equal(t, 5, palette.MaxCommands)
	assert.Len(t, palette.Colors, 6)
}

func TestService_Load_Missing(t *testing.T) {
	service := New(afs.New(), t.TempDir())
	var palette testPalette
	assert.Error(t, service.Load(context.Background(), "absent.yaml", &palette))
}

func TestService_Download(t *testing.T) {
	ctx := context.Background()
	baseURL := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(baseURL, "raw.txt"), []byte("payload"), 0o644))

	service := New(afs.New(), baseURL)
	data, err := service.Download(ctx, "raw.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	// Absolute URLs bypass the base URL.
	data, err = service.Download(ctx, filepath.Join(baseURL, "raw.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

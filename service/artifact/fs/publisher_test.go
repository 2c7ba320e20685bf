package fs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"

	"github.com/glyphmint/glyphmint/genart"
	"github.com/glyphmint/glyphmint/model/seed"
)

func TestPublisher_Publish(t *testing.T) {
	ctx := context.Background()
	publisher := New(t.TempDir())

	markup, err := genart.Generate(seed.FromUint64(12345), nil)
	require.NoError(t, err)

	locator, err := publisher.Publish(ctx, 0, markup)
	require.NoError(t, err)
	assert.Contains(t, locator, "0.svg")

	fs := afs.New()
	stored, err := fs.DownloadWithURL(ctx, locator)
	require.NoError(t, err)
	assert.Equal(t, markup, stored)

	locator1, err := publisher.Publish(ctx, 1, []byte("<svg/>"))
	require.NoError(t, err)
	assert.NotEqual(t, locator, locator1)
}

func TestPublisher_Overwrite(t *testing.T) {
	ctx := context.Background()
	publisher := New(t.TempDir())

	_, err := publisher.Publish(ctx, 3, []byte("first"))
	require.NoError(t, err)
	locator, err := publisher.Publish(ctx, 3, []byte("second"))
	require.NoError(t, err)

	stored, err := afs.New().DownloadWithURL(ctx, locator)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), stored)
}

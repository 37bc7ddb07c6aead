package util

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFrame writes a 4x4 PNG whose top-left pixel encodes the frame number,
// so decode order can be verified.
func writeFrame(t *testing.T, dir string, name string, frame int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{R: uint8(frame), A: 255})

	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestLoadDirectoryImageFilesOrder(t *testing.T) {
	dir := t.TempDir()
	// Written out of order on purpose; lexical order would also be wrong
	// (frame-9 sorts after frame-10 numerically, before it lexically).
	writeFrame(t, dir, "frame-10.png", 10)
	writeFrame(t, dir, "frame-9.png", 9)
	writeFrame(t, dir, "frame-2.png", 2)

	images, err := LoadDirectoryImageFiles(dir)
	require.NoError(t, err)
	require.Len(t, images, 3)

	assert.Equal(t, 2, images[0].Frame)
	assert.Equal(t, 9, images[1].Frame)
	assert.Equal(t, 10, images[2].Frame)
	for _, img := range images {
		assert.Greater(t, len(img.Data), 0)
	}
}

func TestDirectorySourceEOF(t *testing.T) {
	dir := t.TempDir()
	writeFrame(t, dir, "frame-1.png", 1)
	writeFrame(t, dir, "frame-2.png", 2)

	src, err := NewDirectorySource(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, src.Len())

	for i := 0; i < 2; i++ {
		frame, err := src.NextFrame()
		require.NoError(t, err)
		require.NotNil(t, frame)
	}

	_, err = src.NextFrame()
	assert.Equal(t, io.EOF, err)
}

func TestDirectorySourceLoop(t *testing.T) {
	dir := t.TempDir()
	writeFrame(t, dir, "frame-1.png", 1)

	src, err := NewDirectorySource(dir)
	require.NoError(t, err)
	src.Loop = true

	for i := 0; i < 5; i++ {
		frame, err := src.NextFrame()
		require.NoError(t, err)
		require.NotNil(t, frame)
	}
}

func TestNewDirectorySourceEmpty(t *testing.T) {
	_, err := NewDirectorySource(t.TempDir())
	assert.Error(t, err)
}

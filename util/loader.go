// Package util - frame sources for files on disk.
package util

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ImageFile is one frame on disk.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Data is the raw bytes of the image file.
	Data []byte
	// Frame is the frame number parsed from the file name.
	Frame int
}

// LoadDirectoryImageFiles reads all image files from a directory, ordered by
// the frame number embedded in names like frame-0042.jpg.
func LoadDirectoryImageFiles(dir string) ([]ImageFile, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "reading frame directory %s", dir)
	}

	var images []ImageFile
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		ext := filepath.Ext(file.Name())
		switch ext {
		case ".jpg", ".jpeg", ".png", ".bmp":
			imgPath := filepath.Join(dir, file.Name())
			data, readErr := os.ReadFile(imgPath)
			if readErr != nil {
				return nil, readErr
			}
			frame, err := strconv.Atoi(strings.TrimSuffix(strings.ReplaceAll(file.Name(), "frame-", ""), ext))
			if err != nil {
				return nil, errors.Wrapf(err, "no frame number in %s", file.Name())
			}
			images = append(images, ImageFile{
				Path:  imgPath,
				Data:  data,
				Frame: frame,
			})
		}
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].Frame < images[j].Frame
	})

	return images, nil
}

// DirectorySource feeds frames from a directory of numbered image files. It
// satisfies pipeline.Source: NextFrame returns io.EOF after the last frame.
type DirectorySource struct {
	files []ImageFile
	next  int
	// Loop restarts from the first frame instead of ending the stream.
	Loop bool
}

// NewDirectorySource loads and orders the frames in dir.
func NewDirectorySource(dir string) (*DirectorySource, error) {
	files, err := LoadDirectoryImageFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no image files in %s", dir)
	}
	return &DirectorySource{files: files}, nil
}

// Len returns the number of frames.
func (d *DirectorySource) Len() int {
	return len(d.files)
}

// NextFrame decodes and returns the next frame in order.
func (d *DirectorySource) NextFrame() (image.Image, error) {
	if d.next >= len(d.files) {
		if !d.Loop {
			return nil, io.EOF
		}
		d.next = 0
	}
	f := d.files[d.next]
	d.next++

	img, _, err := image.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", f.Path)
	}
	return img, nil
}

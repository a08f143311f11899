// Package image provides image loading and a registry of decoded images
// referenced through releasable handles.
package image

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"marker-maker/pkg/geometry"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnknownHandle is returned for handles that were never issued or have
// already been released.
var ErrUnknownHandle = errors.New("unknown image handle")

// Handle is an opaque reference to a decoded image. The zero Handle is
// never issued.
type Handle uint64

// Valid reports whether h could have been issued by a Library.
func (h Handle) Valid() bool { return h != 0 }

// Source is a decoded image together with where it came from.
type Source struct {
	Path   string      // Original file path, empty for readers
	Format string      // Decoder name, e.g. "png"
	Image  image.Image // Decoded image data
}

// Size returns the intrinsic pixel size of the image.
func (s *Source) Size() geometry.Size {
	if s == nil || s.Image == nil {
		return geometry.Size{}
	}
	b := s.Image.Bounds()
	return geometry.NewSize(float64(b.Dx()), float64(b.Dy()))
}

// Library keeps decoded images alive until their handle is released.
type Library struct {
	mu      sync.RWMutex
	next    Handle
	sources map[Handle]*Source
}

// NewLibrary creates an empty library.
func NewLibrary() *Library {
	return &Library{sources: make(map[Handle]*Source)}
}

// Open decodes the image file at path and returns a handle to it.
func (l *Library) Open(path string) (Handle, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	h, err := l.OpenReader(file)
	if err != nil {
		return 0, err
	}

	l.mu.Lock()
	l.sources[h].Path = path
	l.mu.Unlock()
	return h, nil
}

// OpenReader decodes an image from r and returns a handle to it.
func (l *Library) OpenReader(r io.Reader) (Handle, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return 0, fmt.Errorf("failed to decode image: %w", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return 0, fmt.Errorf("failed to decode image: empty %s image", format)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	h := l.next
	l.sources[h] = &Source{Format: format, Image: img}
	return h, nil
}

// Source returns the source behind a handle.
func (l *Library) Source(h Handle) (*Source, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	src, ok := l.sources[h]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	return src, nil
}

// Release drops the image behind h. Releasing twice returns ErrUnknownHandle.
func (l *Library) Release(h Handle) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.sources[h]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownHandle, h)
	}
	delete(l.sources, h)
	return nil
}

// Len returns the number of live handles.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sources)
}

// SupportedFormats returns the list of supported image file extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tiff", ".tif", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// Package imagestore reads work sources and writes annotated results through
// viant/afs, so any storage scheme afs supports (file, mem, s3, gs...) can
// serve as input or output.
package imagestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

var (
	// ErrNotFound is returned when the source location does not exist.
	ErrNotFound = errors.New("imagestore: not found")
	// ErrDecode is returned when the source exists but is not a readable image.
	ErrDecode = errors.New("imagestore: decode failed")
)

// Service loads and stores images.
type Service struct {
	fs          afs.Service
	jpegQuality int
}

// Load reads and decodes the image at URL.
func (s *Service) Load(ctx context.Context, URL string) (image.Image, error) {
	if URL == "" {
		return nil, fmt.Errorf("%w: empty location", ErrNotFound)
	}
	exists, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check if %s exists: %w", URL, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, URL)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", URL, err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, URL, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %s: empty %s image", ErrDecode, URL, format)
	}
	return img, nil
}

// Save encodes img by the URL extension (jpeg for .jpg/.jpeg, png otherwise) and uploads it.
func (s *Service) Save(ctx context.Context, URL string, img image.Image) error {
	if img == nil {
		return fmt.Errorf("nothing to save to %s", URL)
	}
	buf := new(bytes.Buffer)
	var err error
	switch strings.ToLower(path.Ext(url.Path(URL))) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: s.jpegQuality})
	default:
		err = png.Encode(buf, img)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", URL, err)
	}
	if err = s.fs.Upload(ctx, URL, file.DefaultFileOsMode, buf); err != nil {
		return fmt.Errorf("failed to upload %s: %w", URL, err)
	}
	return nil
}

// Option configures Service.
type Option func(s *Service)

// WithFS sets the storage service.
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithJPEGQuality sets the quality used for .jpg outputs.
func WithJPEGQuality(quality int) Option {
	return func(s *Service) {
		s.jpegQuality = quality
	}
}

// New creates an image store.
func New(options ...Option) *Service {
	ret := &Service{jpegQuality: jpeg.DefaultQuality}
	for _, opt := range options {
		opt(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	return ret
}

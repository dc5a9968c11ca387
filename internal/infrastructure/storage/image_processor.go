package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"

	"github.com/disintegration/imaging"
)

// MaxAttachmentSize is the hard cap on a cover payload: 3 MiB.
const MaxAttachmentSize = 3_145_728

// ErrTooLarge is returned when the payload exceeds MaxAttachmentSize.
var ErrTooLarge = errors.New("image exceeds maximum size")

// ErrUnsupportedFormat is returned for payloads that are not jpeg, png or bmp.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ImageProcessor validates cover payloads and renders the catalog thumbnail.
type ImageProcessor struct {
	MaxSize       int64
	ThumbnailSize int
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{
		MaxSize:       MaxAttachmentSize,
		ThumbnailSize: 300,
	}
}

// Validate checks size and decodes the header. It returns the detected
// format ("jpeg", "png", "bmp") so callers never trust the file extension.
func (p *ImageProcessor) Validate(data []byte) (string, error) {
	if int64(len(data)) > p.MaxSize {
		return "", ErrTooLarge
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	switch format {
	case "jpeg", "png", "bmp":
		return format, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// Thumbnail renders the catalog variant: fit into a ThumbnailSize square,
// re-encoded as JPEG quality 90.
func (p *ImageProcessor) Thumbnail(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	resized := imaging.Fit(img, p.ThumbnailSize, p.ThumbnailSize, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("cannot encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

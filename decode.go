package yt

import (
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"os"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Open decodes the image file at path into a base level buffer.
func Open(path string) (*PixelBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %q: %v", ErrDecode, ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	pb, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, path)
	}

	return pb, nil
}

// Decode decodes any registered image format from r.
func Decode(r io.Reader) (*PixelBuffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	pb := FromImage(img)
	if err := pb.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return pb, nil
}

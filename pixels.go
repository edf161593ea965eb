package yt

import (
	"fmt"
	"image"

	"github.com/woozymasta/bcn"
	"golang.org/x/image/draw"
)

// Channels is the number of 8-bit channels per pixel in a PixelBuffer.
const Channels = 4

// PixelBuffer is one mip level: a tightly packed, row-major NRGBA pixel store.
// len(Pix) is always Width*Height*Channels for a valid buffer.
type PixelBuffer struct {
	Pix    []byte
	Width  int
	Height int
}

// NewPixelBuffer allocates a zeroed buffer of the given size.
func NewPixelBuffer(width, height int) *PixelBuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	return &PixelBuffer{
		Pix:    make([]byte, width*height*Channels),
		Width:  width,
		Height: height,
	}
}

// FromImage copies img into a new buffer as non-premultiplied RGBA.
// Premultiplied sources are converted by draw.
func FromImage(img image.Image) *PixelBuffer {
	b := img.Bounds()
	pb := NewPixelBuffer(b.Dx(), b.Dy())
	stride := pb.Width * Channels

	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < pb.Height; y++ {
			src := nrgba.Pix[nrgba.PixOffset(b.Min.X, b.Min.Y+y):]
			copy(pb.Pix[y*stride:(y+1)*stride], src[:stride])
		}
		return pb
	}

	dst := pb.Image()
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	return pb
}

// Validate reports whether the buffer holds at least one pixel and its store
// matches its dimensions.
func (p *PixelBuffer) Validate() error {
	if p == nil || p.Width <= 0 || p.Height <= 0 {
		return ErrEmptyBuffer
	}
	if want := p.Width * p.Height * Channels; len(p.Pix) != want {
		return fmt.Errorf("%w: %dx%d wants %d bytes, have %d", ErrInvalidPixelLength, p.Width, p.Height, want, len(p.Pix))
	}

	return nil
}

// Image returns an image.NRGBA view sharing the buffer's pixel store.
func (p *PixelBuffer) Image() *image.NRGBA {
	return bcn.AsNRGBA(p.Pix, p.Width, p.Height)
}

// at returns the offset of the clamped pixel (x, y).
func (p *PixelBuffer) at(x, y int) int {
	if x >= p.Width {
		x = p.Width - 1
	}
	if y >= p.Height {
		y = p.Height - 1
	}

	return (y*p.Width + x) * Channels
}

package yt

import (
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"
)

// Filter selects the resampling used to derive the next mip level.
type Filter int

const (
	// FilterBox averages each 2x2 neighborhood, clamping at odd edges.
	FilterBox Filter = iota
	// FilterBiLinear uses the x/image bilinear scaler.
	FilterBiLinear
	// FilterCatmullRom uses the x/image Catmull-Rom scaler.
	FilterCatmullRom
)

func (f Filter) String() string {
	switch f {
	case FilterBox:
		return "box"
	case FilterBiLinear:
		return "bilinear"
	case FilterCatmullRom:
		return "catmullrom"
	default:
		return "unknown"
	}
}

// ParseFilter maps a filter name to a Filter.
func ParseFilter(name string) (Filter, error) {
	switch strings.ToLower(name) {
	case "", "box":
		return FilterBox, nil
	case "bilinear":
		return FilterBiLinear, nil
	case "catmullrom", "catmull-rom":
		return FilterCatmullRom, nil
	default:
		return FilterBox, fmt.Errorf("%w: %w: %q", ErrArgument, ErrInvalidFilter, name)
	}
}

// NextMipLevel derives the next level of the halving chain from cur.
// The result is (max(1, w/2), max(1, h/2)); ok is false once cur is 1x1.
func NextMipLevel(cur *PixelBuffer, filter Filter) (next *PixelBuffer, ok bool) {
	if cur == nil || cur.Validate() != nil {
		return nil, false
	}
	if cur.Width == 1 && cur.Height == 1 {
		return nil, false
	}

	w := mipDimension(cur.Width, 1)
	h := mipDimension(cur.Height, 1)

	switch filter {
	case FilterBiLinear:
		return scaleLevel(cur, w, h, draw.BiLinear), true
	case FilterCatmullRom:
		return scaleLevel(cur, w, h, draw.CatmullRom), true
	default:
		return boxLevel(cur, w, h), true
	}
}

// boxLevel downsamples by 2x with a box filter.
// For odd edges the last row/column is replicated.
func boxLevel(src *PixelBuffer, dstW, dstH int) *PixelBuffer {
	dst := NewPixelBuffer(dstW, dstH)

	i := 0
	for y := 0; y < dstH; y++ {
		sy := y * 2
		for x := 0; x < dstW; x++ {
			sx := x * 2
			o00 := src.at(sx, sy)
			o10 := src.at(sx+1, sy)
			o01 := src.at(sx, sy+1)
			o11 := src.at(sx+1, sy+1)
			for c := 0; c < Channels; c++ {
				sum := int(src.Pix[o00+c]) + int(src.Pix[o10+c]) + int(src.Pix[o01+c]) + int(src.Pix[o11+c])
				dst.Pix[i+c] = uint8((sum + 2) / 4) // #nosec G115 -- average of four bytes.
			}
			i += Channels
		}
	}

	return dst
}

// scaleLevel resamples src into a new buffer using an x/image scaler.
func scaleLevel(src *PixelBuffer, dstW, dstH int, scaler draw.Scaler) *PixelBuffer {
	dst := NewPixelBuffer(dstW, dstH)
	dstImg := dst.Image()
	scaler.Scale(dstImg, dstImg.Bounds(), src.Image(), image.Rect(0, 0, src.Width, src.Height), draw.Src, nil)

	return dst
}

// MipCount returns the number of levels in the full halving chain for a
// base of width x height, including the base and the final 1x1 level.
func MipCount(width, height int) (int, error) {
	w, err := u32FromInt(width)
	if err != nil {
		return 0, err
	}
	h, err := u32FromInt(height)
	if err != nil {
		return 0, err
	}
	if w == 0 || h == 0 {
		return 0, ErrEmptyBuffer
	}

	count := 1
	for w > 1 || h > 1 {
		count++
		if w > 1 {
			w /= 2
		}
		if h > 1 {
			h /= 2
		}
	}

	return count, nil
}

// MipDimension returns the size of one axis at the given level.
func MipDimension(base, level int) int {
	return mipDimension(base, level)
}

// mipDimension calculates the dimension of a mipmap level.
func mipDimension(base, level int) int {
	result := base >> level
	if result < 1 {
		return 1
	}

	return result
}

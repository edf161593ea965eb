package yt

import (
	"fmt"
	"math"
	"math/bits"
	"strings"

	"github.com/woozymasta/bcn"
)

// Encoder turns one mip level into its on-disk payload.
//
// ID is written once into the container header and must never change for a
// shipped format, readers key off it. quality is a codec hint where 0 means
// the codec default; encoders that ignore it still accept any value.
type Encoder interface {
	ID() uint32
	Encode(level *PixelBuffer, quality uint8) ([]byte, error)
}

// Format is the closed set of pixel formats a container can hold.
type Format uint32

// Format identifiers follow VkFormat numbering.
const (
	// FormatUnknown is a sentinel for unsupported formats.
	FormatUnknown Format = 0
	// FormatRGBA8 stores raw 8-bit RGBA pixels (VK_FORMAT_R8G8B8A8_UNORM).
	FormatRGBA8 Format = 37
	// FormatBC1 stores 8-byte 4x4 color blocks (VK_FORMAT_BC1_RGBA_UNORM_BLOCK).
	FormatBC1 Format = 133
	// FormatBC5 stores 16-byte 4x4 red/green blocks (VK_FORMAT_BC5_UNORM_BLOCK).
	FormatBC5 Format = 141
)

func (f Format) String() string {
	switch f {
	case FormatRGBA8:
		return "RGBA8"
	case FormatBC1:
		return "BC1"
	case FormatBC5:
		return "BC5"
	default:
		return "Unknown"
	}
}

// ParseFormat maps a format name (rgba, rgba8, bc1, dxt1, bc5, ati2) to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "rgba", "rgba8":
		return FormatRGBA8, nil
	case "bc1", "dxt1":
		return FormatBC1, nil
	case "bc5", "ati2":
		return FormatBC5, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: %w: %q", ErrArgument, ErrInvalidFormat, name)
	}
}

// FormatFromID returns the Format for a header format id.
func FormatFromID(id uint32) (Format, error) {
	switch f := Format(id); f {
	case FormatRGBA8, FormatBC1, FormatBC5:
		return f, nil
	default:
		return FormatUnknown, fmt.Errorf("%w: id %d", ErrInvalidFormat, id)
	}
}

// ID returns the header format identifier.
func (f Format) ID() uint32 {
	return uint32(f)
}

// BlockSize returns bytes per 4x4 block, or 0 for uncompressed formats.
func (f Format) BlockSize() int {
	switch f {
	case FormatBC1:
		return 8
	case FormatBC5:
		return 16
	default:
		return 0
	}
}

// PayloadSize returns the encoded byte length of a width x height level,
// or -1 for unknown formats.
func (f Format) PayloadSize(width, height int) int {
	switch f {
	case FormatRGBA8:
		return width * height * Channels
	case FormatBC1, FormatBC5:
		return ceilDiv4(width) * ceilDiv4(height) * f.BlockSize()
	default:
		return -1
	}
}

// payloadSize64 is PayloadSize for dimensions read from untrusted headers.
func (f Format) payloadSize64(width, height uint32) (int64, error) {
	var units, unit uint64
	switch f {
	case FormatRGBA8:
		units, unit = uint64(width)*uint64(height), Channels
	case FormatBC1, FormatBC5:
		units = (uint64(width) + 3) / 4 * ((uint64(height) + 3) / 4)
		unit = uint64(f.BlockSize())
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidFormat, f)
	}

	hi, lo := bits.Mul64(units, unit)
	if hi != 0 || lo > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %dx%d", ErrSizeOverflow, width, height)
	}

	return int64(lo), nil
}

// Encode encodes one level with default worker settings.
func (f Format) Encode(level *PixelBuffer, quality uint8) ([]byte, error) {
	return Codec{Format: f}.Encode(level, quality)
}

// Codec is a Format bound to block-encoder tuning.
type Codec struct {
	// Workers controls parallel block encoding for BC formats.
	// 0 = auto (GOMAXPROCS), 1 = no parallelism.
	Workers int
	Format  Format
}

// ID returns the header format identifier.
func (c Codec) ID() uint32 {
	return c.Format.ID()
}

// Encode encodes one level. RGBA8 copies the pixel store as is; BC1 and BC5
// pad partial edge blocks by replicating the last row/column, so any size
// of at least 1x1 encodes.
func (c Codec) Encode(level *PixelBuffer, quality uint8) ([]byte, error) {
	if err := level.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEncode, c.Format, err)
	}

	switch c.Format {
	case FormatRGBA8:
		out := make([]byte, len(level.Pix))
		copy(out, level.Pix)
		return out, nil
	case FormatBC1:
		data, err := bcn.EncodeDXT1WithOptions(level.Pix, level.Width, level.Height, c.encodeOptions(quality))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrEncode, c.Format, err)
		}
		return data, nil
	case FormatBC5:
		data, _, _, err := bcn.EncodeImageWithOptions(level.Image(), bcn.FormatBC5, c.encodeOptions(quality))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrEncode, c.Format, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %w: %d", ErrEncode, ErrInvalidFormat, uint32(c.Format))
	}
}

// encodeOptions maps the container quality hint onto bcn quality levels.
// 0 keeps the bcn default (balanced); bcn clamps values above its maximum.
func (c Codec) encodeOptions(quality uint8) *bcn.EncodeOptions {
	return &bcn.EncodeOptions{
		QualityLevel: int(quality),
		Workers:      c.Workers,
	}
}

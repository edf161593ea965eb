package yt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/bits"
	"os"
)

// Header is the fixed container header.
type Header struct {
	Magic     [4]byte
	ImageType uint32
	Version   uint32
	Width     uint32
	Height    uint32
	MipCount  uint32
	FormatID  uint32
}

// Format returns the pixel format named by the header.
func (h *Header) Format() (Format, error) {
	return FormatFromID(h.FormatID)
}

// LevelSizes returns the payload length of every level the header announces,
// base level first. Levels carry no length prefix, so this is the only way to
// locate them. A mip count outside the halving chain of the header
// dimensions is rejected before anything is allocated.
func (h *Header) LevelSizes() ([]int64, error) {
	format, err := h.Format()
	if err != nil {
		return nil, err
	}

	chain := bits.Len32(max(h.Width, h.Height))
	if h.MipCount == 0 || int64(h.MipCount) > int64(chain) {
		return nil, fmt.Errorf("%w: %dx%d with %d levels", ErrPayloadSizeMismatch, h.Width, h.Height, h.MipCount)
	}

	sizes := make([]int64, h.MipCount)
	for i := range sizes {
		w := max(1, h.Width>>i)
		hh := max(1, h.Height>>i)
		if sizes[i], err = format.payloadSize64(w, hh); err != nil {
			return nil, err
		}
	}

	return sizes, nil
}

// PayloadSize returns the total length of all level payloads.
func (h *Header) PayloadSize() (int64, error) {
	sizes, err := h.LevelSizes()
	if err != nil {
		return 0, err
	}

	var total int64
	for _, s := range sizes {
		if total > math.MaxInt64-s {
			return 0, fmt.Errorf("%w: %dx%d with %d levels", ErrSizeOverflow, h.Width, h.Height, h.MipCount)
		}
		total += s
	}

	return total, nil
}

// ReadHeader reads and validates a container header from r.
func ReadHeader(r io.Reader) (*Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadHeader, err)
	}

	h := &Header{
		ImageType: binary.LittleEndian.Uint32(buf[4:8]),
		Version:   binary.LittleEndian.Uint32(buf[8:12]),
		Width:     binary.LittleEndian.Uint32(buf[12:16]),
		Height:    binary.LittleEndian.Uint32(buf[16:20]),
		MipCount:  binary.LittleEndian.Uint32(buf[20:24]),
		FormatID:  binary.LittleEndian.Uint32(buf[24:28]),
	}
	copy(h.Magic[:], buf[0:4])

	if string(h.Magic[:]) != Magic {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, h.Magic[:])
	}
	if h.ImageType != ImageType {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedImageType, h.ImageType)
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if _, err := h.Format(); err != nil {
		return nil, err
	}

	return h, nil
}

// ReadHeaderFile reads the header of the container at path.
func ReadHeaderFile(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	return ReadHeader(f)
}

// CheckFile reads the header of the container at path and verifies that the
// file holds exactly the level payloads the header announces.
func CheckFile(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	defer func() { _ = f.Close() }()

	h, err := ReadHeader(f)
	if err != nil {
		return nil, err
	}
	payload, err := h.PayloadSize()
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrOpenFile, path, err)
	}
	if got := info.Size() - HeaderSize; got != payload {
		return nil, fmt.Errorf("%w: header announces %d bytes, file holds %d", ErrPayloadSizeMismatch, payload, got)
	}

	return h, nil
}

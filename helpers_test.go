package yt

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// memSink is an in-memory io.WriteSeeker.
type memSink struct {
	buf []byte
	pos int64
}

func (m *memSink) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *memSink) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = m.pos + offset
	case io.SeekEnd:
		abs = int64(len(m.buf)) + offset
	default:
		return 0, errors.New("bad whence")
	}
	if abs < 0 {
		return 0, errors.New("negative position")
	}
	m.pos = abs
	return abs, nil
}

var errSinkFull = errors.New("sink full")

// limitedSink fails every write once limit bytes have been accepted.
type limitedSink struct {
	memSink
	limit int
}

func (l *limitedSink) Write(p []byte) (int, error) {
	if l.pos+int64(len(p)) > int64(l.limit) {
		return 0, errSinkFull
	}
	return l.memSink.Write(p)
}

// noSeekSink accepts writes but cannot seek backwards.
type noSeekSink struct {
	memSink
}

func (n *noSeekSink) Seek(offset int64, whence int) (int64, error) {
	if whence == io.SeekCurrent && offset == 0 {
		return n.pos, nil
	}
	return 0, errors.New("not seekable")
}

// failingEncoder wraps a Format and fails from the given level on.
type failingEncoder struct {
	format Format
	failAt int
	calls  int
}

func (f *failingEncoder) ID() uint32 { return f.format.ID() }

func (f *failingEncoder) Encode(level *PixelBuffer, quality uint8) ([]byte, error) {
	n := f.calls
	f.calls++
	if n >= f.failAt {
		return nil, errors.New("synthetic encode failure")
	}
	return f.format.Encode(level, quality)
}

// patternBuffer builds a deterministic buffer with mixed frequencies.
func patternBuffer(width, height int) *PixelBuffer {
	pb := NewPixelBuffer(width, height)
	i := 0
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pb.Pix[i+0] = uint8((x*7 + y*3) & 0xff)        //nolint:gosec // bounded by mask
			pb.Pix[i+1] = uint8((x*13 + y*5) & 0xff)       //nolint:gosec // bounded by mask
			pb.Pix[i+2] = uint8((x ^ y ^ (x >> 2)) & 0xff) //nolint:gosec // bounded by mask
			pb.Pix[i+3] = 255
			i += Channels
		}
	}
	return pb
}

func mustHeader(t *testing.T, data []byte) *Header {
	t.Helper()

	h, err := ReadHeader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	return h
}

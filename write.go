package yt

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
)

const (
	// Magic is the container magic token.
	Magic = "yave"
	// ImageType is the image type tag of a plain 2D texture.
	ImageType = 2
	// Version is the container revision written by this package.
	Version = 1

	// HeaderSize is the fixed header length in bytes.
	HeaderSize = 28
	// MipCountOffset is the byte offset of the patched mip count word.
	MipCountOffset = 20
)

// WriteOptions configures container encoding. Nil options use defaults.
type WriteOptions struct {
	// Format selects the pixel format (default RGBA8).
	Format Format
	// Filter selects mip resampling (default box).
	Filter Filter
	// MaxMipMaps caps the number of levels. 0 means full chain.
	MaxMipMaps int
	// Workers controls parallel block encoding for BC formats.
	Workers int
	// Quality is the codec quality hint, 0 = codec default.
	Quality uint8
}

func (o *WriteOptions) normalize() (WriteOptions, error) {
	var out WriteOptions
	if o != nil {
		out = *o
	}
	if out.Format == FormatUnknown {
		out.Format = FormatRGBA8
	}
	if _, err := FormatFromID(out.Format.ID()); err != nil {
		return out, fmt.Errorf("%w: %w", ErrArgument, err)
	}
	if out.MaxMipMaps < 0 {
		return out, fmt.Errorf("%w: max mipmaps %d", ErrArgument, out.MaxMipMaps)
	}
	if out.Workers < 0 {
		return out, fmt.Errorf("%w: workers %d", ErrArgument, out.Workers)
	}
	switch out.Filter {
	case FilterBox, FilterBiLinear, FilterCatmullRom:
	default:
		return out, fmt.Errorf("%w: %w: %d", ErrArgument, ErrInvalidFilter, out.Filter)
	}

	return out, nil
}

// Result describes a finished container.
type Result struct {
	Format Format
	Width  int
	Height int
	// Levels is the number of mip levels written (the patched mip count).
	Levels int
	// Bytes is the container length including the header.
	Bytes int64
}

type writerState int

const (
	stateHeaderWritten writerState = iota
	stateLevelsInFlight
	statePatched
	stateFailed
)

// Writer streams a container: header first, then level payloads largest
// first, then a single backward patch of the mip count.
//
// The sink is owned exclusively by the Writer until Finish returns.
type Writer struct {
	ws     io.WriteSeeker
	start  int64
	end    int64
	levels uint32
	state  writerState
}

// NewWriter writes the container header at the current position of ws.
// The mip count word is written as 0 and patched by Finish.
func NewWriter(ws io.WriteSeeker, width, height int, formatID uint32) (*Writer, error) {
	w32, err := u32FromInt(width)
	if err != nil {
		return nil, fmt.Errorf("%w: width: %w", ErrArgument, err)
	}
	h32, err := u32FromInt(height)
	if err != nil {
		return nil, fmt.Errorf("%w: height: %w", ErrArgument, err)
	}
	if w32 == 0 || h32 == 0 {
		return nil, fmt.Errorf("%w: %w: %dx%d", ErrArgument, ErrEmptyBuffer, width, height)
	}

	start, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrIO, ErrWriteHeader, err)
	}

	var hdr [HeaderSize]byte
	copy(hdr[0:4], Magic)
	binary.LittleEndian.PutUint32(hdr[4:8], ImageType)
	binary.LittleEndian.PutUint32(hdr[8:12], Version)
	binary.LittleEndian.PutUint32(hdr[12:16], w32)
	binary.LittleEndian.PutUint32(hdr[16:20], h32)
	binary.LittleEndian.PutUint32(hdr[20:24], 0)
	binary.LittleEndian.PutUint32(hdr[24:28], formatID)
	if _, err := ws.Write(hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: %w: %v", ErrIO, ErrWriteHeader, err)
	}

	return &Writer{
		ws:    ws,
		start: start,
		end:   start + HeaderSize,
		state: stateHeaderWritten,
	}, nil
}

// WriteLevel appends the next level payload.
func (w *Writer) WriteLevel(payload []byte) error {
	if w.state == statePatched || w.state == stateFailed {
		return ErrWriterState
	}
	if _, err := w.ws.Write(payload); err != nil {
		w.state = stateFailed
		return fmt.Errorf("%w: %w: mipmap %d: %v", ErrIO, ErrWriteLevel, w.levels, err)
	}

	w.state = stateLevelsInFlight
	w.levels++
	w.end += int64(len(payload))

	return nil
}

// Levels returns the number of level payloads written so far.
func (w *Writer) Levels() int {
	return int(w.levels)
}

// Finish patches the mip count word and leaves the sink positioned at the
// end of the container. At least one level must have been written.
// After any failed write or seek the Writer only returns ErrWriterState.
func (w *Writer) Finish() error {
	if w.state != stateLevelsInFlight {
		return ErrWriterState
	}

	if _, err := w.ws.Seek(w.start+MipCountOffset, io.SeekStart); err != nil {
		w.state = stateFailed
		return fmt.Errorf("%w: %w: %v", ErrIO, ErrSeekMipCount, err)
	}
	var word [4]byte
	binary.LittleEndian.PutUint32(word[:], w.levels)
	if _, err := w.ws.Write(word[:]); err != nil {
		w.state = stateFailed
		return fmt.Errorf("%w: %w: %v", ErrIO, ErrWriteMipCount, err)
	}
	if _, err := w.ws.Seek(w.end, io.SeekStart); err != nil {
		w.state = stateFailed
		return fmt.Errorf("%w: %w: %v", ErrIO, ErrSeekMipCount, err)
	}

	w.state = statePatched
	return nil
}

// Size returns the number of container bytes written.
func (w *Writer) Size() int64 {
	return w.end - w.start
}

// Encode writes a complete container for src into ws using the format from opts.
func Encode(ws io.WriteSeeker, src *PixelBuffer, opts *WriteOptions) (*Result, error) {
	o, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	return encode(ws, src, Codec{Format: o.Format, Workers: o.Workers}, o)
}

// EncodeWith writes a complete container for src into ws using enc.
// opts.Format is ignored.
//
// The base level must encode, otherwise the whole operation fails. A failing
// later level ends the chain early and the container keeps the levels that
// were already written. Any I/O failure is fatal and leaves ws holding garbage.
func EncodeWith(ws io.WriteSeeker, src *PixelBuffer, enc Encoder, opts *WriteOptions) (*Result, error) {
	o, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	return encode(ws, src, enc, o)
}

// encode runs the level loop with already normalized options.
func encode(ws io.WriteSeeker, src *PixelBuffer, enc Encoder, o WriteOptions) (*Result, error) {
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	log := Logger().With(slog.Int("width", src.Width), slog.Int("height", src.Height), slog.Uint64("format", uint64(enc.ID())))

	w, err := NewWriter(ws, src.Width, src.Height, enc.ID())
	if err != nil {
		return nil, err
	}

	data, err := enc.Encode(src, o.Quality)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrEncode, ErrBaseLevel, err)
	}
	if err := w.WriteLevel(data); err != nil {
		return nil, err
	}
	log.Debug("level encoded", "level", 0, "bytes", len(data))

	level := src
	for o.MaxMipMaps == 0 || w.Levels() < o.MaxMipMaps {
		next, ok := NextMipLevel(level, o.Filter)
		if !ok {
			break
		}

		data, err := enc.Encode(next, o.Quality)
		if err != nil {
			log.Warn("mip chain cut short", "level", w.Levels(), "size", fmt.Sprintf("%dx%d", next.Width, next.Height), "error", err)
			break
		}
		if err := w.WriteLevel(data); err != nil {
			return nil, err
		}
		log.Debug("level encoded", "level", w.Levels()-1, "size", fmt.Sprintf("%dx%d", next.Width, next.Height), "bytes", len(data))

		level = next
	}

	if err := w.Finish(); err != nil {
		return nil, err
	}

	format, _ := FormatFromID(enc.ID())
	return &Result{
		Format: format,
		Width:  src.Width,
		Height: src.Height,
		Levels: w.Levels(),
		Bytes:  w.Size(),
	}, nil
}

// WriteLevels writes a container from pre-encoded level payloads.
// The levels slice must be ordered from largest to smallest and every payload
// must have the length the format implies for its level.
func WriteLevels(ws io.WriteSeeker, format Format, width, height int, levels [][]byte) (*Result, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrArgument, ErrEmptyMipmaps)
	}
	if _, err := FormatFromID(format.ID()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArgument, err)
	}
	if count, err := MipCount(width, height); err != nil || len(levels) > count {
		return nil, fmt.Errorf("%w: %w: %d levels for %dx%d", ErrArgument, ErrMipmapSizeMismatch, len(levels), width, height)
	}
	for i, data := range levels {
		want := format.PayloadSize(mipDimension(width, i), mipDimension(height, i))
		if len(data) != want {
			return nil, fmt.Errorf("%w: %w: mipmap %d: expected %d, got %d", ErrArgument, ErrMipmapSizeMismatch, i, want, len(data))
		}
	}

	w, err := NewWriter(ws, width, height, format.ID())
	if err != nil {
		return nil, err
	}
	for _, data := range levels {
		if err := w.WriteLevel(data); err != nil {
			return nil, err
		}
	}
	if err := w.Finish(); err != nil {
		return nil, err
	}

	return &Result{
		Format: format,
		Width:  width,
		Height: height,
		Levels: w.Levels(),
		Bytes:  w.Size(),
	}, nil
}

// WriteFile writes a container for src to path. On failure the partial file
// is removed.
func WriteFile(path string, src *PixelBuffer, opts *WriteOptions) (*Result, error) {
	o, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	return writeFile(path, src, o)
}

func writeFile(path string, src *PixelBuffer, o WriteOptions) (res *Result, err error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %q: %v", ErrIO, ErrCreateFile, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w: %q: %v", ErrIO, ErrCloseFile, path, cerr)
		}
		if err != nil {
			res = nil
			_ = os.Remove(path)
		}
	}()

	sink := newBufferedSink(f)
	res, err = encode(sink, src, Codec{Format: o.Format, Workers: o.Workers}, o)
	if err != nil {
		return nil, err
	}
	if err := sink.Flush(); err != nil {
		return nil, err
	}

	return res, nil
}

// ConvertFile decodes the image at srcPath and writes its container to dstPath.
func ConvertFile(srcPath, dstPath string, opts *WriteOptions) (*Result, error) {
	o, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	src, err := Open(srcPath)
	if err != nil {
		return nil, err
	}

	return writeFile(dstPath, src, o)
}

// bufferedSink batches writes and flushes before every seek, so the one
// backward patch never interleaves with unflushed level data.
type bufferedSink struct {
	ws io.WriteSeeker
	bw *bufio.Writer
}

func newBufferedSink(ws io.WriteSeeker) *bufferedSink {
	return &bufferedSink{ws: ws, bw: bufio.NewWriterSize(ws, 256*1024)}
}

func (s *bufferedSink) Write(p []byte) (int, error) {
	return s.bw.Write(p)
}

func (s *bufferedSink) Seek(offset int64, whence int) (int64, error) {
	if err := s.bw.Flush(); err != nil {
		return 0, err
	}

	return s.ws.Seek(offset, whence)
}

func (s *bufferedSink) Flush() error {
	if err := s.bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w: %v", ErrIO, ErrFlush, err)
	}

	return nil
}

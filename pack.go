package yt

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// PackMethod selects whole-file compression for distributing finished
// containers. Packing never changes the container format itself.
type PackMethod int

const (
	// PackNone leaves the container as is.
	PackNone PackMethod = iota
	// PackLZ4 wraps the container in an LZ4 frame (.lz4).
	PackLZ4
	// PackZstd wraps the container in a zstd frame (.zst).
	PackZstd
)

func (m PackMethod) String() string {
	switch m {
	case PackNone:
		return "none"
	case PackLZ4:
		return "lz4"
	case PackZstd:
		return "zstd"
	default:
		return "unknown"
	}
}

// Ext returns the file extension appended by the method.
func (m PackMethod) Ext() string {
	switch m {
	case PackLZ4:
		return ".lz4"
	case PackZstd:
		return ".zst"
	default:
		return ""
	}
}

// ParsePackMethod maps a method name to a PackMethod.
func ParsePackMethod(name string) (PackMethod, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return PackNone, nil
	case "lz4":
		return PackLZ4, nil
	case "zstd", "zst":
		return PackZstd, nil
	default:
		return PackNone, fmt.Errorf("%w: %w: %q", ErrArgument, ErrInvalidPackMethod, name)
	}
}

// Pack compresses the file at path into path+m.Ext() and returns the new
// path. PackNone returns path unchanged.
func Pack(path string, m PackMethod) (out string, err error) {
	if m == PackNone {
		return path, nil
	}
	if m != PackLZ4 && m != PackZstd {
		return "", fmt.Errorf("%w: %w: %d", ErrArgument, ErrInvalidPackMethod, m)
	}

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w: %q: %v", ErrPack, ErrOpenFile, path, err)
	}
	defer func() { _ = src.Close() }()

	out = path + m.Ext()
	dst, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("%w: %w: %q: %v", ErrPack, ErrCreateFile, out, err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w: %q: %v", ErrPack, ErrCloseFile, out, cerr)
		}
		if err != nil {
			_ = os.Remove(out)
			out = ""
		}
	}()

	if err := PackStream(dst, src, m); err != nil {
		return "", err
	}

	return out, nil
}

// PackStream compresses r into w with the given method.
func PackStream(w io.Writer, r io.Reader, m PackMethod) error {
	switch m {
	case PackNone:
		if _, err := io.Copy(w, r); err != nil {
			return fmt.Errorf("%w: %v", ErrPack, err)
		}
		return nil
	case PackLZ4:
		zw := lz4.NewWriter(w)
		if err := zw.Apply(lz4.CompressionLevelOption(lz4.Level9), lz4.ChecksumOption(true)); err != nil {
			return fmt.Errorf("%w: lz4: %v", ErrPack, err)
		}
		if _, err := io.Copy(zw, r); err != nil {
			return fmt.Errorf("%w: lz4: %v", ErrPack, err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("%w: lz4: %v", ErrPack, err)
		}
		return nil
	case PackZstd:
		enc, err := zstd.NewWriter(w,
			zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return fmt.Errorf("%w: zstd: %v", ErrPack, err)
		}
		if _, err := io.Copy(enc, r); err != nil {
			_ = enc.Close()
			return fmt.Errorf("%w: zstd: %v", ErrPack, err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("%w: zstd: %v", ErrPack, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %w: %d", ErrArgument, ErrInvalidPackMethod, m)
	}
}

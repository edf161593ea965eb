package yt

import "errors"

// Error classes. Every error returned by this package wraps exactly one of
// these, so callers can decide how to report a failed file with errors.Is.
var (
	// ErrDecode indicates the source image could not be decoded.
	ErrDecode = errors.New("decode failed")
	// ErrEncode indicates a codec failed to produce a level payload.
	ErrEncode = errors.New("encode failed")
	// ErrIO indicates writing to or seeking the output sink failed.
	ErrIO = errors.New("I/O failed")
	// ErrArgument indicates an invalid format, quality or option value.
	ErrArgument = errors.New("invalid argument")
)

var (
	// ErrSizeOverflow indicates a size or dimension exceeds supported limits.
	ErrSizeOverflow = errors.New("size overflow")
	// ErrInvalidFormat indicates an unsupported pixel format.
	ErrInvalidFormat = errors.New("invalid format")
	// ErrInvalidFilter indicates an unsupported mipmap filter.
	ErrInvalidFilter = errors.New("invalid mipmap filter")
	// ErrInvalidPackMethod indicates an unsupported pack method.
	ErrInvalidPackMethod = errors.New("invalid pack method")
	// ErrEmptyBuffer indicates a pixel buffer without pixels.
	ErrEmptyBuffer = errors.New("empty pixel buffer")
	// ErrInvalidPixelLength indicates the pixel store does not match the dimensions.
	ErrInvalidPixelLength = errors.New("pixel store length mismatch")
	// ErrEmptyMipmaps indicates missing level payloads.
	ErrEmptyMipmaps = errors.New("empty mipmaps")
	// ErrMipmapSizeMismatch indicates a level payload size mismatch.
	ErrMipmapSizeMismatch = errors.New("mipmap size mismatch")
	// ErrBaseLevel indicates the base level could not be encoded.
	ErrBaseLevel = errors.New("base level encode failed")
	// ErrWriterState indicates a container writer call out of order.
	ErrWriterState = errors.New("container writer used out of order")

	// ErrOpenFile indicates a file open failed.
	ErrOpenFile = errors.New("open file failed")
	// ErrCreateFile indicates output file creation failed.
	ErrCreateFile = errors.New("create file failed")
	// ErrWriteHeader indicates the container header write failed.
	ErrWriteHeader = errors.New("writing header failed")
	// ErrWriteLevel indicates a level payload write failed.
	ErrWriteLevel = errors.New("writing level payload failed")
	// ErrSeekMipCount indicates seeking to the mip count word failed.
	ErrSeekMipCount = errors.New("seek to mip count failed")
	// ErrWriteMipCount indicates patching the mip count word failed.
	ErrWriteMipCount = errors.New("writing mip count failed")
	// ErrFlush indicates flushing buffered output failed.
	ErrFlush = errors.New("flush failed")
	// ErrCloseFile indicates closing the output file failed.
	ErrCloseFile = errors.New("close file failed")

	// ErrReadHeader indicates the container header read failed.
	ErrReadHeader = errors.New("reading header failed")
	// ErrBadMagic indicates the stream is not a yt container.
	ErrBadMagic = errors.New("bad magic")
	// ErrUnsupportedVersion indicates an unknown container revision.
	ErrUnsupportedVersion = errors.New("unsupported version")
	// ErrUnsupportedImageType indicates an unknown image type tag.
	ErrUnsupportedImageType = errors.New("unsupported image type")
	// ErrPayloadSizeMismatch indicates the container length does not match its header.
	ErrPayloadSizeMismatch = errors.New("payload size mismatch")

	// ErrPack indicates packing a finished container failed.
	ErrPack = errors.New("pack failed")
)

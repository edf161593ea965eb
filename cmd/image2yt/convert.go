package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/woozymasta/yt"
)

type ConvertCmd struct {
	Format  string `help:"Pixel format of every level" enum:"rgba,bc1,bc5" default:"rgba"`
	Quality uint8  `help:"Codec quality hint (0 = codec default, 1..10 for BC formats)" default:"0"`
	Filter  string `help:"Mip resampling filter" enum:"box,bilinear,catmullrom" default:"box"`
	MaxMips int    `name:"max-mips" help:"Maximum number of mip levels (0 = full chain)" default:"0"`
	Workers int    `help:"Block encoder workers (0 = GOMAXPROCS)" default:"0"`
	OutDir  string `name:"out-dir" help:"Write containers here instead of next to the sources"`
	Pack    string `help:"Also write a compressed copy of each container" enum:"none,lz4,zstd" default:"none"`

	Files []string `arg:"" name:"file" help:"Source images"`

	opts yt.WriteOptions `kong:"-"`
	pack yt.PackMethod  `kong:"-"`
}

func (c *ConvertCmd) Validate() error {
	format, err := yt.ParseFormat(c.Format)
	if err != nil {
		return err
	}
	filter, err := yt.ParseFilter(c.Filter)
	if err != nil {
		return err
	}
	c.pack, err = yt.ParsePackMethod(c.Pack)
	if err != nil {
		return err
	}
	if c.MaxMips < 0 {
		return fmt.Errorf("%w: max-mips %d", yt.ErrArgument, c.MaxMips)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d", yt.ErrArgument, c.Workers)
	}

	c.opts = yt.WriteOptions{
		Format:     format,
		Quality:    c.Quality,
		Filter:     filter,
		MaxMipMaps: c.MaxMips,
		Workers:    c.Workers,
	}

	return nil
}

func (c *ConvertCmd) Run(logger *slog.Logger) error {
	var okCount, errCount int
	for _, file := range c.Files {
		if err := c.convert(logger.With("file", file), file); err != nil {
			errCount++
			continue
		}
		okCount++
	}

	logger.Info("stats", "converted", okCount, "errors", errCount, "total", okCount+errCount)
	if errCount > 0 {
		return fmt.Errorf("error converting %d of %d files", errCount, okCount+errCount)
	}

	return nil
}

// convert processes one file. Failures are logged and returned; they never
// stop the rest of the batch.
func (c *ConvertCmd) convert(logger *slog.Logger, file string) error {
	dst := outputPath(file, c.OutDir)

	started := time.Now()
	res, err := yt.ConvertFile(file, dst, &c.opts)
	if err != nil {
		logger.Error("could not convert image", "error", err)
		return err
	}
	logger.Info("ok",
		"out", dst,
		"format", res.Format,
		"size", fmt.Sprintf("%dx%d", res.Width, res.Height),
		"mipmaps", res.Levels,
		"bytes", res.Bytes,
		"elapsed", time.Since(started).Round(time.Millisecond),
	)

	if c.pack != yt.PackNone {
		packed, err := yt.Pack(dst, c.pack)
		if err != nil {
			logger.Error("could not pack container", "out", dst, "error", err)
			return err
		}
		logger.Info("packed", "out", packed, "method", c.pack)
	}

	return nil
}

// outputPath returns <src>.yt, placed in outDir when one is given.
func outputPath(src, outDir string) string {
	name := src + ".yt"
	if outDir != "" {
		name = filepath.Join(outDir, filepath.Base(src)+".yt")
	}

	return name
}

package main

import (
	"fmt"
	"log/slog"

	"github.com/woozymasta/yt"
)

type InfoCmd struct {
	Files []string `arg:"" name:"file" help:"Containers to inspect" type:"existingfile"`
}

func (c *InfoCmd) Run(logger *slog.Logger) error {
	var errCount int
	for _, file := range c.Files {
		h, err := yt.CheckFile(file)
		if err != nil {
			errCount++
			logger.Error("invalid container", "file", file, "error", err)
			continue
		}

		format, _ := h.Format()
		sizes, _ := h.LevelSizes()
		logger.Info("container",
			"file", file,
			"format", format,
			"size", fmt.Sprintf("%dx%d", h.Width, h.Height),
			"mipmaps", h.MipCount,
			"levels", sizes,
		)
	}

	if errCount > 0 {
		return fmt.Errorf("%d of %d containers invalid", errCount, len(c.Files))
	}

	return nil
}

// Command image2yt converts images into yave texture (.yt) containers.
package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"github.com/woozymasta/yt"
)

type CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Convert ConvertCmd `cmd:"" default:"withargs" help:"Convert images to .yt containers"`
	Info    InfoCmd    `cmd:"" help:"Print and verify .yt container headers"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("image2yt"),
		kong.Description("Convert images into GPU-ready .yt texture containers with full mip chains."),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	if cli.Verbose {
		yt.SetLogger(logger)
	}

	kctx.FatalIfErrorf(kctx.Run(logger))
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cuepoint/internal/captions"
	"github.com/mgpai22/cuepoint/internal/ffmpeg"
	"github.com/mgpai22/cuepoint/internal/loader"
)

// reads the caption blob from standard input
const stdinRef = "-"

// caption format for ref, honoring an explicit --format
func sourceFormat(ref, override string) (captions.Format, error) {
	if override != "" {
		return captions.ParseFormat(override)
	}
	if ref == stdinRef {
		return captions.FormatVTT, nil
	}
	// media tracks and YouTube captions arrive as WebVTT
	switch loader.Classify(ref) {
	case loader.KindMedia, loader.KindYouTube:
		return captions.FormatVTT, nil
	}
	return captions.FormatFromPath(ref), nil
}

// openSource builds a caption Source for ref. With wait set it blocks until
// the captions are ready or acquisition fails.
func openSource(
	ctx context.Context,
	cmd *cobra.Command,
	ref string,
	wait bool,
) (*captions.Source, error) {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := sourceFormat(ref, formatName)
	if err != nil {
		return nil, err
	}

	parser, err := captions.ParserFor(format, logger)
	if err != nil {
		return nil, err
	}

	opts := []captions.Option{
		captions.WithLogger(logger),
		captions.WithStyles(cfg.Styles),
	}

	var origin captions.Origin
	if ref == stdinRef {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		blob, err := loader.DecodeText(data)
		if err != nil {
			return nil, err
		}
		origin.Blob = blob
	} else {
		origin.URL = ref
		binaries := ffmpeg.NewResolver(cfg.Loader.FFmpegPath, cfg.Loader.FFprobePath)
		opts = append(opts, captions.WithLoader(
			loader.NewAuto(cfg.LoaderOptions(), binaries, logger),
		))
	}

	logger.Debugw("Opening captions",
		"ref", ref,
		"format", format,
	)

	source, err := captions.New(ctx, origin, parser, opts...)
	if err != nil {
		return nil, err
	}

	if wait {
		if err := source.Wait(ctx); err != nil {
			return nil, fmt.Errorf("captions unavailable: %w", err)
		}
	}
	return source, nil
}

// context bounded by the configured acquisition timeout
func acquireContext(parent context.Context) (context.Context, context.CancelFunc) {
	if cfg.Loader.AcquireTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, cfg.Loader.AcquireTimeout)
}

func checkSourceArg(ref string) error {
	if ref == stdinRef || strings.Contains(ref, "://") {
		return nil
	}
	if _, err := os.Stat(ref); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", ref)
	}
	return nil
}

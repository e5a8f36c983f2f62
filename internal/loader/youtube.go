package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/lrstanley/go-ytdlp"

	"github.com/mgpai22/cuepoint/internal/logging"
)

var ErrNoCaptions = errors.New("no captions available for video")

// YouTube fetches uploaded or automatic captions with yt-dlp without
// downloading the video itself.
type YouTube struct {
	Lang     string
	Install  bool
	MaxBytes int64
	Logger   *logging.Logger
}

func (y *YouTube) logger() *logging.Logger {
	if y.Logger == nil {
		return logging.Nop()
	}
	return y.Logger
}

func (y *YouTube) Load(ctx context.Context, ref string) (string, error) {
	if y.Install {
		y.logger().Debugw("Checking yt-dlp installation")
		if _, err := ytdlp.Install(ctx, nil); err != nil {
			return "", fmt.Errorf("failed to install yt-dlp: %w", err)
		}
	}

	lang := y.Lang
	if lang == "" {
		lang = DefaultLanguage
	}

	dir, err := os.MkdirTemp("", "cuepoint-ytdlp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	dl := ytdlp.New().
		SkipDownload().
		WriteSubs().
		WriteAutoSubs().
		SubLangs(lang).
		SubFormat("vtt").
		Output(filepath.Join(dir, "%(id)s.%(ext)s"))

	y.logger().Infow("Fetching captions with yt-dlp", "url", ref, "lang", lang)

	if _, err := dl.Run(ctx, ref); err != nil {
		return "", fmt.Errorf("yt-dlp failed: %w", err)
	}

	path, err := captionFile(dir)
	if err != nil {
		return "", err
	}

	return (&File{MaxBytes: y.MaxBytes}).Load(ctx, path)
}

// first .vtt yt-dlp left in dir
func captionFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.vtt"))
	if err != nil {
		return "", fmt.Errorf("failed to list captions: %w", err)
	}
	if len(matches) == 0 {
		return "", ErrNoCaptions
	}
	sort.Strings(matches)
	return matches[0], nil
}

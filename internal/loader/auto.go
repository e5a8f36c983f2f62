package loader

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/mgpai22/cuepoint/internal/captions"
	ffmpegbin "github.com/mgpai22/cuepoint/internal/ffmpeg"
	"github.com/mgpai22/cuepoint/internal/logging"
)

// which loader a reference is routed to
type Kind string

const (
	KindFile    Kind = "file"
	KindHTTP    Kind = "http"
	KindMedia   Kind = "media"
	KindYouTube Kind = "youtube"
)

var mediaExtensions = map[string]bool{
	".mkv":  true,
	".mka":  true,
	".mp4":  true,
	".m4v":  true,
	".mov":  true,
	".webm": true,
	".avi":  true,
	".ts":   true,
}

var youtubeHosts = map[string]bool{
	"youtube.com":       true,
	"www.youtube.com":   true,
	"m.youtube.com":     true,
	"music.youtube.com": true,
	"youtu.be":          true,
}

// Auto picks a loader for each reference by scheme, host and extension.
type Auto struct {
	File    captions.Loader
	HTTP    captions.Loader
	Media   captions.Loader
	YouTube captions.Loader
	Logger  *logging.Logger
}

func NewAuto(opts Options, binaries *ffmpegbin.Resolver, logger *logging.Logger) *Auto {
	opts = opts.withDefaults()
	if logger == nil {
		logger = logging.Nop()
	}
	if binaries == nil {
		binaries = ffmpegbin.NewResolver("", "")
	}

	return &Auto{
		File: &File{MaxBytes: opts.MaxBytes},
		HTTP: &HTTP{
			Timeout:   opts.HTTPTimeout,
			MaxBytes:  opts.MaxBytes,
			UserAgent: opts.UserAgent,
		},
		Media: &Media{
			Binaries: binaries,
			Stream:   opts.SubtitleStream,
			Language: opts.SubtitleLang,
			Logger:   logger,
		},
		YouTube: &YouTube{
			Lang:     opts.YouTubeLang,
			Install:  opts.InstallYTDLP,
			MaxBytes: opts.MaxBytes,
			Logger:   logger,
		},
		Logger: logger,
	}
}

func (a *Auto) Load(ctx context.Context, ref string) (string, error) {
	kind := Classify(ref)
	if a.Logger != nil {
		a.Logger.Debugw("Routing caption reference", "ref", ref, "loader", kind)
	}
	return a.loaderFor(kind).Load(ctx, ref)
}

func (a *Auto) loaderFor(kind Kind) captions.Loader {
	switch kind {
	case KindYouTube:
		return a.YouTube
	case KindHTTP:
		return a.HTTP
	case KindMedia:
		return a.Media
	default:
		return a.File
	}
}

// Classify reports which loader handles ref. Remote media containers go to
// ffmpeg, which reads URLs directly.
func Classify(ref string) Kind {
	u, err := url.Parse(ref)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if youtubeHosts[strings.ToLower(u.Hostname())] {
			return KindYouTube
		}
		if IsMedia(u.Path) {
			return KindMedia
		}
		return KindHTTP
	}

	if IsMedia(localPath(ref)) {
		return KindMedia
	}
	return KindFile
}

// IsMedia reports whether path looks like a media container rather than a
// subtitle file.
func IsMedia(path string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(path))]
}

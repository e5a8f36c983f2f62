package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
)

const (
	ffmpegEnv  = "CUEPOINT_FFMPEG_PATH"
	ffprobeEnv = "CUEPOINT_FFPROBE_PATH"
)

var ErrNotFound = errors.New("ffmpeg binaries not found: install ffmpeg or set loader.ffmpeg_path")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

// Resolver locates ffmpeg and ffprobe once and caches the answer.
// Configured paths win over the environment, which wins over PATH.
type Resolver struct {
	ffmpegPath  string
	ffprobePath string

	once  sync.Once
	paths BinaryPaths
	err   error
}

func NewResolver(ffmpegPath, ffprobePath string) *Resolver {
	return &Resolver{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

func (r *Resolver) Ensure() (BinaryPaths, error) {
	r.once.Do(func() {
		r.paths, r.err = r.resolve()
	})
	return r.paths, r.err
}

func (r *Resolver) FFmpegPath() (string, error) {
	paths, err := r.Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func (r *Resolver) FFprobePath() (string, error) {
	paths, err := r.Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

func (r *Resolver) resolve() (BinaryPaths, error) {
	ffmpegPath := firstNonEmpty(r.ffmpegPath, os.Getenv(ffmpegEnv))
	ffprobePath := firstNonEmpty(r.ffprobePath, os.Getenv(ffprobeEnv))

	// ffprobe usually ships next to ffmpeg
	if ffmpegPath != "" && ffprobePath == "" {
		sibling := filepath.Join(filepath.Dir(ffmpegPath), "ffprobe"+executableSuffix())
		if fileExists(sibling) {
			ffprobePath = sibling
		}
	}

	if ffmpegPath == "" {
		if found, err := exec.LookPath("ffmpeg"); err == nil {
			ffmpegPath = found
		}
	}
	if ffprobePath == "" {
		if found, err := exec.LookPath("ffprobe"); err == nil {
			ffprobePath = found
		}
	}

	if ffmpegPath == "" || ffprobePath == "" {
		return BinaryPaths{}, ErrNotFound
	}
	if !fileExists(ffmpegPath) {
		return BinaryPaths{}, fmt.Errorf("ffmpeg not found at %s", ffmpegPath)
	}
	if !fileExists(ffprobePath) {
		return BinaryPaths{}, fmt.Errorf("ffprobe not found at %s", ffprobePath)
	}

	return BinaryPaths{FFmpeg: ffmpegPath, FFprobe: ffprobePath}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}

func executableSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

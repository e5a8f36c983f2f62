package loader

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
)

// File reads subtitles from the local filesystem. References may be plain
// paths or file:// URLs.
type File struct {
	MaxBytes int64
}

func (f *File) Load(ctx context.Context, ref string) (string, error) {
	path := localPath(ref)

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open subtitle file: %w", err)
	}
	defer func() { _ = file.Close() }()

	maxBytes := f.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read subtitle file: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, path, maxBytes)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	return DecodeText(data)
}

func localPath(ref string) string {
	u, err := url.Parse(ref)
	if err == nil && u.Scheme == "file" {
		return u.Path
	}
	return ref
}

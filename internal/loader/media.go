package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/cuepoint/internal/ffmpeg"
	"github.com/mgpai22/cuepoint/internal/logging"
)

var ErrNoSubtitleStream = errors.New("media has no matching subtitle stream")

// one subtitle track inside a media container
type SubtitleStream struct {
	Position int    `json:"position"`
	Index    int    `json:"index"`
	Codec    string `json:"codec"`
	Language string `json:"language,omitempty"`
	Title    string `json:"title,omitempty"`
}

// JSON output from ffprobe -show_streams
type ffprobeStreams struct {
	Streams []struct {
		Index     int    `json:"index"`
		CodecName string `json:"codec_name"`
		Tags      struct {
			Language string `json:"language"`
			Title    string `json:"title"`
		} `json:"tags"`
	} `json:"streams"`
}

// Media extracts an embedded text subtitle track from a video or audio
// container and converts it to WebVTT with ffmpeg. Language, when set,
// picks the first track tagged with it; otherwise Stream is the position
// among the subtitle tracks.
type Media struct {
	Binaries *ffmpegbin.Resolver
	Stream   int
	Language string
	Logger   *logging.Logger
}

func (m *Media) logger() *logging.Logger {
	if m.Logger == nil {
		return logging.Nop()
	}
	return m.Logger
}

// shared by every Media built without a resolver; never written after init
var defaultBinaries = ffmpegbin.NewResolver("", "")

func (m *Media) binaries() *ffmpegbin.Resolver {
	if m.Binaries == nil {
		return defaultBinaries
	}
	return m.Binaries
}

func (m *Media) Load(ctx context.Context, ref string) (string, error) {
	path := localPath(ref)

	streams, err := m.Streams(ctx, path)
	if err != nil {
		return "", err
	}

	stream, err := m.pick(streams)
	if err != nil {
		return "", err
	}

	m.logger().Infow("Extracting subtitle stream",
		"path", path,
		"stream", stream.Position,
		"codec", stream.Codec,
		"language", stream.Language,
	)

	data, err := m.extract(ctx, path, stream.Position)
	if err != nil {
		return "", err
	}
	return DecodeText(data)
}

// Streams lists the subtitle tracks of a media file in container order.
func (m *Media) Streams(ctx context.Context, path string) ([]SubtitleStream, error) {
	ffprobePath, err := m.binaries().FFprobePath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "s",
		path,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe ffprobeStreams
	if err := json.Unmarshal(out.Bytes(), &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	streams := make([]SubtitleStream, 0, len(probe.Streams))
	for i, s := range probe.Streams {
		streams = append(streams, SubtitleStream{
			Position: i,
			Index:    s.Index,
			Codec:    s.CodecName,
			Language: s.Tags.Language,
			Title:    s.Tags.Title,
		})
	}
	return streams, nil
}

func (m *Media) pick(streams []SubtitleStream) (SubtitleStream, error) {
	if len(streams) == 0 {
		return SubtitleStream{}, ErrNoSubtitleStream
	}

	if m.Language != "" {
		for _, s := range streams {
			if strings.EqualFold(s.Language, m.Language) {
				return s, nil
			}
		}
		m.logger().Warnw("No subtitle stream for language, falling back to position",
			"language", m.Language,
			"stream", m.Stream,
		)
	}

	if m.Stream < 0 || m.Stream >= len(streams) {
		return SubtitleStream{}, fmt.Errorf(
			"%w: stream %d requested, media has %d",
			ErrNoSubtitleStream,
			m.Stream,
			len(streams),
		)
	}
	return streams[m.Stream], nil
}

func (m *Media) extract(ctx context.Context, path string, position int) ([]byte, error) {
	ffmpegPath, err := m.binaries().FFmpegPath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, extractArgs(path, position)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf(
			"subtitle extraction failed: %w: %s",
			err,
			strings.TrimSpace(stderr.String()),
		)
	}
	return stdout.Bytes(), nil
}

// ffmpeg arguments writing subtitle track position of path as WebVTT to stdout
func extractArgs(path string, position int) []string {
	return ffmpeg.Input(path).
		Output("pipe:", ffmpeg.KwArgs{
			"map": fmt.Sprintf("0:s:%d", position),
			"f":   "webvtt",
		}).
		GetArgs()
}

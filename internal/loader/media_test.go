package loader

import (
	"errors"
	"sync"
	"testing"

	ffmpegbin "github.com/mgpai22/cuepoint/internal/ffmpeg"
)

func TestExtractArgs(t *testing.T) {
	args := extractArgs("/videos/movie.mkv", 2)

	if len(args) == 0 || args[len(args)-1] != "pipe:" {
		t.Fatalf("expected output to stdout, got %v", args)
	}

	want := map[string]string{
		"-i":   "/videos/movie.mkv",
		"-map": "0:s:2",
		"-f":   "webvtt",
	}
	for flag, value := range want {
		found := false
		for i := 0; i < len(args)-1; i++ {
			if args[i] == flag && args[i+1] == value {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected %s %s in %v", flag, value, args)
		}
	}
}

func TestMediaPick(t *testing.T) {
	streams := []SubtitleStream{
		{Position: 0, Index: 2, Codec: "subrip", Language: "eng"},
		{Position: 1, Index: 3, Codec: "ass", Language: "jpn"},
		{Position: 2, Index: 4, Codec: "subrip", Language: "fre"},
	}

	tests := []struct {
		name     string
		media    Media
		streams  []SubtitleStream
		wantPos  int
		wantErr  bool
		checkErr error
	}{
		{name: "default first", media: Media{}, streams: streams, wantPos: 0},
		{name: "by position", media: Media{Stream: 2}, streams: streams, wantPos: 2},
		{name: "by language", media: Media{Language: "JPN"}, streams: streams, wantPos: 1},
		{name: "unknown language falls back", media: Media{Language: "ger", Stream: 2}, streams: streams, wantPos: 2},
		{name: "out of range", media: Media{Stream: 5}, streams: streams, wantErr: true, checkErr: ErrNoSubtitleStream},
		{name: "no streams", media: Media{}, streams: nil, wantErr: true, checkErr: ErrNoSubtitleStream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.media.pick(tt.streams)
			if tt.wantErr {
				if !errors.Is(err, tt.checkErr) {
					t.Fatalf("expected %v, got %v", tt.checkErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("pick returned error: %v", err)
			}
			if got.Position != tt.wantPos {
				t.Errorf("expected position %d, got %d", tt.wantPos, got.Position)
			}
		})
	}
}

func TestMediaBinariesDefault(t *testing.T) {
	m := &Media{}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := m.binaries(); got != defaultBinaries {
				t.Errorf("expected shared default resolver, got %p", got)
			}
		}()
	}
	wg.Wait()

	if m.Binaries != nil {
		t.Error("binaries lookup must not write the Binaries field")
	}

	own := ffmpegbin.NewResolver("/opt/ffmpeg", "/opt/ffprobe")
	if got := (&Media{Binaries: own}).binaries(); got != own {
		t.Errorf("expected configured resolver, got %p", got)
	}
}

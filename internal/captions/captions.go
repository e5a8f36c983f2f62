package captions

import (
	"context"
	"errors"
	"io"
)

// marks a timestamp that matched the timing grammar but did not decode
const Unresolved int64 = -1

var (
	ErrNoOrigin   = errors.New("captions: neither a file reference nor a blob was supplied")
	ErrParseInput = errors.New("captions: input is not subtitle text")
	ErrNoLoader   = errors.New("captions: no loader configured for file reference")
)

// cue settings trailing a timing line, e.g. position:50% align:start
type CueOptions map[string]string

// represents one timed caption region
type Entry struct {
	ID      string     `json:"id,omitempty" yaml:"id,omitempty"`
	Begin   int64      `json:"begin" yaml:"begin"`
	End     int64      `json:"end" yaml:"end"`
	Content []string   `json:"content" yaml:"content"`
	Options CueOptions `json:"options,omitempty" yaml:"options,omitempty"`
}

// End - Begin, or 0 when either bound is unresolved
func (e Entry) Duration() int64 {
	if !e.Resolved() {
		return 0
	}
	return e.End - e.Begin
}

func (e Entry) Resolved() bool {
	return e.Begin != Unresolved && e.End != Unresolved
}

// supported caption formats
type Format string

const (
	FormatVTT  Format = "vtt"
	FormatSRT  Format = "srt"
	FormatASS  Format = "ass"
	FormatTTML Format = "ttml"
)

// Parser turns raw subtitle text into an ordered entry sequence. Each
// concrete format supplies its own implementation.
type Parser interface {
	Parse(raw string) ([]Entry, error)
}

// Loader acquires raw subtitle text for a file reference.
type Loader interface {
	Load(ctx context.Context, ref string) (string, error)
}

// interface for writing entries back out as subtitle text
type Writer interface {
	Write(entries []Entry, w io.Writer) error
}

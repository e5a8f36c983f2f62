package captions

import (
	"errors"
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mgpai22/cuepoint/internal/logging"
)

const scenarioVTT = `WEBVTT

1
00:00:01.000 --> 00:00:03.000
Hello world

00:00:05.000 --> 00:00:07.000 position:50%
Bye`

func TestWebVTTParserScenario(t *testing.T) {
	entries, err := NewWebVTTParser().Parse(scenarioVTT)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	want := []Entry{
		{
			ID:      "1",
			Begin:   1000,
			End:     3000,
			Content: []string{"Hello world"},
		},
		{
			Begin:   5000,
			End:     7000,
			Content: []string{"Bye"},
			Options: CueOptions{"position": "50%"},
		},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("entries mismatch:\n got %+v\nwant %+v", entries, want)
	}

	for i, e := range entries {
		if e.Duration() != 2000 {
			t.Errorf("entry %d: expected duration 2000, got %d", i, e.Duration())
		}
	}
	if entries[0].Options != nil {
		t.Errorf("entry 0: expected nil options, got %v", entries[0].Options)
	}
}

func TestWebVTTParserSRT(t *testing.T) {
	content := "1\r\n" +
		"00:00:01,000 --> 00:00:04,000\r\n" +
		"Hello, world!\r\n" +
		"\r\n" +
		"2\r\n" +
		"00:00:05,500 --> 00:00:08,200\r\n" +
		"<i>This is a test.</i>\r\n" +
		"With multiple lines.\r\n" +
		"\r\n"

	entries, err := NewWebVTTParser().Parse(content)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	if entries[0].ID != "1" || entries[0].Begin != 1000 || entries[0].End != 4000 {
		t.Errorf("entry 0: unexpected %+v", entries[0])
	}
	wantContent := []string{"This is a test.", "With multiple lines."}
	if !reflect.DeepEqual(entries[1].Content, wantContent) {
		t.Errorf(
			"entry 1: expected content %q, got %q",
			wantContent,
			entries[1].Content,
		)
	}
	if entries[1].Begin != 5500 || entries[1].End != 8200 {
		t.Errorf(
			"entry 1: expected 5500-8200, got %d-%d",
			entries[1].Begin,
			entries[1].End,
		)
	}
}

func TestWebVTTParserFlushPoints(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
	}{
		{
			name:      "trailing newline",
			input:     "WEBVTT\n\n00:01.000 --> 00:02.000\nA\n",
			wantCount: 1,
		},
		{
			name:      "no trailing newline",
			input:     "WEBVTT\n\n00:01.000 --> 00:02.000\nA",
			wantCount: 1,
		},
		{
			name:      "timing line is last line",
			input:     "00:01.000 --> 00:02.000\nA\n\n00:03.000 --> 00:04.000",
			wantCount: 2,
		},
		{
			name:      "several blank lines between blocks",
			input:     "00:01.000 --> 00:02.000\nA\n\n\n\n00:03.000 --> 00:04.000\nB\n",
			wantCount: 2,
		},
		{
			name:      "header only",
			input:     "WEBVTT",
			wantCount: 0,
		},
		{
			name:      "empty input",
			input:     "",
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := NewWebVTTParser().Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if len(entries) != tt.wantCount {
				t.Errorf("expected %d entries, got %d", tt.wantCount, len(entries))
			}
		})
	}
}

func TestWebVTTParserTimingOnlyBlock(t *testing.T) {
	entries, err := NewWebVTTParser().Parse("00:00:01.000 --> 00:00:02.000\n\n")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Content == nil || len(entries[0].Content) != 0 {
		t.Errorf("expected empty non-nil content, got %#v", entries[0].Content)
	}
}

func TestWebVTTParserPreservesSourceOrder(t *testing.T) {
	content := `WEBVTT

00:00:10.000 --> 00:00:12.000
Later

00:00:01.000 --> 00:00:02.000
Earlier
`
	entries, err := NewWebVTTParser().Parse(content)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Content[0] != "Later" || entries[1].Content[0] != "Earlier" {
		t.Errorf("entries were reordered: %+v", entries)
	}
}

func TestWebVTTParserFirstNumericWins(t *testing.T) {
	content := `7
00:00:01.000 --> 00:00:02.000
Text
42
More text
`
	entries, err := NewWebVTTParser().Parse(content)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ID != "7" {
		t.Errorf("expected id 7, got %q", entries[0].ID)
	}
	want := []string{"Text", "More text"}
	if !reflect.DeepEqual(entries[0].Content, want) {
		t.Errorf("expected content %q, got %q", want, entries[0].Content)
	}
}

func TestWebVTTParserComments(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := &logging.Logger{SugaredLogger: zap.New(core).Sugar()}

	content := `WEBVTT

NOTE this file was generated

00:00:01.000 --> 00:00:02.000
Hello
NOTE inline remark
`
	entries, err := NewWebVTTParser(WithParserLogger(logger)).Parse(content)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if !reflect.DeepEqual(entries[0].Content, []string{"Hello"}) {
		t.Errorf("comment leaked into content: %q", entries[0].Content)
	}

	if n := logs.FilterMessage("Skipping comment line").Len(); n != 2 {
		t.Errorf("expected 2 comment log lines, got %d", n)
	}
}

func TestWebVTTParserUnresolvedTiming(t *testing.T) {
	content := `WEBVTT

00:00:00.000 --> 00:00:02.500
First cue
`
	entries, err := NewWebVTTParser().Parse(content)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.Begin != Unresolved {
		t.Errorf("expected unresolved begin, got %d", e.Begin)
	}
	if e.End != 2500 {
		t.Errorf("expected end 2500, got %d", e.End)
	}
	if e.Resolved() {
		t.Error("entry should not report resolved")
	}
	if e.Duration() != 0 {
		t.Errorf("expected duration 0 for unresolved entry, got %d", e.Duration())
	}
}

func TestWebVTTParserInvertedTiming(t *testing.T) {
	content := `WEBVTT

00:00:05.000 --> 00:00:03.000
Backwards
`
	entries, err := NewWebVTTParser().Parse(content)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.Begin != 5000 || e.End != Unresolved {
		t.Errorf("expected 5000 and unresolved end, got %d-%d", e.Begin, e.End)
	}
	if e.Resolved() || e.Duration() != 0 {
		t.Errorf("inverted entry reported resolved with duration %d", e.Duration())
	}
}

func TestWebVTTParserFractionlessUnit(t *testing.T) {
	entries, err := NewWebVTTParser().Parse("34.7s --> 40s\nUnits\n")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Begin != 34007 || entries[0].End != Unresolved {
		t.Errorf(
			"expected 34007 and unresolved end, got %d-%d",
			entries[0].Begin,
			entries[0].End,
		)
	}
}

func TestWebVTTParserUnitTimestamps(t *testing.T) {
	entries, err := NewWebVTTParser().Parse("34.7s --> 1.5m\nUnits\n")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Begin != 34007 || entries[0].End != 65000 {
		t.Errorf(
			"expected 34007-65000, got %d-%d",
			entries[0].Begin,
			entries[0].End,
		)
	}
}

func TestWebVTTParserDropsBlockWithoutTiming(t *testing.T) {
	content := `WEBVTT

12

00:00:01.000 --> 00:00:02.000
Kept
`
	entries, err := NewWebVTTParser().Parse(content)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ID != "" {
		t.Errorf("expected no id, got %q", entries[0].ID)
	}
}

func TestWebVTTParserArtifacts(t *testing.T) {
	content := "\ufeffWEBVTT\n\n" +
		"00:00:01.000 --> 00:00:02.000\n" +
		"{\\an2}Hello\n" +
		"â™ª la la â™ª\n"

	entries, err := NewWebVTTParser().Parse(content)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	want := []string{"Hello", "♪ la la ♪"}
	if !reflect.DeepEqual(entries[0].Content, want) {
		t.Errorf("expected content %q, got %q", want, entries[0].Content)
	}
}

func TestWebVTTParserRejectsBinary(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "invalid utf-8", input: "WEBVTT\n\xff\xfe\n"},
		{name: "nul bytes", input: "WEBVTT\x00\x00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWebVTTParser().Parse(tt.input)
			if !errors.Is(err, ErrParseInput) {
				t.Errorf("expected ErrParseInput, got %v", err)
			}
		})
	}
}

package captions

import (
	"reflect"
	"strings"
	"testing"
)

const sampleASS = `[Script Info]
Title: Test Subtitles
ScriptType: v4.00+

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding
Style: Default,Arial,20,&H00FFFFFF,&H000000FF,&H00000000,&H00000000,0,0,0,0,100,100,0,0,1,2,2,2,10,10,10,1

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:04.00,Default,,0,0,0,,Hello, world!
Dialogue: 0,0:00:05.50,0:00:08.20,Italic,Narrator,0,0,0,,{\pos(100,200)}This has positioning.
Dialogue: 1,0:00:10.00,0:00:12.50,Default,,0,0,0,,Line with\Nnewline {\i1}and tags{\i0}.
`

func TestASSParser(t *testing.T) {
	entries, err := NewASSParser().Parse(sampleASS)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	tests := []struct {
		begin   int64
		end     int64
		content []string
	}{
		{1000, 4000, []string{"Hello, world!"}},
		{5500, 8200, []string{"This has positioning."}},
		{10000, 12500, []string{"Line with", "newline and tags."}},
	}

	for i, tt := range tests {
		e := entries[i]
		if e.Begin != tt.begin || e.End != tt.end {
			t.Errorf(
				"entry %d: expected %d-%d, got %d-%d",
				i,
				tt.begin,
				tt.end,
				e.Begin,
				e.End,
			)
		}
		if !reflect.DeepEqual(e.Content, tt.content) {
			t.Errorf("entry %d: expected content %q, got %q", i, tt.content, e.Content)
		}
	}

	wantOptions := CueOptions{
		"layer":   "0",
		"style":   "Italic",
		"name":    "Narrator",
		"marginl": "0",
		"marginr": "0",
		"marginv": "0",
		"effect":  "",
	}
	if !reflect.DeepEqual(entries[1].Options, wantOptions) {
		t.Errorf("entry 1: expected options %v, got %v", wantOptions, entries[1].Options)
	}
}

func TestASSParserErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "no events section",
			input:   "[Script Info]\nTitle: x\n",
			wantErr: "missing Format line",
		},
		{
			name:    "no text column",
			input:   "[Events]\nFormat: Layer, Start, End\n",
			wantErr: "missing Text column",
		},
		{
			name:    "dialogue before format",
			input:   "[Events]\nDialogue: 0,0:00:01.00,0:00:02.00,,x\n",
			wantErr: "before Format line",
		},
		{
			name:    "too few fields",
			input:   "[Events]\nFormat: Layer, Start, End, Text\nDialogue: 0,0:00:01.00\n",
			wantErr: "expected 4 fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewASSParser().Parse(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected %q in error, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseASSTimestamp(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"0:00:01.00", 1000},
		{"1:02:03.45", 3723450},
		{" 0:00:05.50 ", 5500},
		{"0:00:05", Unresolved},
		{"bad", Unresolved},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseASSTimestamp(tt.input); got != tt.want {
				t.Errorf("parseASSTimestamp(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

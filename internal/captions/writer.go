package captions

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// WebVTT format
type VTTWriter struct{}

// SubRip format
type SRTWriter struct{}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatVTT:
		return &VTTWriter{}, nil
	case FormatSRT:
		return &SRTWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// writes entries as WebVTT; entries with unresolved timing are skipped
func (w *VTTWriter) Write(entries []Entry, out io.Writer) error {
	bw := bufio.NewWriter(out)

	// VTT header
	bw.WriteString("WEBVTT\n\n")

	n := 0
	for _, entry := range entries {
		if !entry.Resolved() {
			continue
		}
		n++

		// cue identifier, original one when present
		id := entry.ID
		if id == "" {
			id = fmt.Sprintf("%d", n)
		}
		bw.WriteString(id + "\n")

		// timestamps: 00:00:00.000 --> 00:00:00.000 [settings]
		fmt.Fprintf(bw, "%s --> %s",
			formatClock(entry.Begin, '.'),
			formatClock(entry.End, '.'))
		if settings := formatCueOptions(entry.Options); settings != "" {
			bw.WriteString(" " + settings)
		}
		bw.WriteString("\n")

		writeContent(bw, entry.Content)
	}

	return bw.Flush()
}

// writes entries as SubRip with 1-based indices
func (w *SRTWriter) Write(entries []Entry, out io.Writer) error {
	bw := bufio.NewWriter(out)

	n := 0
	for _, entry := range entries {
		if !entry.Resolved() {
			continue
		}
		n++

		fmt.Fprintf(bw, "%d\n", n)

		// timestamps: 00:00:00,000 --> 00:00:00,000
		fmt.Fprintf(bw, "%s --> %s\n",
			formatClock(entry.Begin, ','),
			formatClock(entry.End, ','))

		writeContent(bw, entry.Content)
	}

	return bw.Flush()
}

func writeContent(bw *bufio.Writer, content []string) {
	for _, line := range content {
		bw.WriteString(line)
		bw.WriteString("\n")
	}
	bw.WriteString("\n")
}

func formatClock(ms int64, sep byte) string {
	hours := ms / msPerHour
	minutes := (ms / msPerMinute) % 60
	seconds := (ms / msPerSecond) % 60
	millis := ms % msPerSecond

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, seconds, sep, millis)
}

// settings in key order so output is stable
func formatCueOptions(options CueOptions) string {
	if len(options) == 0 {
		return ""
	}

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if options[k] == "" {
			parts = append(parts, k)
			continue
		}
		parts = append(parts, k+":"+options[k])
	}
	return strings.Join(parts, " ")
}

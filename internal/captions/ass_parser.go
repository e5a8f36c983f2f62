package captions

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// override blocks such as {\pos(100,200)} or {\i1}
var assOverrideRegex = regexp.MustCompile(`\{[^}]*\}`)

// ASSParser reads the [Events] section of ASS/SSA scripts.
type ASSParser struct{}

func NewASSParser() *ASSParser {
	return &ASSParser{}
}

// columns of the [Events] Format line
type assFormat struct {
	columns   []string
	textIndex int
	startIdx  int
	endIdx    int
}

func (p *ASSParser) Parse(raw string) ([]Entry, error) {
	if !isText(raw) {
		return nil, ErrParseInput
	}

	lines := strings.Split(raw, "\n")
	lines[0] = strings.TrimPrefix(lines[0], "\ufeff")

	entries := make([]Entry, 0)
	var format *assFormat
	inEventsSection := false

	for lineNum, line := range lines {
		trimmedLine := strings.TrimSpace(line)

		if strings.HasPrefix(trimmedLine, "[") &&
			strings.HasSuffix(trimmedLine, "]") {
			sectionName := strings.ToLower(
				strings.TrimSuffix(strings.TrimPrefix(trimmedLine, "["), "]"),
			)
			inEventsSection = sectionName == "events"
			continue
		}

		if !inEventsSection {
			continue
		}

		if strings.HasPrefix(trimmedLine, "Format:") {
			f, err := parseASSFormat(trimmedLine)
			if err != nil {
				return nil, err
			}
			format = f
			continue
		}

		if strings.HasPrefix(trimmedLine, "Dialogue:") {
			if format == nil {
				return nil, fmt.Errorf(
					"Dialogue before Format line at line %d",
					lineNum+1,
				)
			}
			entry, err := format.entry(trimmedLine)
			if err != nil {
				return nil, fmt.Errorf(
					"failed to parse Dialogue at line %d: %w",
					lineNum+1,
					err,
				)
			}
			entries = append(entries, entry)
		}
	}

	if format == nil {
		return nil, fmt.Errorf(
			"ASS file missing Format line in [Events] section",
		)
	}

	return entries, nil
}

func parseASSFormat(line string) (*assFormat, error) {
	columns := strings.Split(strings.TrimPrefix(line, "Format:"), ",")
	f := &assFormat{textIndex: -1, startIdx: -1, endIdx: -1}
	for i, col := range columns {
		col = strings.ToLower(strings.TrimSpace(col))
		columns[i] = col
		switch col {
		case "text":
			f.textIndex = i
		case "start":
			f.startIdx = i
		case "end":
			f.endIdx = i
		}
	}
	if f.textIndex == -1 {
		return nil, fmt.Errorf("ASS file missing Text column in Format line")
	}
	f.columns = columns
	return f, nil
}

func (f *assFormat) entry(line string) (Entry, error) {
	content := strings.TrimSpace(strings.TrimPrefix(line, "Dialogue:"))
	parts := splitASSFields(content, len(f.columns))
	if len(parts) < len(f.columns) {
		return Entry{}, fmt.Errorf(
			"expected %d fields, got %d",
			len(f.columns),
			len(parts),
		)
	}

	entry := Entry{
		Begin:   Unresolved,
		End:     Unresolved,
		Content: assTextLines(parts[f.textIndex]),
		Options: CueOptions{},
	}
	if f.startIdx >= 0 {
		entry.Begin = parseASSTimestamp(parts[f.startIdx])
	}
	if f.endIdx >= 0 {
		entry.End = parseASSTimestamp(parts[f.endIdx])
	}

	for i, col := range f.columns {
		if i == f.textIndex || i == f.startIdx || i == f.endIdx {
			continue
		}
		entry.Options[col] = strings.TrimSpace(parts[i])
	}
	if len(entry.Options) == 0 {
		entry.Options = nil
	}

	return entry, nil
}

// the text column is last and may itself contain commas
func splitASSFields(content string, numFields int) []string {
	if numFields <= 0 {
		return nil
	}

	parts := make([]string, 0, numFields)
	remaining := content

	for i := 0; i < numFields-1; i++ {
		idx := strings.Index(remaining, ",")
		if idx == -1 {
			parts = append(parts, remaining)
			remaining = ""
			break
		}
		parts = append(parts, remaining[:idx])
		remaining = remaining[idx+1:]
	}

	parts = append(parts, remaining)

	return parts
}

func assTextLines(text string) []string {
	text = strings.ReplaceAll(text, `\N`, "\n")
	text = strings.ReplaceAll(text, `\n`, "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = Sanitize(assOverrideRegex.ReplaceAllString(line, ""))
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if lines == nil {
		lines = []string{}
	}
	return lines
}

// H:MM:SS.cc
func parseASSTimestamp(ts string) int64 {
	ts = strings.TrimSpace(ts)
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return Unresolved
	}

	hours, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Unresolved
	}

	minutes, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Unresolved
	}

	secParts := strings.Split(parts[2], ".")
	if len(secParts) != 2 {
		return Unresolved
	}

	seconds, err := strconv.ParseInt(secParts[0], 10, 64)
	if err != nil {
		return Unresolved
	}

	centis, err := strconv.ParseInt(secParts[1], 10, 64)
	if err != nil {
		return Unresolved
	}

	return hours*msPerHour +
		minutes*msPerMinute +
		seconds*msPerSecond +
		centis*10
}

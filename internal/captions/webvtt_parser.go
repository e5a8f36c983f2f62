package captions

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mgpai22/cuepoint/internal/logging"
)

const (
	headerToken  = "WEBVTT"
	commentToken = "NOTE"
	timingArrow  = " --> "
)

var (
	timingRegex = regexp.MustCompile(
		`([\d:.,]+(?:ms|[hms])?) --> ([\d:.,]+(?:ms|[hms])?)`,
	)
	numericRegex = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)
)

// WebVTTParser reads WebVTT text and the SRT files it grew out of.
type WebVTTParser struct {
	logger *logging.Logger
}

type ParserOption func(*WebVTTParser)

func WithParserLogger(logger *logging.Logger) ParserOption {
	return func(p *WebVTTParser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func NewWebVTTParser(opts ...ParserOption) *WebVTTParser {
	p := &WebVTTParser{logger: logging.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// in-progress caption region
type block struct {
	id       string
	begin    int64
	end      int64
	content  []string
	options  CueOptions
	hasTimes bool
}

func (b *block) entry() Entry {
	content := b.content
	if content == nil {
		content = []string{}
	}
	return Entry{
		ID:      b.id,
		Begin:   b.begin,
		End:     b.end,
		Content: content,
		Options: b.options,
	}
}

// Parse runs a single forward pass over the lines of raw. A block is
// flushed on a blank line or at the last line of input.
func (p *WebVTTParser) Parse(raw string) ([]Entry, error) {
	if !isText(raw) {
		return nil, ErrParseInput
	}

	lines := strings.Split(raw, "\n")
	lines[0] = strings.TrimPrefix(lines[0], "\ufeff")
	if strings.Contains(lines[0], headerToken) {
		lines = lines[1:]
	}

	entries := make([]Entry, 0)
	var current *block
	last := len(lines) - 1

	for i, line := range lines {
		line = strings.TrimSpace(line)
		numeric := isNumeric(line)
		isComment := strings.Contains(line, commentToken)

		if isComment {
			p.logger.Debugw("Skipping comment line", "line", i+1)
		}

		if line != "" && numeric {
			if current == nil {
				current = &block{id: line, begin: Unresolved, end: Unresolved}
			} else {
				p.logger.Debugw("Ignoring numeric line inside block",
					"line", i+1,
					"id", current.id,
				)
			}
		}

		loc := timingRegex.FindStringSubmatchIndex(line)
		if loc != nil {
			if current == nil {
				current = &block{begin: Unresolved, end: Unresolved}
			}
			current.begin, _ = DecodeTimecode(line[loc[2]:loc[3]])
			current.end, _ = DecodeTimecode(line[loc[4]:loc[5]])
			current.options = ParseCueOptions(line, loc[1])
			current.hasTimes = true

			// an end before the begin can never be on screen
			if current.begin != Unresolved &&
				current.end != Unresolved &&
				current.end < current.begin {
				p.logger.Debugw("End precedes begin, marking end unresolved",
					"line", i+1,
					"begin", current.begin,
					"end", current.end,
				)
				current.end = Unresolved
			}
		}

		if current != nil &&
			line != "" &&
			!numeric &&
			loc == nil &&
			!strings.Contains(line, timingArrow) &&
			!isComment {
			current.content = append(current.content, Sanitize(line))
		}

		if current != nil && (line == "" || i == last) {
			if current.hasTimes {
				entries = append(entries, current.entry())
			} else {
				p.logger.Debugw("Dropping block without timing line",
					"line", i+1,
					"id", current.id,
				)
			}
			current = nil
		}
	}

	return entries, nil
}

func isNumeric(line string) bool {
	return numericRegex.MatchString(line)
}

func isText(raw string) bool {
	return utf8.ValidString(raw) && !strings.ContainsRune(raw, 0)
}

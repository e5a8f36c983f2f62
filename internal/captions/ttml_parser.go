package captions

import (
	"fmt"
	"strings"

	"github.com/asticode/go-astisub"
)

// TTMLParser reads TTML/DFXP documents through go-astisub.
type TTMLParser struct{}

func NewTTMLParser() *TTMLParser {
	return &TTMLParser{}
}

func (p *TTMLParser) Parse(raw string) ([]Entry, error) {
	if !isText(raw) {
		return nil, ErrParseInput
	}

	subs, err := astisub.ReadFromTTML(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to read TTML: %w", err)
	}

	entries := make([]Entry, 0, len(subs.Items))
	for _, item := range subs.Items {
		entry := Entry{
			Begin:   item.StartAt.Milliseconds(),
			End:     item.EndAt.Milliseconds(),
			Content: make([]string, 0, len(item.Lines)),
		}

		for _, line := range item.Lines {
			text := Sanitize(strings.TrimSpace(line.String()))
			if text == "" {
				continue
			}
			entry.Content = append(entry.Content, text)
		}

		if item.Region != nil && item.Region.ID != "" {
			entry.Options = CueOptions{"region": item.Region.ID}
		}
		if item.Style != nil && item.Style.ID != "" {
			if entry.Options == nil {
				entry.Options = CueOptions{}
			}
			entry.Options["style"] = item.Style.ID
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

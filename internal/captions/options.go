package captions

import "strings"

// ParseCueOptions decodes the settings that follow the timing text of line.
// matchEnd is the byte offset where the timing match ends. Tokens without a
// colon are kept with an empty value rather than rejected.
func ParseCueOptions(line string, matchEnd int) CueOptions {
	if matchEnd < 0 || matchEnd > len(line) {
		return nil
	}

	tokens := strings.Fields(line[matchEnd:])
	if len(tokens) == 0 {
		return nil
	}

	options := make(CueOptions, len(tokens))
	for _, token := range tokens {
		key, value, _ := strings.Cut(token, ":")
		options[key] = value
	}
	return options
}

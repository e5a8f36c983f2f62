package captions

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/mgpai22/cuepoint/internal/logging"
)

// ParserFor returns the parser variant for a format. SRT goes through the
// WebVTT machine, which already tolerates comma millisecond separators.
func ParserFor(format Format, logger *logging.Logger) (Parser, error) {
	switch format {
	case FormatVTT, FormatSRT:
		return NewWebVTTParser(WithParserLogger(logger)), nil
	case FormatASS:
		return NewASSParser(), nil
	case FormatTTML:
		return NewTTMLParser(), nil
	default:
		return nil, fmt.Errorf("unsupported caption format: %s", format)
	}
}

// caption format based on the extension of a path or URL; WebVTT when unknown
func FormatFromPath(ref string) Format {
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && u.Path != "" {
		ref = u.Path
	}

	ext := strings.ToLower(filepath.Ext(ref))
	switch ext {
	case ".srt":
		return FormatSRT
	case ".vtt", ".webvtt":
		return FormatVTT
	case ".ass", ".ssa":
		return FormatASS
	case ".ttml", ".dfxp", ".xml":
		return FormatTTML
	default:
		return FormatVTT
	}
}

// ParseFormat maps a user supplied format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "vtt", "webvtt":
		return FormatVTT, nil
	case "srt":
		return FormatSRT, nil
	case "ass", "ssa":
		return FormatASS, nil
	case "ttml", "dfxp":
		return FormatTTML, nil
	default:
		return "", fmt.Errorf("unsupported caption format %q: use vtt, srt, ass, or ttml", name)
	}
}

// file extension for a format
func ExtensionFor(format Format) string {
	switch format {
	case FormatSRT:
		return ".srt"
	case FormatASS:
		return ".ass"
	case FormatTTML:
		return ".ttml"
	default:
		return ".vtt"
	}
}

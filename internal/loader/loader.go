package loader

import (
	"bytes"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

const (
	DefaultTimeout   = 15 * time.Second
	DefaultMaxBytes  = 10_000_000
	DefaultUserAgent = "cuepoint/1.0"
	DefaultLanguage  = "en"
)

var (
	ErrStatus   = errors.New("unexpected HTTP status")
	ErrTooLarge = errors.New("subtitle payload too large")
)

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// settings shared by every loader
type Options struct {
	HTTPTimeout    time.Duration
	MaxBytes       int64
	UserAgent      string
	SubtitleStream int
	SubtitleLang   string
	YouTubeLang    string
	InstallYTDLP   bool
}

func (o Options) withDefaults() Options {
	if o.HTTPTimeout <= 0 {
		o.HTTPTimeout = DefaultTimeout
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = DefaultMaxBytes
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.YouTubeLang == "" {
		o.YouTubeLang = DefaultLanguage
	}
	return o
}

// DecodeText turns subtitle bytes into a Go string. UTF-16 input is
// recognized by its byte order mark, a UTF-8 BOM is dropped, and bytes that
// are not valid UTF-8 are read as Windows-1252, the usual encoding of older
// SRT files.
func DecodeText(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, utf16LEBOM):
		return decodeUTF16(data, unicode.LittleEndian)
	case bytes.HasPrefix(data, utf16BEBOM):
		return decodeUTF16(data, unicode.BigEndian)
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode Windows-1252 text: %w", err)
	}
	return string(decoded), nil
}

func decodeUTF16(data []byte, order unicode.Endianness) (string, error) {
	decoded, err := unicode.UTF16(order, unicode.ExpectBOM).NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode UTF-16 text: %w", err)
	}
	return string(decoded), nil
}

package captions

import (
	"math"
	"regexp"
	"strconv"
)

var (
	// 00:00:13.231
	clockHMSRegex = regexp.MustCompile(`(\d+):(\d+):(\d+)[.:,](\d+)`)
	// 00:19.166
	clockMSRegex = regexp.MustCompile(`(\d+):(\d+)[.:,](\d+)`)
	// 34.7s
	unitRegex = regexp.MustCompile(`(?i)(\d+)\.(\d+)(\w+)`)
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

// DecodeTimecode converts a timestamp token into milliseconds. The clock
// shapes are tried before the unit shape and the first structural match
// wins. A clock value whose components are all zero is reported as
// unresolved, so "00:00:00.000" never decodes to 0.
//
// Unit timestamps add the fraction digits as a raw count of the next
// smaller unit: "34.7s" is 34007ms, "1.5m" is 65000ms and the fraction of
// an "ms" value is dropped.
func DecodeTimecode(token string) (int64, bool) {
	if token == "" {
		return Unresolved, false
	}

	if m := clockHMSRegex.FindStringSubmatch(token); m != nil {
		return decodeClock(m[1], m[2], m[3], m[4])
	}

	if m := clockMSRegex.FindStringSubmatch(token); m != nil {
		return decodeClock("0", m[1], m[2], m[3])
	}

	if m := unitRegex.FindStringSubmatch(token); m != nil {
		return decodeUnit(m[1], m[2], m[3])
	}

	return Unresolved, false
}

func decodeClock(hours, minutes, seconds, millis string) (int64, bool) {
	h, err := strconv.ParseInt(hours, 10, 64)
	if err != nil {
		return Unresolved, false
	}
	m, err := strconv.ParseInt(minutes, 10, 64)
	if err != nil {
		return Unresolved, false
	}
	s, err := strconv.ParseInt(seconds, 10, 64)
	if err != nil {
		return Unresolved, false
	}
	ms, err := strconv.ParseInt(millis, 10, 64)
	if err != nil {
		return Unresolved, false
	}

	if h == 0 && m == 0 && s == 0 && ms == 0 {
		return Unresolved, false
	}

	return sumScaled(
		scaled{h, msPerHour},
		scaled{m, msPerMinute},
		scaled{s, msPerSecond},
		scaled{ms, 1},
	)
}

func decodeUnit(integer, fraction, unit string) (int64, bool) {
	i, err := strconv.ParseInt(integer, 10, 64)
	if err != nil {
		return Unresolved, false
	}
	f, err := strconv.ParseInt(fraction, 10, 64)
	if err != nil {
		return Unresolved, false
	}

	switch unit {
	case "ms":
		return i, true
	case "s":
		return sumScaled(scaled{i, msPerSecond}, scaled{f, 1})
	case "m":
		return sumScaled(scaled{i, msPerMinute}, scaled{f, msPerSecond})
	case "h":
		return sumScaled(scaled{i, msPerHour}, scaled{f, msPerMinute})
	default:
		return Unresolved, false
	}
}

// a non-negative component and its unit in milliseconds
type scaled struct {
	value int64
	unit  int64
}

// adds the terms, reporting unresolved when the total would not fit in an
// int64
func sumScaled(terms ...scaled) (int64, bool) {
	var total int64
	for _, t := range terms {
		if t.value > math.MaxInt64/t.unit {
			return Unresolved, false
		}
		v := t.value * t.unit
		if v > math.MaxInt64-total {
			return Unresolved, false
		}
		total += v
	}
	return total, true
}

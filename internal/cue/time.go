package cue

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseTimeSeconds converts a textual timestamp to fractional seconds.
// Accepted forms, assigned positionally by colon count:
//
//	HH:MM:SS.mmm
//	MM:SS.mmm
//	SS.mmm
//
// The fractional part is optional. The result is rounded to millisecond
// precision. Malformed input returns ErrInvalidTimestamp.
func ParseTimeSeconds(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, fmt.Errorf("bad timing %q: %w", s, ErrInvalidTimestamp)
	}

	var seconds float64

	switch len(parts) {
	case 3:
		h, err := parseIntPart(parts[0])
		if err != nil {
			return 0, fmt.Errorf("bad timing %q: %w", s, ErrInvalidTimestamp)
		}
		m, err := parseIntPart(parts[1])
		if err != nil {
			return 0, fmt.Errorf("bad timing %q: %w", s, ErrInvalidTimestamp)
		}
		sec, err := parseSecondsPart(parts[2])
		if err != nil {
			return 0, fmt.Errorf("bad timing %q: %w", s, ErrInvalidTimestamp)
		}
		seconds = float64(h)*3600 + float64(m)*60 + sec
	case 2:
		m, err := parseIntPart(parts[0])
		if err != nil {
			return 0, fmt.Errorf("bad timing %q: %w", s, ErrInvalidTimestamp)
		}
		sec, err := parseSecondsPart(parts[1])
		if err != nil {
			return 0, fmt.Errorf("bad timing %q: %w", s, ErrInvalidTimestamp)
		}
		seconds = float64(m)*60 + sec
	case 1:
		sec, err := parseSecondsPart(parts[0])
		if err != nil {
			return 0, fmt.Errorf("bad timing %q: %w", s, ErrInvalidTimestamp)
		}
		seconds = sec
	}

	if seconds < 0 {
		return 0, fmt.Errorf("negative timing %q: %w", s, ErrInvalidTimestamp)
	}

	return RoundMillis(seconds), nil
}

// RoundMillis rounds a seconds value to millisecond precision.
func RoundMillis(seconds float64) float64 {
	return math.Round(seconds*1000) / 1000
}

func parseIntPart(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, ErrInvalidTimestamp
	}
	return n, nil
}

// parseSecondsPart parses the seconds field, which may carry a fractional
// part separated by either "." (VTT) or "," (SRT).
func parseSecondsPart(s string) (float64, error) {
	s = strings.Replace(s, ",", ".", 1)
	if s == "" {
		return 0, ErrInvalidTimestamp
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, ErrInvalidTimestamp
	}
	return f, nil
}

package cue_test

import (
	"errors"
	"math"
	"testing"

	"github.com/alnah/go-captions/internal/cue"
)

func TestParseTimeSeconds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{"hours minutes seconds millis", "1:23:45.678", 5025.678},
		{"minutes seconds millis", "23:45.678", 1425.678},
		{"seconds millis", "45.678", 45.678},
		{"bare seconds", "45", 45},
		{"zero", "00:00:00.000", 0},
		{"padded hours", "00:00:02.000", 2},
		{"srt comma separator", "00:00:02,500", 2.5},
		{"rounds to millis", "45.123456789", 45.123},
		{"single digit hour", "1:02:03", 3723},
		{"leading space", " 00:01:00.000", 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := cue.ParseTimeSeconds(tt.input)
			if err != nil {
				t.Fatalf("ParseTimeSeconds(%q) error: %v", tt.input, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseTimeSeconds(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimeSecondsInvalid(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"abc",
		"1:2:3:4",
		"aa:bb:cc",
		"-5",
		"1:-2:3",
		"12:xx",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			t.Parallel()

			_, err := cue.ParseTimeSeconds(input)
			if err == nil {
				t.Fatalf("ParseTimeSeconds(%q) expected error, got nil", input)
			}
			if !errors.Is(err, cue.ErrInvalidTimestamp) {
				t.Errorf("error %v is not ErrInvalidTimestamp", err)
			}
		})
	}
}

// Package format renders cleaned cues for output: plain text transcripts
// and SRT/VTT subtitle documents.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/alnah/go-captions/internal/cue"
)

// Clock formats seconds as HH:MM:SS or MM:SS for human display.
func Clock(seconds float64) string {
	s := int(seconds)
	h := s / 3600
	m := (s % 3600) / 60
	sec := s % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}

// srtTimestamp formats seconds as an SRT timing value (comma millis).
func srtTimestamp(seconds float64) string {
	return timestamp(seconds, ",")
}

// vttTimestamp formats seconds as a VTT timing value (period millis).
func vttTimestamp(seconds float64) string {
	return timestamp(seconds, ".")
}

func timestamp(seconds float64, sep string) string {
	millis := int(math.Round(seconds * 1000))
	h := millis / 3600000
	m := (millis % 3600000) / 60000
	s := (millis % 60000) / 1000
	ms := millis % 1000
	return fmt.Sprintf("%02d:%02d:%02d%s%03d", h, m, s, sep, ms)
}

// PlainTextOptions configures PlainText rendering.
type PlainTextOptions struct {
	// IncludeTimestamps prefixes each cue with its start time as [MM:SS].
	IncludeTimestamps bool

	// Separator joins cue texts. Defaults to a single space.
	Separator string

	// MaxLength truncates the result with an ellipsis when positive.
	MaxLength int
}

// PlainText joins cue texts into a single transcript string.
func PlainText(cues []cue.Cue, opts PlainTextOptions) string {
	sep := opts.Separator
	if sep == "" {
		sep = " "
	}

	parts := make([]string, 0, len(cues))
	for _, c := range cues {
		if opts.IncludeTimestamps {
			parts = append(parts, fmt.Sprintf("[%s] %s", Clock(c.Start), c.Text))
		} else {
			parts = append(parts, c.Text)
		}
	}

	text := strings.Join(parts, sep)
	if opts.MaxLength > 0 && len(text) > opts.MaxLength {
		text = text[:opts.MaxLength] + "..."
	}
	return text
}

// SRT renders cues as a SubRip document.
func SRT(cues []cue.Cue) string {
	var b strings.Builder
	for i, c := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n", i+1,
			srtTimestamp(c.Start), srtTimestamp(c.End), c.Text)
		if i < len(cues)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// VTT renders cues as a WebVTT document.
func VTT(cues []cue.Cue) string {
	var b strings.Builder
	b.WriteString("WEBVTT\n\n")
	for i, c := range cues {
		fmt.Fprintf(&b, "%s --> %s\n%s\n",
			vttTimestamp(c.Start), vttTimestamp(c.End), c.Text)
		if i < len(cues)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Package subtitle parses raw caption payloads (WebVTT, SRT, and YouTube's
// timedtext XML dialect) into cue lists. All three formats sit behind one
// Parser interface so callers never branch on format-specific logic.
package subtitle

import (
	"strings"

	"github.com/alnah/go-captions/internal/cue"
)

// Parser converts one raw caption payload into a cue list.
//
// A payload that is structurally recognizable but contains zero well-formed
// cues yields an empty slice and no error; the caller treats that as "this
// source produced nothing usable". Only a payload the parser cannot make
// sense of at all returns an error.
type Parser interface {
	// Format returns the short format tag ("vtt", "srt", "timedtext").
	Format() string

	// Parse extracts cues from raw caption text.
	Parse(raw string) ([]cue.Cue, error)
}

// Compile-time interface compliance checks.
var (
	_ Parser = (*VTTParser)(nil)
	_ Parser = (*SRTParser)(nil)
	_ Parser = (*TimedTextParser)(nil)
)

// Detect picks a parser for a raw payload by inspecting its content.
// Priority: explicit WEBVTT header, timedtext XML markers, then SRT as the
// fallback for blank-line-separated numbered blocks.
func Detect(raw string) Parser {
	trimmed := strings.TrimSpace(raw)

	if strings.HasPrefix(trimmed, "WEBVTT") {
		return &VTTParser{}
	}
	if strings.Contains(trimmed, "<transcript") || strings.Contains(trimmed, "<text start=") {
		return &TimedTextParser{}
	}
	if strings.Contains(trimmed, "-->") && strings.Contains(trimmed, ",") {
		return &SRTParser{}
	}
	// VTT timing lines without the header still parse as VTT.
	return &VTTParser{}
}

// ForFormat returns the parser for an explicit format tag, or nil for an
// unknown tag.
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "vtt", "webvtt":
		return &VTTParser{}
	case "srt", "subrip":
		return &SRTParser{}
	case "timedtext", "xml", "srv1":
		return &TimedTextParser{}
	default:
		return nil
	}
}

// ParseAuto detects the payload format and parses it.
func ParseAuto(raw string) ([]cue.Cue, error) {
	return Detect(raw).Parse(raw)
}

package subtitle

import (
	"regexp"
	"strings"

	"github.com/alnah/go-captions/internal/cue"
)

// timingLine matches a VTT cue timing line. Lenient on digit counts: YouTube
// emits both 00:00:02.000 and 0:00:02 forms.
var timingLine = regexp.MustCompile(
	`^(\d{1,2}:\d{2}:\d{2}(?:\.\d{1,3})?|\d{1,2}:\d{2}(?:\.\d{1,3})?)\s*-->\s*(\d{1,2}:\d{2}:\d{2}(?:\.\d{1,3})?|\d{1,2}:\d{2}(?:\.\d{1,3})?)`)

// timePrefix recognizes a line that begins with a timestamp, used to
// terminate text accumulation without consuming the line.
var timePrefix = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?`)

// cueIdentifier matches numeric cue identifiers between blocks.
var cueIdentifier = regexp.MustCompile(`^\d+$`)

// VTTParser parses WebVTT payloads, including YouTube's ASR flavor with
// per-word timing tags embedded in the cue text.
type VTTParser struct{}

func (*VTTParser) Format() string { return "vtt" }

// Parse walks the payload line by line. Header lines (WEBVTT, NOTE, STYLE,
// REGION) are skipped. Every line following a timing line is joined into
// that cue's text until a blank line or the next timing line.
func (*VTTParser) Parse(raw string) ([]cue.Cue, error) {
	lines := strings.Split(raw, "\n")

	var cues []cue.Cue
	var current *cue.Cue
	var text []string

	flush := func() {
		if current == nil {
			return
		}
		clean := cue.NormalizeText(strings.Join(text, " "))
		if clean != "" {
			c := *current
			c.Text = clean
			cues = append(cues, c)
		}
		current = nil
		text = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush()
			continue
		}
		if isHeaderLine(trimmed) {
			continue
		}

		if m := timingLine.FindStringSubmatch(trimmed); m != nil {
			flush()

			start, err := cue.ParseTimeSeconds(m[1])
			if err != nil {
				continue
			}
			end, err := cue.ParseTimeSeconds(m[2])
			if err != nil {
				continue
			}
			current = &cue.Cue{Start: start, End: end}
			continue
		}

		if current == nil {
			continue
		}
		// Numeric identifiers between blocks are not cue text.
		if cueIdentifier.MatchString(trimmed) && len(text) == 0 {
			continue
		}
		if timePrefix.MatchString(trimmed) {
			flush()
			continue
		}
		text = append(text, trimmed)
	}
	flush()

	return cues, nil
}

func isHeaderLine(line string) bool {
	return strings.HasPrefix(line, "WEBVTT") ||
		strings.HasPrefix(line, "NOTE") ||
		strings.HasPrefix(line, "STYLE") ||
		strings.HasPrefix(line, "REGION") ||
		strings.HasPrefix(line, "Kind:") ||
		strings.HasPrefix(line, "Language:")
}

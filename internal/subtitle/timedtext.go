package subtitle

import (
	"regexp"
	"strconv"

	"github.com/alnah/go-captions/internal/cue"
)

// defaultTimedTextDuration is the estimated cue duration when the payload
// carries no end time and no following cue to infer one from. The timedtext
// dialect handled here only guarantees start attributes.
const defaultTimedTextDuration = 3.0

// textElement extracts <text start="..."> elements. An optional dur
// attribute is honored when present, though this dialect usually omits it.
var textElement = regexp.MustCompile(
	`<text start="([^"]+)"(?:\s+dur="([^"]+)")?[^>]*>([^<]*)</text>`)

// TimedTextParser parses YouTube's timedtext XML dialect.
type TimedTextParser struct{}

func (*TimedTextParser) Format() string { return "timedtext" }

// Parse regex-extracts text elements and decodes their entity-escaped
// content. End times are inferred as the start of the next cue where
// available; the last cue (or any cue followed by a large gap) falls back to
// a fixed 3-second estimate. That inference is an approximation, not a
// precision guarantee.
func (*TimedTextParser) Parse(raw string) ([]cue.Cue, error) {
	matches := textElement.FindAllStringSubmatch(raw, -1)

	var cues []cue.Cue
	for _, m := range matches {
		start, err := strconv.ParseFloat(m[1], 64)
		if err != nil || start < 0 {
			continue
		}

		text := cue.NormalizeText(m[3])
		if text == "" {
			continue
		}

		c := cue.Cue{Start: cue.RoundMillis(start), Text: text}
		if m[2] != "" {
			if dur, err := strconv.ParseFloat(m[2], 64); err == nil && dur > 0 {
				c.End = cue.RoundMillis(start + dur)
			}
		}
		cues = append(cues, c)
	}

	// Fill in missing end times from the next cue's start.
	for i := range cues {
		if cues[i].End > cues[i].Start {
			continue
		}
		end := cues[i].Start + defaultTimedTextDuration
		if i+1 < len(cues) && cues[i+1].Start > cues[i].Start {
			if next := cues[i+1].Start; next < end {
				end = next
			}
		}
		cues[i].End = cue.RoundMillis(end)
	}

	return cues, nil
}

package subtitle

import (
	"regexp"
	"strings"

	"github.com/alnah/go-captions/internal/cue"
)

// srtTiming matches an SRT timing line. SRT uses a comma as the decimal
// separator, unlike VTT's period.
var srtTiming = regexp.MustCompile(
	`(\d{1,2}:\d{2}:\d{2}[,.]\d{1,3})\s*-->\s*(\d{1,2}:\d{2}:\d{2}[,.]\d{1,3})`)

// blockSeparator splits an SRT payload into blank-line-separated blocks.
var blockSeparator = regexp.MustCompile(`\n\s*\n`)

// SRTParser parses SubRip payloads.
type SRTParser struct{}

func (*SRTParser) Format() string { return "srt" }

// Parse splits the payload into blocks. Each block carries an optional
// numeric index line, a timing line, and one or more text lines that are
// space-joined into the cue text.
func (*SRTParser) Parse(raw string) ([]cue.Cue, error) {
	blocks := blockSeparator.Split(strings.TrimSpace(raw), -1)

	var cues []cue.Cue
	for _, block := range blocks {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			continue
		}

		// The timing line is usually the 2nd line, but index-less blocks
		// put it first.
		timingIdx := -1
		var m []string
		for i := 0; i < len(lines) && i < 2; i++ {
			if m = srtTiming.FindStringSubmatch(lines[i]); m != nil {
				timingIdx = i
				break
			}
		}
		if timingIdx == -1 {
			continue
		}

		start, err := cue.ParseTimeSeconds(m[1])
		if err != nil {
			continue
		}
		end, err := cue.ParseTimeSeconds(m[2])
		if err != nil {
			continue
		}

		text := cue.NormalizeText(strings.Join(lines[timingIdx+1:], " "))
		if text == "" {
			continue
		}

		cues = append(cues, cue.Cue{Start: start, End: end, Text: text})
	}

	return cues, nil
}

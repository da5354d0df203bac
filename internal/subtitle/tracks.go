package subtitle

import (
	"regexp"

	"github.com/alnah/go-captions/internal/cue"
)

var (
	trackElement  = regexp.MustCompile(`<track[^>]*>`)
	langCodeAttr  = regexp.MustCompile(`lang_code="([^"]*)"`)
	trackNameAttr = regexp.MustCompile(`name="([^"]*)"`)
	trackKindAttr = regexp.MustCompile(`kind="([^"]*)"`)

	// bareLangCode is the fallback when no well-formed track elements are
	// found but language codes still appear in the listing.
	bareLangCode = regexp.MustCompile(`lang_code="([a-zA-Z-]+)"`)
)

// ParseTrackList parses a timedtext track listing (XML) into caption track
// metadata. Attribute extraction is regex-based on purpose: the listing is a
// narrow dialect and YouTube's output varies too much for a strict decoder.
func ParseTrackList(raw string) []cue.CaptionTrack {
	var tracks []cue.CaptionTrack

	for _, el := range trackElement.FindAllString(raw, -1) {
		code := firstGroup(langCodeAttr, el)
		if code == "" {
			continue
		}
		name := firstGroup(trackNameAttr, el)
		if name == "" {
			name = code
		}
		kind := cue.KindManual
		if firstGroup(trackKindAttr, el) == "asr" {
			kind = cue.KindASR
		}
		tracks = append(tracks, cue.CaptionTrack{LangCode: code, LangName: name, Kind: kind})
	}

	if len(tracks) > 0 {
		return tracks
	}

	// Fallback: collect bare language codes, assume ASR.
	seen := make(map[string]bool)
	for _, m := range bareLangCode.FindAllStringSubmatch(raw, -1) {
		code := m[1]
		if seen[code] {
			continue
		}
		seen[code] = true
		tracks = append(tracks, cue.CaptionTrack{LangCode: code, LangName: code, Kind: cue.KindASR})
	}
	return tracks
}

func firstGroup(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}

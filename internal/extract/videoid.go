package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// videoIDPatterns match the URL shapes YouTube serves videos under.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=|youtu\.be/)([^&\n?#/]+)`),
	regexp.MustCompile(`youtube\.com/embed/([^&\n?#/]+)`),
	regexp.MustCompile(`youtube\.com/v/([^&\n?#/]+)`),
	regexp.MustCompile(`youtube\.com/shorts/([^&\n?#/]+)`),
}

// ParseVideoID extracts the video ID from a YouTube URL.
// Accepts watch, youtu.be, embed, /v/ and shorts URL shapes.
func ParseVideoID(videoURL string) (string, error) {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(videoURL); m != nil && m[1] != "" {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidURL, videoURL)
}

// DetectRestriction scans raw payload content (an error page, tool output,
// or an API error body) for known restriction markers. Returns nil when
// no marker is present.
func DetectRestriction(content string) error {
	lower := strings.ToLower(content)

	switch {
	case strings.Contains(lower, "age-restricted"),
		strings.Contains(lower, "age restricted"):
		return ErrAgeRestricted
	case strings.Contains(lower, "members-only"),
		strings.Contains(lower, "members only"):
		return ErrMembersOnly
	case strings.Contains(lower, "region-blocked"),
		strings.Contains(lower, "region blocked"):
		return ErrRegionBlocked
	case strings.Contains(lower, "live") && strings.Contains(lower, "not supported"):
		return ErrLiveUnsupported
	}

	return nil
}

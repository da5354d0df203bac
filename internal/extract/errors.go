package extract

import "errors"

// Sentinel errors for extraction failures. Use errors.Is to check.
var (
	// ErrInvalidURL indicates the input is not a recognizable YouTube URL.
	ErrInvalidURL = errors.New("invalid YouTube URL")

	// ErrNoCaptions indicates the video has no caption tracks.
	ErrNoCaptions = errors.New("no captions available")

	// ErrRegionBlocked indicates the video is not available in this region.
	ErrRegionBlocked = errors.New("video is region-blocked")

	// ErrAgeRestricted indicates the video requires age verification.
	ErrAgeRestricted = errors.New("video is age-restricted")

	// ErrMembersOnly indicates the video is limited to channel members.
	ErrMembersOnly = errors.New("video is members-only")

	// ErrLiveUnsupported indicates live streams cannot be extracted.
	ErrLiveUnsupported = errors.New("live streams are not supported")

	// ErrAllMethodsFailed indicates every extraction method was exhausted.
	ErrAllMethodsFailed = errors.New("all extraction methods failed")

	// ErrYtDlpNotFound indicates the yt-dlp binary could not be located.
	ErrYtDlpNotFound = errors.New("yt-dlp not found (install with: pip install yt-dlp)")

	// ErrAPIKeyMissing indicates a required API key is not configured.
	ErrAPIKeyMissing = errors.New("API key not configured")
)

// IsRestriction reports whether err is a terminal video restriction.
// Restrictions stop further caption-based methods; speech-to-text may
// still succeed for age-restricted or members-only content the caller
// has access to, so the orchestrator lets Whisper proceed.
func IsRestriction(err error) bool {
	return errors.Is(err, ErrNoCaptions) ||
		errors.Is(err, ErrRegionBlocked) ||
		errors.Is(err, ErrAgeRestricted) ||
		errors.Is(err, ErrMembersOnly) ||
		errors.Is(err, ErrLiveUnsupported)
}

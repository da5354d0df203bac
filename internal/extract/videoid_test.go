package extract_test

import (
	"errors"
	"testing"

	"github.com/alnah/go-captions/internal/extract"
)

func TestParseVideoID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch with params", "https://www.youtube.com/watch?list=PL123&v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short link", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short link with query", "https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ"},
		{"embed", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"legacy v path", "https://www.youtube.com/v/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"shorts", "https://www.youtube.com/shorts/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := extract.ParseVideoID(tt.url)
			if err != nil {
				t.Fatalf("ParseVideoID(%q) error: %v", tt.url, err)
			}
			if got != tt.want {
				t.Errorf("ParseVideoID(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestParseVideoIDInvalid(t *testing.T) {
	t.Parallel()

	for _, url := range []string{"", "not a url", "https://vimeo.com/12345"} {
		if _, err := extract.ParseVideoID(url); !errors.Is(err, extract.ErrInvalidURL) {
			t.Errorf("ParseVideoID(%q) = %v, want ErrInvalidURL", url, err)
		}
	}
}

func TestDetectRestriction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"age hyphen", "ERROR: this video is age-restricted", extract.ErrAgeRestricted},
		{"age space", "Sign in to confirm you are Age Restricted ok", extract.ErrAgeRestricted},
		{"members", "This video is members-only content", extract.ErrMembersOnly},
		{"region", "The uploader has made this region blocked", extract.ErrRegionBlocked},
		{"live", "live streams are not supported here", extract.ErrLiveUnsupported},
		{"clean", "WEBVTT\n\n00:00.000 --> 00:02.000\nhello", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := extract.DetectRestriction(tt.content)
			if !errors.Is(got, tt.want) {
				t.Errorf("DetectRestriction = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRestriction(t *testing.T) {
	t.Parallel()

	for _, err := range []error{
		extract.ErrNoCaptions,
		extract.ErrRegionBlocked,
		extract.ErrAgeRestricted,
		extract.ErrMembersOnly,
		extract.ErrLiveUnsupported,
	} {
		if !extract.IsRestriction(err) {
			t.Errorf("IsRestriction(%v) = false, want true", err)
		}
	}

	if extract.IsRestriction(errors.New("network down")) {
		t.Error("arbitrary error should not be a restriction")
	}
	if extract.IsRestriction(extract.ErrYtDlpNotFound) {
		t.Error("missing binary is not a video restriction")
	}
}

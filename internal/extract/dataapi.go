package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/alnah/go-captions/internal/cue"
	"github.com/alnah/go-captions/internal/subtitle"
)

const (
	dataAPICaptionsURL  = "https://www.googleapis.com/youtube/v3/captions"
	timedTextListURL    = "https://video.google.com/timedtext"
	dataAPITrackKindASR = "asr"
)

// TrackLister enumerates the caption tracks available for a video.
// It prefers the YouTube Data API when a key is configured and falls
// back to the public timedtext list endpoint.
type TrackLister struct {
	http   httpDoer
	apiKey string
}

// TrackListerOption configures a TrackLister.
type TrackListerOption func(*TrackLister)

// WithTrackListerHTTPClient sets the HTTP client.
func WithTrackListerHTTPClient(c httpDoer) TrackListerOption {
	return func(l *TrackLister) { l.http = c }
}

// NewTrackLister creates a lister. apiKey may be empty; the Data API is
// then skipped entirely.
func NewTrackLister(apiKey string, opts ...TrackListerOption) *TrackLister {
	l := &TrackLister{
		http:   defaultHTTPClient,
		apiKey: apiKey,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ListTracks returns the caption tracks for a video.
func (l *TrackLister) ListTracks(ctx context.Context, videoID string) ([]cue.CaptionTrack, error) {
	if l.apiKey != "" {
		tracks, err := l.listFromDataAPI(ctx, videoID)
		if err == nil && len(tracks) > 0 {
			return tracks, nil
		}
		// Data API failure falls back to the public endpoint.
	}
	return l.listFromTimedText(ctx, videoID)
}

// dataAPICaptionsResponse is the captions.list response shape.
type dataAPICaptionsResponse struct {
	Items []struct {
		Snippet struct {
			Language  string `json:"language"`
			Name      string `json:"name"`
			TrackKind string `json:"trackKind"`
		} `json:"snippet"`
	} `json:"items"`
}

func (l *TrackLister) listFromDataAPI(ctx context.Context, videoID string) ([]cue.CaptionTrack, error) {
	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("videoId", videoID)
	q.Set("key", l.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		dataAPICaptionsURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("YouTube Data API: HTTP %d", resp.StatusCode)
	}

	var parsed dataAPICaptionsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse captions list: %w", err)
	}

	tracks := make([]cue.CaptionTrack, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		name := item.Snippet.Name
		if name == "" {
			name = item.Snippet.Language
		}
		kind := cue.KindManual
		if item.Snippet.TrackKind == dataAPITrackKindASR {
			kind = cue.KindASR
		}
		tracks = append(tracks, cue.CaptionTrack{
			LangCode: item.Snippet.Language,
			LangName: name,
			Kind:     kind,
		})
	}
	return tracks, nil
}

func (l *TrackLister) listFromTimedText(ctx context.Context, videoID string) ([]cue.CaptionTrack, error) {
	q := url.Values{}
	q.Set("type", "list")
	q.Set("v", videoID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		timedTextListURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNoCaptions
	case http.StatusForbidden:
		return nil, ErrRegionBlocked
	default:
		return nil, fmt.Errorf("timedtext list: HTTP %d", resp.StatusCode)
	}

	return subtitle.ParseTrackList(string(body)), nil
}

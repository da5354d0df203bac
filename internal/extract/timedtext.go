package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/alnah/go-captions/internal/cue"
	"github.com/alnah/go-captions/internal/lang"
	"github.com/alnah/go-captions/internal/subtitle"
)

// browserUserAgent is sent on YouTube-facing requests; the watch page
// serves a reduced payload without a browser user agent.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// httpDoer abstracts the HTTP client for testing.
type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// defaultHTTPClient bounds YouTube-facing requests.
var defaultHTTPClient = &http.Client{Timeout: 30 * time.Second}

// captionTracksPattern locates the player caption track list embedded in
// the watch page HTML.
var captionTracksPattern = regexp.MustCompile(
	`"captions":\s*\{[^}]*"playerCaptionsTracklistRenderer":\s*\{[^}]*"captionTracks":\s*\[([^\]]+)\]`)

// captionTrackInfo is one entry of the watch page captionTracks array.
type captionTrackInfo struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
	Name         struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
}

// baseURLUnescaper reverses the JavaScript escaping YouTube applies to
// embedded caption URLs. json.Unmarshal already decodes these, but the
// watch page sometimes double-escapes.
var baseURLUnescaper = strings.NewReplacer(
	`\u0026`, "&",
	`\u003d`, "=",
	`\u003c`, "<",
	`\u003e`, ">",
)

// TimedTextFetcher scrapes the watch page for the caption track list and
// downloads the matching track from the timedtext endpoint.
type TimedTextFetcher struct {
	http httpDoer
}

// TimedTextOption configures a TimedTextFetcher.
type TimedTextOption func(*TimedTextFetcher)

// WithTimedTextHTTPClient sets the HTTP client.
func WithTimedTextHTTPClient(c httpDoer) TimedTextOption {
	return func(f *TimedTextFetcher) { f.http = c }
}

// NewTimedTextFetcher creates a fetcher with production defaults.
func NewTimedTextFetcher(opts ...TimedTextOption) *TimedTextFetcher {
	f := &TimedTextFetcher{http: defaultHTTPClient}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Method implements Fetcher.
func (f *TimedTextFetcher) Method() Method { return MethodTimedText }

// Fetch scrapes the watch page for caption tracks, picks the best track
// for the requested language, and parses the timedtext XML it serves.
func (f *TimedTextFetcher) Fetch(ctx context.Context, videoURL, videoID, language string) ([]cue.Cue, error) {
	html, err := f.get(ctx, "https://www.youtube.com/watch?v="+videoID)
	if err != nil {
		return nil, fmt.Errorf("fetch watch page: %w", err)
	}

	tracks, err := parseWatchPageTracks(html)
	if err != nil {
		if rerr := DetectRestriction(html); rerr != nil {
			return nil, rerr
		}
		return nil, err
	}

	trackURL, err := pickTrackURL(tracks, language)
	if err != nil {
		return nil, err
	}

	xml, err := f.get(ctx, trackURL)
	if err != nil {
		return nil, fmt.Errorf("fetch timedtext: %w", err)
	}

	parser := subtitle.TimedTextParser{}
	return parser.Parse(xml)
}

// get performs a GET with a browser user agent and returns the body.
func (f *TimedTextFetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return string(body), nil
	case http.StatusNotFound:
		return "", ErrNoCaptions
	case http.StatusForbidden:
		return "", ErrRegionBlocked
	default:
		return "", fmt.Errorf("HTTP %d", resp.StatusCode)
	}
}

// parseWatchPageTracks extracts the caption track array from watch page HTML.
func parseWatchPageTracks(html string) ([]captionTrackInfo, error) {
	m := captionTracksPattern.FindStringSubmatch(html)
	if m == nil {
		return nil, fmt.Errorf("%w: no caption tracks in watch page", ErrNoCaptions)
	}

	var tracks []captionTrackInfo
	if err := json.Unmarshal([]byte("["+m[1]+"]"), &tracks); err != nil {
		return nil, fmt.Errorf("parse caption tracks: %w", err)
	}
	return tracks, nil
}

// pickTrackURL selects the best track for the requested language and
// returns its unescaped download URL.
func pickTrackURL(tracks []captionTrackInfo, language string) (string, error) {
	candidates := make([]cue.CaptionTrack, len(tracks))
	for i, t := range tracks {
		kind := cue.KindManual
		if t.Kind == "asr" {
			kind = cue.KindASR
		}
		candidates[i] = cue.CaptionTrack{
			LangCode: t.LanguageCode,
			LangName: t.Name.SimpleText,
			Kind:     kind,
		}
	}

	best, ok := lang.PickTrack(candidates, language)
	if !ok {
		return "", fmt.Errorf("%w: no %s caption track", ErrNoCaptions, language)
	}

	for i, t := range tracks {
		if candidates[i] == best && t.BaseURL != "" {
			return baseURLUnescaper.Replace(t.BaseURL), nil
		}
	}
	return "", fmt.Errorf("%w: track has no download URL", ErrNoCaptions)
}

var _ Fetcher = (*TimedTextFetcher)(nil)

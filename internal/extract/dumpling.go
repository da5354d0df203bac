package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/alnah/go-captions/internal/apierr"
	"github.com/alnah/go-captions/internal/cue"
)

// dumplingTranscriptURL is the DumplingAI YouTube transcript endpoint.
const dumplingTranscriptURL = "https://app.dumplingai.com/api/v1/get-youtube-transcript"

// dumplingFallbackSeconds spaces out items the API returns without timing.
const dumplingFallbackSeconds = 5.0

// DumplingFetcher retrieves transcripts from the DumplingAI API.
type DumplingFetcher struct {
	http   httpDoer
	apiKey string
	retry  apierr.RetryConfig
}

// DumplingOption configures a DumplingFetcher.
type DumplingOption func(*DumplingFetcher)

// WithDumplingHTTPClient sets the HTTP client.
func WithDumplingHTTPClient(c httpDoer) DumplingOption {
	return func(f *DumplingFetcher) { f.http = c }
}

// WithDumplingRetry sets the retry configuration.
func WithDumplingRetry(cfg apierr.RetryConfig) DumplingOption {
	return func(f *DumplingFetcher) { f.retry = cfg }
}

// NewDumplingFetcher creates a fetcher. apiKey is required at Fetch time.
func NewDumplingFetcher(apiKey string, opts ...DumplingOption) *DumplingFetcher {
	f := &DumplingFetcher{
		http:   defaultHTTPClient,
		apiKey: apiKey,
		retry:  apierr.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Method implements Fetcher.
func (f *DumplingFetcher) Method() Method { return MethodDumpling }

// dumplingItem is one transcript entry. The API returns either timed
// objects or bare strings depending on the video.
type dumplingItem struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

func (d *dumplingItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d.Text = s
		return nil
	}

	type plain dumplingItem
	return json.Unmarshal(data, (*plain)(d))
}

// dumplingResponse is the API response shape.
type dumplingResponse struct {
	Success    bool           `json:"success"`
	Transcript []dumplingItem `json:"transcript"`
}

// Fetch posts the video URL to DumplingAI and converts the transcript
// to cues. Items without timing get estimated 5-second strides.
// Transient API failures are retried with exponential backoff.
func (f *DumplingFetcher) Fetch(ctx context.Context, videoURL, videoID, language string) ([]cue.Cue, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("%w: set DUMPLING_API_KEY", ErrAPIKeyMissing)
	}

	return apierr.RetryWithBackoff(ctx, f.retry, func() ([]cue.Cue, error) {
		return f.fetchOnce(ctx, videoURL, language)
	}, apierr.Retryable)
}

func (f *DumplingFetcher) fetchOnce(ctx context.Context, videoURL, language string) ([]cue.Cue, error) {
	payload, err := json.Marshal(map[string]string{
		"url":      videoURL,
		"language": language,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		dumplingTranscriptURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+f.apiKey)

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if sentinel := apierr.FromStatus(resp.StatusCode); sentinel != nil {
		return nil, fmt.Errorf("DumplingAI: HTTP %d: %w", resp.StatusCode, sentinel)
	}

	var parsed dumplingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse DumplingAI response: %w", err)
	}
	if !parsed.Success || len(parsed.Transcript) == 0 {
		return nil, fmt.Errorf("%w: DumplingAI returned no transcript", ErrNoCaptions)
	}

	cues := make([]cue.Cue, 0, len(parsed.Transcript))
	for i, item := range parsed.Transcript {
		start, end := item.Start, item.End
		if start == 0 && end == 0 {
			start = float64(i) * dumplingFallbackSeconds
			end = start + dumplingFallbackSeconds
		}
		cues = append(cues, cue.Cue{Start: start, End: end, Text: item.Text})
	}
	return cues, nil
}

var _ Fetcher = (*DumplingFetcher)(nil)

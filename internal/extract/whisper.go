package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-captions/internal/apierr"
	"github.com/alnah/go-captions/internal/cue"
	"github.com/alnah/go-captions/internal/lang"
)

// whisperFallbackSeconds spans the single cue used when the API returns
// text without segment timings.
const whisperFallbackSeconds = 10.0

// audioTranscriber is the slice of the OpenAI client Whisper needs.
// *openai.Client implements this implicitly.
type audioTranscriber interface {
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
}

// WhisperFetcher extracts the audio track with yt-dlp and transcribes it
// with OpenAI Whisper. It is the last resort for videos without captions.
type WhisperFetcher struct {
	client   audioTranscriber
	runner   commandRunner
	resolver *YtDlpResolver
	tempDir  string
	retry    apierr.RetryConfig
}

// WhisperOption configures a WhisperFetcher.
type WhisperOption func(*WhisperFetcher)

// WithWhisperRunner sets the command runner for audio extraction.
func WithWhisperRunner(r commandRunner) WhisperOption {
	return func(f *WhisperFetcher) { f.runner = r }
}

// WithWhisperResolver sets the yt-dlp binary resolver.
func WithWhisperResolver(res *YtDlpResolver) WhisperOption {
	return func(f *WhisperFetcher) { f.resolver = res }
}

// WithWhisperTempDir sets the directory for extracted audio files.
func WithWhisperTempDir(dir string) WhisperOption {
	return func(f *WhisperFetcher) { f.tempDir = dir }
}

// WithWhisperRetry sets the retry configuration.
func WithWhisperRetry(cfg apierr.RetryConfig) WhisperOption {
	return func(f *WhisperFetcher) { f.retry = cfg }
}

// WithWhisperTranscriber sets the transcription client (for testing).
func WithWhisperTranscriber(t audioTranscriber) WhisperOption {
	return func(f *WhisperFetcher) { f.client = t }
}

// NewWhisperFetcher creates a fetcher. The client is injected to enable
// testing with mocks.
func NewWhisperFetcher(client *openai.Client, opts ...WhisperOption) *WhisperFetcher {
	f := &WhisperFetcher{
		client:   client,
		runner:   execRunner{},
		resolver: NewYtDlpResolver(),
		tempDir:  os.TempDir(),
		retry:    apierr.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Method implements Fetcher.
func (f *WhisperFetcher) Method() Method { return MethodWhisper }

// Fetch extracts the audio as mp3 and requests a verbose JSON
// transcription with segment timings. The audio file is removed on
// success and error. Transient API failures retry with backoff.
func (f *WhisperFetcher) Fetch(ctx context.Context, videoURL, videoID, language string) ([]cue.Cue, error) {
	binPath, err := f.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	audioPath := filepath.Join(f.tempDir,
		fmt.Sprintf("audio_%s_%d.mp3", videoID, time.Now().UnixNano()))
	defer func() { _ = os.Remove(audioPath) }()

	args := []string{
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "0",
		"--output", audioPath,
		videoURL,
	}

	out, err := f.runner.RunOutput(ctx, binPath, args...)
	if err != nil {
		if rerr := DetectRestriction(out); rerr != nil {
			return nil, rerr
		}
		return nil, fmt.Errorf("audio extraction failed: %v: %s", err, firstLine(out))
	}

	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("audio extraction produced no file: %w", err)
	}

	resp, err := apierr.RetryWithBackoff(ctx, f.retry, func() (openai.AudioResponse, error) {
		resp, err := f.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    openai.Whisper1,
			FilePath: audioPath,
			Format:   openai.AudioResponseFormatVerboseJSON,
			Language: lang.BaseCode(language),
		})
		if err != nil {
			return openai.AudioResponse{}, apierr.ClassifyOpenAI(err)
		}
		return resp, nil
	}, apierr.Retryable)
	if err != nil {
		return nil, err
	}

	return whisperCues(resp), nil
}

// whisperCues converts a verbose JSON response to cues. When the API
// returns no segments, the whole text becomes a single cue spanning the
// reported audio duration.
func whisperCues(resp openai.AudioResponse) []cue.Cue {
	if len(resp.Segments) == 0 {
		if strings.TrimSpace(resp.Text) == "" {
			return nil
		}
		end := resp.Duration
		if end <= 0 {
			end = whisperFallbackSeconds
		}
		return []cue.Cue{{Start: 0, End: end, Text: strings.TrimSpace(resp.Text)}}
	}

	cues := make([]cue.Cue, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		cues = append(cues, cue.Cue{
			Start: seg.Start,
			End:   seg.End,
			Text:  strings.TrimSpace(seg.Text),
		})
	}
	return cues
}

// Compile-time interface compliance checks.
var (
	_ Fetcher          = (*WhisperFetcher)(nil)
	_ audioTranscriber = (*openai.Client)(nil)
)

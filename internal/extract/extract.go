// Package extract pulls caption cues for a YouTube video out of whatever
// source will yield them: yt-dlp subtitle download, the timedtext endpoint,
// the DumplingAI transcript API, or Whisper speech-to-text as a last resort.
//
// Methods are tried in order. An error or an empty result both advance to
// the next method; the first method that produces non-empty cleaned cues
// wins. Restriction errors (region block, age restriction, members-only,
// live) skip the remaining caption-based methods but still allow Whisper.
package extract

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-captions/internal/cue"
	"github.com/alnah/go-captions/internal/pipeline"
)

// Method identifies an extraction strategy.
type Method string

const (
	MethodYtDlp     Method = "yt-dlp"
	MethodTimedText Method = "timedtext"
	MethodDumpling  Method = "dumpling"
	MethodWhisper   Method = "whisper"

	// MethodNone marks a terminal result after all methods failed.
	MethodNone Method = "none"
)

// defaultMethodTimeout bounds a single method attempt.
const defaultMethodTimeout = 60 * time.Second

// Metadata summarizes a successful extraction.
type Metadata struct {
	TotalDuration float64 `json:"total_duration"`
	SegmentCount  int     `json:"segment_count"`
	Language      string  `json:"language"`
}

// Result is the outcome of an extraction attempt.
type Result struct {
	Success  bool      `json:"success"`
	Segments []cue.Cue `json:"segments,omitempty"`
	Method   Method    `json:"method"`
	Metadata Metadata  `json:"metadata"`

	// Err is set on terminal failure. Not serialized; the CLI renders it.
	Err error `json:"-"`
}

// Fetcher retrieves raw cues for a video using one extraction method.
// Implementations return an error or an empty slice when the method
// cannot produce captions; the orchestrator treats both the same way.
type Fetcher interface {
	Method() Method
	Fetch(ctx context.Context, videoURL, videoID, language string) ([]cue.Cue, error)
}

// Orchestrator tries fetchers in order until one yields usable cues.
type Orchestrator struct {
	fetchers []Fetcher
	timeout  time.Duration
	clean    pipeline.Options
	stderr   io.Writer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithFetchers replaces the fetcher list. Order is attempt order.
func WithFetchers(fetchers ...Fetcher) Option {
	return func(o *Orchestrator) { o.fetchers = fetchers }
}

// WithTimeout sets the per-method attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithCleanOptions overrides the post-processing applied to fetched cues.
func WithCleanOptions(opts pipeline.Options) Option {
	return func(o *Orchestrator) { o.clean = opts }
}

// WithStderr sets the writer for progress messages.
func WithStderr(w io.Writer) Option {
	return func(o *Orchestrator) { o.stderr = w }
}

// WithPreferred moves the named method to the front of the attempt order.
// Unknown methods are ignored.
func WithPreferred(m Method) Option {
	return func(o *Orchestrator) {
		for i, f := range o.fetchers {
			if f.Method() == m {
				reordered := make([]Fetcher, 0, len(o.fetchers))
				reordered = append(reordered, f)
				reordered = append(reordered, o.fetchers[:i]...)
				reordered = append(reordered, o.fetchers[i+1:]...)
				o.fetchers = reordered
				return
			}
		}
	}
}

// NewOrchestrator creates an Orchestrator. Without WithFetchers the
// attempt order is empty; callers assemble fetchers because each needs
// its own credentials and collaborators.
func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		timeout: defaultMethodTimeout,
		clean:   pipeline.DefaultOptions(),
		stderr:  io.Discard,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Extract runs the configured methods in order and returns the first
// non-empty result. On exhaustion it returns a terminal Result with
// Success false, Method "none", and Err wrapping the last failure.
func (o *Orchestrator) Extract(ctx context.Context, videoURL, language string) Result {
	videoID, err := ParseVideoID(videoURL)
	if err != nil {
		return Result{Method: MethodNone, Err: err}
	}

	var lastErr error
	var restriction error

	for _, f := range o.fetchers {
		if err := ctx.Err(); err != nil {
			return Result{Method: MethodNone, Err: err}
		}
		// A restricted video will not yield captions from any caption
		// source; only speech-to-text has a chance.
		if restriction != nil && f.Method() != MethodWhisper {
			continue
		}

		fmt.Fprintf(o.stderr, "trying %s...\n", f.Method())

		mctx, cancel := context.WithTimeout(ctx, o.timeout)
		cues, err := f.Fetch(mctx, videoURL, videoID, language)
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("%s: %w", f.Method(), err)
			if IsRestriction(err) {
				restriction = err
			}
			fmt.Fprintf(o.stderr, "%s failed: %v\n", f.Method(), err)
			continue
		}

		cleaned := pipeline.Clean(cues, o.clean)
		if len(cleaned) == 0 {
			lastErr = fmt.Errorf("%s: no usable segments", f.Method())
			continue
		}

		return Result{
			Success:  true,
			Segments: cleaned,
			Method:   f.Method(),
			Metadata: Metadata{
				TotalDuration: cue.TotalDuration(cleaned),
				SegmentCount:  len(cleaned),
				Language:      language,
			},
		}
	}

	if lastErr == nil {
		lastErr = ErrNoCaptions
	}
	return Result{
		Method: MethodNone,
		Err:    fmt.Errorf("%w: %w", ErrAllMethodsFailed, lastErr),
	}
}

// ExtractAll extracts captions for multiple videos in parallel, bounded
// by maxParallel. Results are returned in input order; per-video failures
// are reported in each Result rather than aborting the batch. Only
// context cancellation returns an error.
func ExtractAll(
	ctx context.Context,
	o *Orchestrator,
	videoURLs []string,
	language string,
	maxParallel int,
) ([]Result, error) {
	if len(videoURLs) == 0 {
		return nil, nil
	}

	if maxParallel < 1 {
		maxParallel = 1
	}

	results := make([]Result, len(videoURLs))
	sem := make(chan struct{}, maxParallel)

	g, ctx := errgroup.WithContext(ctx)

	for i, url := range videoURLs {
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			results[i] = o.Extract(ctx, url, language)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

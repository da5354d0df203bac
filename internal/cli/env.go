package cli

import (
	"context"
	"io"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-captions/internal/config"
	"github.com/alnah/go-captions/internal/cue"
	"github.com/alnah/go-captions/internal/extract"
	"github.com/alnah/go-captions/internal/resegment"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
type Env struct {
	// I/O and environment
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	ConfigLoader       ConfigLoader
	ExtractorFactory   ExtractorFactory
	ResegmenterFactory ResegmenterFactory
	TrackListerFactory TrackListerFactory
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// Extractor runs the caption source fallback chain for one video.
type Extractor interface {
	Extract(ctx context.Context, videoURL, language string) extract.Result
	ExtractAll(ctx context.Context, videoURLs []string, language string, maxParallel int) ([]extract.Result, error)
}

// ExtractorConfig carries everything the default factory needs to
// assemble the fetcher chain.
type ExtractorConfig struct {
	OpenAIKey   string
	DumplingKey string
	YtDlpPath   string
	Timeout     time.Duration
	Preferred   extract.Method
	Verbose     io.Writer
}

// ExtractorFactory creates extractors for caption retrieval.
type ExtractorFactory interface {
	NewExtractor(cfg ExtractorConfig) Extractor
}

// Resegmenter rewrites cues into sentence-shaped segments.
type Resegmenter interface {
	Resegment(ctx context.Context, cues []cue.Cue) []cue.Cue
}

// ResegmenterFactory creates resegmenters for transcript rewriting.
type ResegmenterFactory interface {
	NewResegmenter(apiKey string) Resegmenter
}

// TrackLister enumerates available caption tracks for a video.
type TrackLister interface {
	ListTracks(ctx context.Context, videoID string) ([]cue.CaptionTrack, error)
}

// TrackListerFactory creates track listers.
type TrackListerFactory interface {
	NewTrackLister(apiKey string) TrackLister
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) { e.Stdout = w }
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) { e.Stderr = w }
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) { e.Getenv = fn }
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) { e.Now = fn }
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) { e.ConfigLoader = l }
}

// WithExtractorFactory sets the extractor factory.
func WithExtractorFactory(f ExtractorFactory) EnvOption {
	return func(e *Env) { e.ExtractorFactory = f }
}

// WithResegmenterFactory sets the resegmenter factory.
func WithResegmenterFactory(f ResegmenterFactory) EnvOption {
	return func(e *Env) { e.ResegmenterFactory = f }
}

// WithTrackListerFactory sets the track lister factory.
func WithTrackListerFactory(f TrackListerFactory) EnvOption {
	return func(e *Env) { e.TrackListerFactory = f }
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdout:             os.Stdout,
		Stderr:             os.Stderr,
		Getenv:             os.Getenv,
		Now:                time.Now,
		ConfigLoader:       &defaultConfigLoader{},
		ExtractorFactory:   &defaultExtractorFactory{},
		ResegmenterFactory: &defaultResegmenterFactory{},
		TrackListerFactory: &defaultTrackListerFactory{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultExtractorFactory assembles the production fetcher chain:
// yt-dlp, timedtext, then Dumpling and Whisper when keys are present.
type defaultExtractorFactory struct{}

func (defaultExtractorFactory) NewExtractor(cfg ExtractorConfig) Extractor {
	getenv := os.Getenv
	if cfg.YtDlpPath != "" {
		getenv = func(key string) string {
			if key == config.EnvYtDlpPath {
				return cfg.YtDlpPath
			}
			return os.Getenv(key)
		}
	}
	resolver := extract.NewYtDlpResolver(extract.WithResolverGetenv(getenv))

	fetchers := []extract.Fetcher{
		extract.NewYtDlpFetcher(extract.WithYtDlpResolver(resolver)),
		extract.NewTimedTextFetcher(),
	}
	if cfg.DumplingKey != "" {
		fetchers = append(fetchers, extract.NewDumplingFetcher(cfg.DumplingKey))
	}
	if cfg.OpenAIKey != "" {
		client := openai.NewClient(cfg.OpenAIKey)
		fetchers = append(fetchers, extract.NewWhisperFetcher(client,
			extract.WithWhisperResolver(resolver)))
	}

	opts := []extract.Option{extract.WithFetchers(fetchers...)}
	if cfg.Timeout > 0 {
		opts = append(opts, extract.WithTimeout(cfg.Timeout))
	}
	if cfg.Verbose != nil {
		opts = append(opts, extract.WithStderr(cfg.Verbose))
	}
	if cfg.Preferred != "" {
		opts = append(opts, extract.WithPreferred(cfg.Preferred))
	}

	return &defaultExtractor{o: extract.NewOrchestrator(opts...)}
}

// defaultExtractor adapts extract.Orchestrator to the Extractor interface.
type defaultExtractor struct {
	o *extract.Orchestrator
}

func (e *defaultExtractor) Extract(ctx context.Context, videoURL, language string) extract.Result {
	return e.o.Extract(ctx, videoURL, language)
}

func (e *defaultExtractor) ExtractAll(ctx context.Context, videoURLs []string, language string, maxParallel int) ([]extract.Result, error) {
	return extract.ExtractAll(ctx, e.o, videoURLs, language, maxParallel)
}

// defaultResegmenterFactory implements ResegmenterFactory using OpenAI.
type defaultResegmenterFactory struct{}

func (defaultResegmenterFactory) NewResegmenter(apiKey string) Resegmenter {
	client := openai.NewClient(apiKey)
	return resegment.New(client)
}

// defaultTrackListerFactory implements TrackListerFactory.
type defaultTrackListerFactory struct{}

func (defaultTrackListerFactory) NewTrackLister(apiKey string) TrackLister {
	return extract.NewTrackLister(apiKey)
}

// Compile-time interface verification.
var (
	_ ConfigLoader       = (*defaultConfigLoader)(nil)
	_ ExtractorFactory   = (*defaultExtractorFactory)(nil)
	_ Extractor          = (*defaultExtractor)(nil)
	_ ResegmenterFactory = (*defaultResegmenterFactory)(nil)
	_ TrackListerFactory = (*defaultTrackListerFactory)(nil)
)

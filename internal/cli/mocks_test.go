package cli

import (
	"context"
	"sync"

	"github.com/alnah/go-captions/internal/config"
	"github.com/alnah/go-captions/internal/cue"
	"github.com/alnah/go-captions/internal/extract"
)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock ExtractorFactory + Extractor
// ---------------------------------------------------------------------------

type mockExtractorFactory struct {
	NewExtractorFunc func(cfg ExtractorConfig) Extractor

	mu                sync.Mutex
	newExtractorCalls []ExtractorConfig
	mockExtractor     *mockExtractor
}

func (m *mockExtractorFactory) NewExtractor(cfg ExtractorConfig) Extractor {
	m.mu.Lock()
	m.newExtractorCalls = append(m.newExtractorCalls, cfg)
	m.mu.Unlock()

	if m.NewExtractorFunc != nil {
		return m.NewExtractorFunc(cfg)
	}
	if m.mockExtractor != nil {
		return m.mockExtractor
	}
	return &mockExtractor{}
}

func (m *mockExtractorFactory) NewExtractorCalls() []ExtractorConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExtractorConfig(nil), m.newExtractorCalls...)
}

type mockExtractor struct {
	ExtractFunc    func(ctx context.Context, videoURL, language string) extract.Result
	ExtractAllFunc func(ctx context.Context, videoURLs []string, language string, maxParallel int) ([]extract.Result, error)

	mu           sync.Mutex
	extractCalls []extractCall
}

type extractCall struct {
	VideoURL string
	Language string
}

func (m *mockExtractor) Extract(ctx context.Context, videoURL, language string) extract.Result {
	m.mu.Lock()
	m.extractCalls = append(m.extractCalls, extractCall{VideoURL: videoURL, Language: language})
	m.mu.Unlock()

	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, videoURL, language)
	}
	return successResult()
}

func (m *mockExtractor) ExtractAll(ctx context.Context, videoURLs []string, language string, maxParallel int) ([]extract.Result, error) {
	if m.ExtractAllFunc != nil {
		return m.ExtractAllFunc(ctx, videoURLs, language, maxParallel)
	}
	results := make([]extract.Result, len(videoURLs))
	for i, u := range videoURLs {
		results[i] = m.Extract(ctx, u, language)
	}
	return results, nil
}

func (m *mockExtractor) ExtractCalls() []extractCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]extractCall(nil), m.extractCalls...)
}

// successResult is the default mock extraction outcome.
func successResult() extract.Result {
	segments := []cue.Cue{
		{Start: 0, End: 4, Text: "Hello world this is"},
		{Start: 4, End: 8, Text: "a caption transcript"},
	}
	return extract.Result{
		Success:  true,
		Segments: segments,
		Method:   extract.MethodYtDlp,
		Metadata: extract.Metadata{
			TotalDuration: 8,
			SegmentCount:  len(segments),
			Language:      "en",
		},
	}
}

// ---------------------------------------------------------------------------
// Mock ResegmenterFactory + Resegmenter
// ---------------------------------------------------------------------------

type mockResegmenterFactory struct {
	NewResegmenterFunc func(apiKey string) Resegmenter

	mu                  sync.Mutex
	newResegmenterCalls []string // API keys passed
	mockResegmenter     *mockResegmenter
}

func (m *mockResegmenterFactory) NewResegmenter(apiKey string) Resegmenter {
	m.mu.Lock()
	m.newResegmenterCalls = append(m.newResegmenterCalls, apiKey)
	m.mu.Unlock()

	if m.NewResegmenterFunc != nil {
		return m.NewResegmenterFunc(apiKey)
	}
	if m.mockResegmenter != nil {
		return m.mockResegmenter
	}
	return &mockResegmenter{}
}

func (m *mockResegmenterFactory) NewResegmenterCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.newResegmenterCalls...)
}

type mockResegmenter struct {
	ResegmentFunc func(ctx context.Context, cues []cue.Cue) []cue.Cue

	mu             sync.Mutex
	resegmentCalls int
	lastInput      []cue.Cue
}

func (m *mockResegmenter) Resegment(ctx context.Context, cues []cue.Cue) []cue.Cue {
	m.mu.Lock()
	m.resegmentCalls++
	m.lastInput = append([]cue.Cue(nil), cues...)
	m.mu.Unlock()

	if m.ResegmentFunc != nil {
		return m.ResegmentFunc(ctx, cues)
	}
	return cues
}

func (m *mockResegmenter) ResegmentCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resegmentCalls
}

// ---------------------------------------------------------------------------
// Mock TrackListerFactory + TrackLister
// ---------------------------------------------------------------------------

type mockTrackListerFactory struct {
	NewTrackListerFunc func(apiKey string) TrackLister

	mu                  sync.Mutex
	newTrackListerCalls []string // API keys passed
	mockTrackLister     *mockTrackLister
}

func (m *mockTrackListerFactory) NewTrackLister(apiKey string) TrackLister {
	m.mu.Lock()
	m.newTrackListerCalls = append(m.newTrackListerCalls, apiKey)
	m.mu.Unlock()

	if m.NewTrackListerFunc != nil {
		return m.NewTrackListerFunc(apiKey)
	}
	if m.mockTrackLister != nil {
		return m.mockTrackLister
	}
	return &mockTrackLister{}
}

func (m *mockTrackListerFactory) NewTrackListerCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.newTrackListerCalls...)
}

type mockTrackLister struct {
	ListTracksFunc func(ctx context.Context, videoID string) ([]cue.CaptionTrack, error)

	mu              sync.Mutex
	listTracksCalls []string
}

func (m *mockTrackLister) ListTracks(ctx context.Context, videoID string) ([]cue.CaptionTrack, error) {
	m.mu.Lock()
	m.listTracksCalls = append(m.listTracksCalls, videoID)
	m.mu.Unlock()

	if m.ListTracksFunc != nil {
		return m.ListTracksFunc(ctx, videoID)
	}
	return []cue.CaptionTrack{
		{LangCode: "en", LangName: "English (auto-generated)", Kind: cue.KindASR},
		{LangCode: "ko", LangName: "Korean", Kind: cue.KindManual},
	}, nil
}

func (m *mockTrackLister) ListTracksCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.listTracksCalls...)
}

// ---------------------------------------------------------------------------
// Compile-time interface verification
// ---------------------------------------------------------------------------

var (
	_ ConfigLoader       = (*mockConfigLoader)(nil)
	_ ExtractorFactory   = (*mockExtractorFactory)(nil)
	_ Extractor          = (*mockExtractor)(nil)
	_ ResegmenterFactory = (*mockResegmenterFactory)(nil)
	_ Resegmenter        = (*mockResegmenter)(nil)
	_ TrackListerFactory = (*mockTrackListerFactory)(nil)
	_ TrackLister        = (*mockTrackLister)(nil)
)

package cli

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	configLoader *mockConfigLoader
	extractor    *mockExtractorFactory
	resegmenter  *mockResegmenterFactory
	trackLister  *mockTrackListerFactory
}

func newTestMocks() *testMocks {
	return &testMocks{
		configLoader: &mockConfigLoader{},
		extractor:    &mockExtractorFactory{},
		resegmenter:  &mockResegmenterFactory{},
		trackLister:  &mockTrackListerFactory{},
	}
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testEnvOptions configures a test environment.
type testEnvOptions struct {
	getenv func(string) string
	mocks  *testMocks
}

// testEnvOption configures testEnv.
type testEnvOption func(*testEnvOptions)

// withTestGetenv overrides the environment lookup.
func withTestGetenv(fn func(string) string) testEnvOption {
	return func(o *testEnvOptions) { o.getenv = fn }
}

// withTestMocks injects pre-configured mocks.
func withTestMocks(m *testMocks) testEnvOption {
	return func(o *testEnvOptions) { o.mocks = m }
}

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env, its stdout buffer, and the mocks for assertions.
func testEnv(opts ...testEnvOption) (*Env, *syncBuffer, *testMocks) {
	options := &testEnvOptions{
		getenv: defaultTestGetenv,
		mocks:  newTestMocks(),
	}
	for _, opt := range opts {
		opt(options)
	}

	stdout := &syncBuffer{}
	env := &Env{
		Stdout:             stdout,
		Stderr:             &syncBuffer{},
		Getenv:             options.getenv,
		Now:                func() time.Time { return time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC) },
		ConfigLoader:       options.mocks.configLoader,
		ExtractorFactory:   options.mocks.extractor,
		ResegmenterFactory: options.mocks.resegmenter,
		TrackListerFactory: options.mocks.trackLister,
	}

	return env, stdout, options.mocks
}

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// defaultTestGetenv provides API keys for every service.
func defaultTestGetenv(key string) string {
	switch key {
	case "OPENAI_API_KEY":
		return "test-openai-key"
	case "DUMPLING_API_KEY":
		return "test-dumpling-key"
	case "YOUTUBE_API_KEY":
		return "test-youtube-key"
	default:
		return ""
	}
}

// execute runs a command with args, discarding cobra's own output streams.
func execute(cmd *cobra.Command, args ...string) error {
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	return cmd.ExecuteContext(context.Background())
}

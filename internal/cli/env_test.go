package cli

import (
	"io"
	"testing"
	"time"
)

func TestDefaultEnvComplete(t *testing.T) {
	t.Parallel()

	env := DefaultEnv()
	if env.Stdout == nil || env.Stderr == nil || env.Getenv == nil || env.Now == nil {
		t.Error("DefaultEnv left I/O fields nil")
	}
	if env.ConfigLoader == nil || env.ExtractorFactory == nil ||
		env.ResegmenterFactory == nil || env.TrackListerFactory == nil {
		t.Error("DefaultEnv left factory fields nil")
	}
}

func TestNewEnvAppliesOptions(t *testing.T) {
	t.Parallel()

	stderr := &syncBuffer{}
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	loader := &mockConfigLoader{}

	env := NewEnv(
		WithStdout(io.Discard),
		WithStderr(stderr),
		WithGetenv(staticEnv(map[string]string{"X": "y"})),
		WithNow(func() time.Time { return now }),
		WithConfigLoader(loader),
	)

	if env.Stderr != stderr {
		t.Error("WithStderr not applied")
	}
	if env.Getenv("X") != "y" {
		t.Error("WithGetenv not applied")
	}
	if !env.Now().Equal(now) {
		t.Error("WithNow not applied")
	}
	if env.ConfigLoader != loader {
		t.Error("WithConfigLoader not applied")
	}
}

func TestDefaultExtractorFactoryBuilds(t *testing.T) {
	t.Parallel()

	f := &defaultExtractorFactory{}
	ex := f.NewExtractor(ExtractorConfig{
		OpenAIKey:   "sk-test",
		DumplingKey: "dk-test",
		YtDlpPath:   "/opt/yt-dlp",
		Timeout:     30 * time.Second,
	})
	if ex == nil {
		t.Fatal("NewExtractor returned nil")
	}
}

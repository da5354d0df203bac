package extract

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-captions/internal/cue"
	"github.com/alnah/go-captions/internal/subtitle"
)

// Environment variable for a custom yt-dlp path.
const envYtDlpPath = "CAPTIONS_YTDLP_PATH"

// ytDlpCandidates are probed when yt-dlp is not on PATH.
var ytDlpCandidates = []string{
	"/usr/local/bin/yt-dlp",
	"/opt/homebrew/bin/yt-dlp",
}

// commandRunner abstracts subprocess execution for testing.
type commandRunner interface {
	// RunOutput runs a command and returns its combined output.
	RunOutput(ctx context.Context, name string, args ...string) (string, error)
}

// execRunner implements commandRunner using os/exec.
type execRunner struct{}

func (execRunner) RunOutput(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- name is a probed binary path
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// YtDlpResolver locates the yt-dlp binary.
type YtDlpResolver struct {
	runner   commandRunner
	getenv   func(string) string
	lookPath func(string) (string, error)
}

// ResolverOption configures a YtDlpResolver.
type ResolverOption func(*YtDlpResolver)

// WithResolverRunner sets the command runner used for probing.
func WithResolverRunner(r commandRunner) ResolverOption {
	return func(res *YtDlpResolver) { res.runner = r }
}

// WithResolverGetenv sets the environment lookup.
func WithResolverGetenv(fn func(string) string) ResolverOption {
	return func(res *YtDlpResolver) { res.getenv = fn }
}

// WithResolverLookPath sets the PATH lookup.
func WithResolverLookPath(fn func(string) (string, error)) ResolverOption {
	return func(res *YtDlpResolver) { res.lookPath = fn }
}

// NewYtDlpResolver creates a resolver with production defaults.
func NewYtDlpResolver(opts ...ResolverOption) *YtDlpResolver {
	r := &YtDlpResolver{
		runner:   execRunner{},
		getenv:   os.Getenv,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve finds yt-dlp using the following precedence:
//  1. CAPTIONS_YTDLP_PATH environment variable (error if set but invalid)
//  2. System PATH
//  3. Common install locations, probed with --version
func (r *YtDlpResolver) Resolve(ctx context.Context) (string, error) {
	if envPath := r.getenv(envYtDlpPath); envPath != "" {
		if _, err := r.runner.RunOutput(ctx, envPath, "--version"); err != nil {
			return "", fmt.Errorf("%w: %s is set to %q but the binary does not run",
				ErrYtDlpNotFound, envYtDlpPath, envPath)
		}
		return envPath, nil
	}

	if path, err := r.lookPath("yt-dlp"); err == nil {
		return path, nil
	}

	for _, candidate := range ytDlpCandidates {
		if _, err := r.runner.RunOutput(ctx, candidate, "--version"); err == nil {
			return candidate, nil
		}
	}

	return "", ErrYtDlpNotFound
}

// YtDlpFetcher downloads subtitle tracks with yt-dlp and parses them.
type YtDlpFetcher struct {
	runner   commandRunner
	resolver *YtDlpResolver
	tempDir  string
}

// YtDlpOption configures a YtDlpFetcher.
type YtDlpOption func(*YtDlpFetcher)

// WithYtDlpRunner sets the command runner.
func WithYtDlpRunner(r commandRunner) YtDlpOption {
	return func(f *YtDlpFetcher) { f.runner = r }
}

// WithYtDlpResolver sets the binary resolver.
func WithYtDlpResolver(res *YtDlpResolver) YtDlpOption {
	return func(f *YtDlpFetcher) { f.resolver = res }
}

// WithYtDlpTempDir sets the directory for downloaded subtitle files.
func WithYtDlpTempDir(dir string) YtDlpOption {
	return func(f *YtDlpFetcher) { f.tempDir = dir }
}

// NewYtDlpFetcher creates a fetcher with production defaults.
func NewYtDlpFetcher(opts ...YtDlpOption) *YtDlpFetcher {
	f := &YtDlpFetcher{
		runner:   execRunner{},
		resolver: NewYtDlpResolver(),
		tempDir:  os.TempDir(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Method implements Fetcher.
func (f *YtDlpFetcher) Method() Method { return MethodYtDlp }

// Fetch downloads manual and auto-generated subtitles for the requested
// language (including regional variants) and parses the first file
// yt-dlp produced. Downloaded files are removed on success and error.
func (f *YtDlpFetcher) Fetch(ctx context.Context, videoURL, videoID, language string) ([]cue.Cue, error) {
	binPath, err := f.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	base := filepath.Join(f.tempDir, fmt.Sprintf("captions_%s_%d", videoID, time.Now().UnixNano()))
	defer f.removeDownloads(base)

	args := []string{
		"--write-sub",
		"--write-auto-sub",
		"--sub-lang", language + "," + language + ".*",
		"--skip-download",
		"--output", base,
		videoURL,
	}

	out, err := f.runner.RunOutput(ctx, binPath, args...)
	if err != nil {
		if rerr := DetectRestriction(out); rerr != nil {
			return nil, rerr
		}
		return nil, fmt.Errorf("yt-dlp failed: %v: %s", err, firstLine(out))
	}

	subtitlePath, err := f.findSubtitleFile(base)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(subtitlePath) // #nosec G304 -- path is our own temp file
	if err != nil {
		return nil, fmt.Errorf("read subtitle file: %w", err)
	}

	return subtitle.ParseAuto(string(raw))
}

// findSubtitleFile locates the subtitle file yt-dlp wrote for base.
// yt-dlp appends the language and format, e.g. base.en.vtt.
func (f *YtDlpFetcher) findSubtitleFile(base string) (string, error) {
	for _, ext := range []string{".vtt", ".srt"} {
		matches, err := filepath.Glob(base + "*" + ext)
		if err != nil {
			return "", fmt.Errorf("glob subtitle files: %w", err)
		}
		if len(matches) > 0 {
			return matches[0], nil
		}
	}
	return "", fmt.Errorf("%w: no subtitle files generated", ErrNoCaptions)
}

// removeDownloads deletes everything yt-dlp wrote under base.
func (f *YtDlpFetcher) removeDownloads(base string) {
	matches, err := filepath.Glob(base + "*")
	if err != nil {
		return
	}
	for _, m := range matches {
		_ = os.Remove(m)
	}
}

// firstLine returns the first non-empty line of command output, for
// error messages that would otherwise dump pages of progress text.
func firstLine(out string) string {
	for _, line := range strings.Split(out, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// Compile-time interface compliance checks.
var (
	_ Fetcher       = (*YtDlpFetcher)(nil)
	_ commandRunner = execRunner{}
)

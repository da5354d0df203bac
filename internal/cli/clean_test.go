package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const rollingVTT = `WEBVTT

00:00:00.000 --> 00:00:02.000
hello everyone and

00:00:01.500 --> 00:00:04.000
hello everyone and welcome back

00:00:04.000 --> 00:00:06.000
<b>to the</b> channel
`

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCleanVTTToSRT(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "input.vtt", rollingVTT)
	env, stdout, _ := testEnv()
	if err := execute(CleanCmd(env), path); err != nil {
		t.Fatalf("execute error: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "-->") {
		t.Fatalf("expected SRT output, got %q", out)
	}
	// The rolling repeat collapses and markup is stripped.
	if strings.Count(out, "hello everyone") != 1 {
		t.Errorf("rolling caption not deduplicated: %q", out)
	}
	if strings.Contains(out, "<b>") {
		t.Errorf("markup not stripped: %q", out)
	}
}

func TestCleanKeepTags(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "input.vtt", rollingVTT)
	env, stdout, _ := testEnv()
	if err := execute(CleanCmd(env), "--keep-tags", "--no-dedupe", "--no-merge", path); err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(stdout.String(), "<b>to the</b>") {
		t.Errorf("tags should be kept: %q", stdout.String())
	}
}

func TestCleanTextFormat(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "input.vtt", rollingVTT)
	env, stdout, _ := testEnv()
	if err := execute(CleanCmd(env), "-f", "text", path); err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if strings.Contains(stdout.String(), "-->") {
		t.Errorf("text format should have no timing lines: %q", stdout.String())
	}
}

func TestCleanExplicitInputFormat(t *testing.T) {
	t.Parallel()

	srt := "1\n00:00:00,000 --> 00:00:02,000\nfirst cue here\n"
	path := writeTestFile(t, "input.subs", srt)

	env, stdout, _ := testEnv()
	if err := execute(CleanCmd(env), "--input-format", "srt", "-f", "text", path); err != nil {
		t.Fatalf("execute error: %v", err)
	}
	if !strings.Contains(stdout.String(), "first cue here") {
		t.Errorf("cue text missing: %q", stdout.String())
	}
}

func TestCleanUnknownInputFormat(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "input.vtt", rollingVTT)
	env, _, _ := testEnv()
	err := execute(CleanCmd(env), "--input-format", "ass", path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestCleanMissingFile(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	err := execute(CleanCmd(env), filepath.Join(t.TempDir(), "nope.vtt"))
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("err = %v, want ErrFileNotFound", err)
	}
}

func TestCleanWritesOutputFile(t *testing.T) {
	t.Parallel()

	path := writeTestFile(t, "input.vtt", rollingVTT)
	out := filepath.Join(t.TempDir(), "clean.vtt")

	env, _, _ := testEnv()
	if err := execute(CleanCmd(env), "-f", "vtt", "-o", out, path); err != nil {
		t.Fatalf("execute error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "WEBVTT\n") {
		t.Errorf("expected WEBVTT header: %q", string(data))
	}
}

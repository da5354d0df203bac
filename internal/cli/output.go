package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-captions/internal/cue"
	"github.com/alnah/go-captions/internal/format"
)

// Output formats accepted by the --format flag.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatSRT  = "srt"
	FormatVTT  = "vtt"
)

// renderCues converts cues to the requested textual format. JSON is
// handled by callers because the payload differs per command.
func renderCues(cues []cue.Cue, outputFormat string, timestamps bool) (string, error) {
	switch strings.ToLower(outputFormat) {
	case FormatText:
		return format.PlainText(cues, format.PlainTextOptions{
			IncludeTimestamps: timestamps,
			Separator:         "\n",
		}) + "\n", nil
	case FormatSRT:
		return format.SRT(cues), nil
	case FormatVTT:
		return format.VTT(cues), nil
	default:
		return "", fmt.Errorf("%w: %q (want text, json, srt, or vtt)",
			ErrUnsupportedFormat, outputFormat)
	}
}

// extFor returns the file extension for an output format.
func extFor(outputFormat string) string {
	switch strings.ToLower(outputFormat) {
	case FormatJSON:
		return ".json"
	case FormatSRT:
		return ".srt"
	case FormatVTT:
		return ".vtt"
	default:
		return ".txt"
	}
}

// writeFileSafe writes content to path, refusing to overwrite.
// O_EXCL makes the existence check and the create a single atomic step.
func writeFileSafe(path string, content string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644) // #nosec G302 G304 -- user-chosen output path
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
		return fmt.Errorf("cannot create output file: %w", err)
	}

	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("cannot write output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot close output file: %w", err)
	}
	return nil
}

// emit writes content either to the given file path or to stdout.
func (e *Env) emit(outputPath, content string) error {
	if outputPath == "" {
		_, err := fmt.Fprint(e.Stdout, content)
		return err
	}
	if err := writeFileSafe(outputPath, content); err != nil {
		return err
	}
	fmt.Fprintf(e.Stderr, "wrote %s\n", outputPath)
	return nil
}

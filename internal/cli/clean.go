package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alnah/go-captions/internal/cue"
	"github.com/alnah/go-captions/internal/pipeline"
	"github.com/alnah/go-captions/internal/subtitle"
)

// cleanFlags holds flag values for the clean command.
type cleanFlags struct {
	inputFormat string
	format      string
	output      string
	timestamps  bool
	keepTags    bool
	noDedupe    bool
	noMerge     bool
	maxLength   float64
}

// CleanCmd creates the clean command, which normalizes a local subtitle
// file: strips markup, collapses rolling-caption duplicates, merges
// adjacent cues, and splits overlong ones.
func CleanCmd(env *Env) *cobra.Command {
	flags := &cleanFlags{}

	cmd := &cobra.Command{
		Use:   "clean <file>",
		Short: "Clean and normalize a subtitle file",
		Long: `Clean and normalize a subtitle file.

Reads a WebVTT, SRT, or YouTube timedtext XML file, collapses the
rolling-caption duplication typical of auto-generated captions, strips
markup, merges adjacent cues, and writes the result in the requested
format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(env, flags, args[0])
		},
	}

	cmd.Flags().StringVar(&flags.inputFormat, "input-format", "",
		"input format: vtt, srt, or timedtext (default autodetect)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", FormatSRT,
		"output format: text, srt, or vtt")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"output file path (default stdout)")
	cmd.Flags().BoolVar(&flags.timestamps, "timestamps", false,
		"prefix each line with its start time (text format only)")
	cmd.Flags().BoolVar(&flags.keepTags, "keep-tags", false,
		"keep markup tags in cue text")
	cmd.Flags().BoolVar(&flags.noDedupe, "no-dedupe", false,
		"skip the rolling-caption deduplication pass")
	cmd.Flags().BoolVar(&flags.noMerge, "no-merge", false,
		"do not merge adjacent cues")
	cmd.Flags().Float64Var(&flags.maxLength, "max-segment-length", pipeline.DefaultMaxSegmentLength,
		"split cues longer than this many seconds")

	return cmd
}

func runClean(env *Env, flags *cleanFlags, path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided input path
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("cannot read input file: %w", err)
	}

	cues, err := parseInput(string(data), flags.inputFormat)
	if err != nil {
		return err
	}

	if !flags.noDedupe {
		cues = pipeline.DedupeCues(cues)
	}

	opts := pipeline.DefaultOptions()
	opts.RemoveTags = !flags.keepTags
	opts.MergeSegments = !flags.noMerge
	opts.MaxSegmentLength = flags.maxLength
	cues = pipeline.Clean(cues, opts)

	content, err := renderCues(cues, flags.format, flags.timestamps)
	if err != nil {
		return err
	}
	return env.emit(flags.output, content)
}

// parseInput parses raw subtitle text, honoring an explicit format tag.
func parseInput(raw, inputFormat string) ([]cue.Cue, error) {
	if inputFormat == "" {
		return subtitle.ParseAuto(raw)
	}
	p := subtitle.ForFormat(inputFormat)
	if p == nil {
		return nil, fmt.Errorf("%w: %q (want vtt, srt, or timedtext)",
			ErrUnsupportedFormat, strings.ToLower(inputFormat))
	}
	return p.Parse(raw)
}

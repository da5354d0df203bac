package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnah/go-captions/internal/config"
	"github.com/alnah/go-captions/internal/cue"
	"github.com/alnah/go-captions/internal/extract"
	"github.com/alnah/go-captions/internal/lang"
)

// extractFlags holds flag values for the extract command.
type extractFlags struct {
	language   string
	format     string
	output     string
	method     string
	timeout    time.Duration
	timestamps bool
	resegment  bool
	words      bool
	parallel   int
	verbose    bool
}

// ExtractCmd creates the extract command, which pulls captions for one or
// more YouTube videos through the fallback chain.
func ExtractCmd(env *Env) *cobra.Command {
	flags := &extractFlags{}

	cmd := &cobra.Command{
		Use:   "extract <url> [url...]",
		Short: "Extract captions from YouTube videos",
		Long: `Extract captions from YouTube videos.

Sources are tried in order until one yields captions: yt-dlp subtitle
download, the YouTube timedtext endpoint, the DumplingAI transcript API
(requires DUMPLING_API_KEY), and Whisper speech-to-text (requires
OPENAI_API_KEY). Cues are cleaned, deduplicated, and merged before output.

Multiple URLs are processed concurrently and require --format json.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd.Context(), env, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.language, "language", "l", "",
		"caption language code (default from config, else en)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", FormatText,
		"output format: text, json, srt, or vtt")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "",
		"output file path (default stdout)")
	cmd.Flags().StringVar(&flags.method, "method", "",
		"try this extraction method first: yt-dlp, timedtext, dumpling, or whisper")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0,
		"per-method timeout (default 60s)")
	cmd.Flags().BoolVar(&flags.timestamps, "timestamps", false,
		"prefix each line with its start time (text format only)")
	cmd.Flags().BoolVar(&flags.resegment, "resegment", false,
		"rewrite cues into sentences with OpenAI (requires OPENAI_API_KEY)")
	cmd.Flags().BoolVar(&flags.words, "words", false,
		"include estimated word-level timing (json format only)")
	cmd.Flags().IntVar(&flags.parallel, "parallel", 2,
		"max concurrent extractions for multiple URLs")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false,
		"log each extraction attempt to stderr")

	return cmd
}

func runExtract(ctx context.Context, env *Env, flags *extractFlags, urls []string) error {
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		return err
	}

	language := firstNonEmpty(flags.language, cfg.Language, "en")
	if err := lang.Validate(language); err != nil {
		return err
	}

	if !validFormat(flags.format) {
		return fmt.Errorf("%w: %q (want text, json, srt, or vtt)",
			ErrUnsupportedFormat, flags.format)
	}
	if flags.words && !strings.EqualFold(flags.format, FormatJSON) {
		return fmt.Errorf("%w: --words needs --format json", ErrUnsupportedFormat)
	}

	preferred, err := parseMethod(flags.method)
	if err != nil {
		return err
	}

	openAIKey := env.Getenv("OPENAI_API_KEY")
	if flags.resegment && openAIKey == "" {
		return fmt.Errorf("%w: required for --resegment", ErrOpenAIKeyMissing)
	}

	extractorCfg := ExtractorConfig{
		OpenAIKey:   openAIKey,
		DumplingKey: env.Getenv("DUMPLING_API_KEY"),
		YtDlpPath:   cfg.YtDlpPath,
		Timeout:     flags.timeout,
		Preferred:   preferred,
	}
	if flags.verbose {
		extractorCfg.Verbose = env.Stderr
	}
	extractor := env.ExtractorFactory.NewExtractor(extractorCfg)

	if len(urls) > 1 {
		return runExtractBatch(ctx, env, extractor, flags, urls, language, openAIKey)
	}
	return runExtractOne(ctx, env, extractor, flags, cfg, urls[0], language, openAIKey)
}

func runExtractOne(
	ctx context.Context,
	env *Env,
	extractor Extractor,
	flags *extractFlags,
	cfg config.Config,
	videoURL, language, openAIKey string,
) error {
	res := extractor.Extract(ctx, videoURL, language)
	if !res.Success {
		return res.Err
	}

	if flags.resegment {
		res.Segments = env.ResegmenterFactory.NewResegmenter(openAIKey).
			Resegment(ctx, res.Segments)
		res.Metadata.SegmentCount = len(res.Segments)
	}
	if flags.words {
		res.Segments = cue.AssignWordTimings(res.Segments)
	}

	content, err := renderResult(res, flags.format, flags.timestamps)
	if err != nil {
		return err
	}

	return env.emit(outputPath(flags, cfg, videoURL), content)
}

func runExtractBatch(
	ctx context.Context,
	env *Env,
	extractor Extractor,
	flags *extractFlags,
	urls []string,
	language, openAIKey string,
) error {
	if !strings.EqualFold(flags.format, FormatJSON) {
		return fmt.Errorf("%w: multiple URLs require --format json", ErrUnsupportedFormat)
	}
	if flags.output != "" {
		return fmt.Errorf("cannot combine --output with multiple URLs")
	}

	results, err := extractor.ExtractAll(ctx, urls, language, flags.parallel)
	if err != nil {
		return err
	}

	failures := 0
	for i := range results {
		if !results[i].Success {
			failures++
			fmt.Fprintf(env.Stderr, "%s: %v\n", urls[i], results[i].Err)
			continue
		}
		if flags.resegment {
			results[i].Segments = env.ResegmenterFactory.NewResegmenter(openAIKey).
				Resegment(ctx, results[i].Segments)
			results[i].Metadata.SegmentCount = len(results[i].Segments)
		}
		if flags.words {
			results[i].Segments = cue.AssignWordTimings(results[i].Segments)
		}
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot encode results: %w", err)
	}
	if err := env.emit("", string(data)+"\n"); err != nil {
		return err
	}

	if failures == len(results) {
		return fmt.Errorf("all %d extractions failed: %w", failures, results[0].Err)
	}
	return nil
}

// renderResult converts an extraction result to the requested format.
func renderResult(res extract.Result, outputFormat string, timestamps bool) (string, error) {
	if strings.EqualFold(outputFormat, FormatJSON) {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return "", fmt.Errorf("cannot encode result: %w", err)
		}
		return string(data) + "\n", nil
	}
	return renderCues(res.Segments, outputFormat, timestamps)
}

// outputPath decides where the result goes. An explicit --output or a
// configured output-dir produces a file path; otherwise stdout.
func outputPath(flags *extractFlags, cfg config.Config, videoURL string) string {
	if flags.output == "" && cfg.OutputDir == "" {
		return ""
	}
	defaultName := "captions" + extFor(flags.format)
	if id, err := extract.ParseVideoID(videoURL); err == nil {
		defaultName = "captions_" + id + extFor(flags.format)
	}
	return config.ResolveOutputPath(flags.output, config.ExpandPath(cfg.OutputDir), defaultName)
}

// parseMethod validates a --method flag value.
func parseMethod(s string) (extract.Method, error) {
	if s == "" {
		return "", nil
	}
	switch m := extract.Method(strings.ToLower(s)); m {
	case extract.MethodYtDlp, extract.MethodTimedText, extract.MethodDumpling, extract.MethodWhisper:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q (want yt-dlp, timedtext, dumpling, or whisper)",
			ErrUnknownMethod, s)
	}
}

func validFormat(f string) bool {
	switch strings.ToLower(f) {
	case FormatText, FormatJSON, FormatSRT, FormatVTT:
		return true
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

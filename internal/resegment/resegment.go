// Package resegment rewrites choppy caption cues into sentence-shaped
// segments using a chat completion model. It is strictly best-effort:
// any API failure or unusable reply returns the input cues unchanged.
package resegment

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-captions/internal/apierr"
	"github.com/alnah/go-captions/internal/cue"
)

const (
	defaultModel = openai.GPT4oMini

	systemPrompt = "You are a text formatting expert. Fix spacing and " +
		"punctuation in transcript text. Return only the corrected text."

	userPromptFormat = "Fix the spacing and punctuation in this transcript " +
		"text. Make it readable and properly formatted:\n\n%q\n\n" +
		"Return only the corrected text with proper spacing and punctuation."
)

// sentenceSplit breaks the model reply on sentence terminators.
var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// chatCompleter is the slice of the OpenAI client this package needs.
// *openai.Client implements this implicitly.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

var _ chatCompleter = (*openai.Client)(nil)

// Resegmenter rewrites cue text through a chat completion model and
// redistributes timing over the rewritten sentences.
type Resegmenter struct {
	client chatCompleter
	model  string
	retry  apierr.RetryConfig
	stderr io.Writer
}

// Option configures a Resegmenter.
type Option func(*Resegmenter)

// WithModel sets the chat completion model.
func WithModel(model string) Option {
	return func(r *Resegmenter) { r.model = model }
}

// WithRetry sets the retry configuration.
func WithRetry(cfg apierr.RetryConfig) Option {
	return func(r *Resegmenter) { r.retry = cfg }
}

// WithStderr sets the writer for fail-open warnings.
func WithStderr(w io.Writer) Option {
	return func(r *Resegmenter) { r.stderr = w }
}

// WithCompleter sets the chat completion client (for testing).
func WithCompleter(c chatCompleter) Option {
	return func(r *Resegmenter) { r.client = c }
}

// New creates a Resegmenter. The client is injected to enable testing
// with mocks.
func New(client *openai.Client, opts ...Option) *Resegmenter {
	r := &Resegmenter{
		client: client,
		model:  defaultModel,
		retry:  apierr.DefaultRetryConfig(),
		stderr: io.Discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resegment concatenates the cue text, asks the model to repunctuate it,
// and splits the reply into sentence cues. The original total time span
// is redistributed over the sentences weighted by character count, so a
// long sentence covers more time than a short one.
//
// On any failure the input is returned unchanged.
func (r *Resegmenter) Resegment(ctx context.Context, cues []cue.Cue) []cue.Cue {
	if len(cues) == 0 {
		return cues
	}

	parts := make([]string, 0, len(cues))
	for _, c := range cues {
		parts = append(parts, c.Text)
	}
	joined := strings.Join(parts, " ")

	reply, err := r.rewrite(ctx, joined)
	if err != nil {
		fmt.Fprintf(r.stderr, "resegmentation skipped: %v\n", err)
		return cues
	}

	sentences := splitSentences(reply)
	if len(sentences) == 0 {
		fmt.Fprintln(r.stderr, "resegmentation skipped: empty reply")
		return cues
	}

	return distribute(sentences, cues[0].Start, cues[len(cues)-1].End)
}

// rewrite sends the transcript through the chat completion API with
// retry on transient failures.
func (r *Resegmenter) rewrite(ctx context.Context, text string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(userPromptFormat, text)},
		},
	}

	return apierr.RetryWithBackoff(ctx, r.retry, func() (string, error) {
		resp, err := r.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", apierr.ClassifyOpenAI(err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no choices in response")
		}
		return resp.Choices[0].Message.Content, nil
	}, apierr.Retryable)
}

// splitSentences breaks a reply on sentence terminators and drops blanks.
func splitSentences(reply string) []string {
	var sentences []string
	for _, s := range sentenceSplit.Split(reply, -1) {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}

// distribute spreads the [start, end] span over sentences proportionally
// to their character count. The last sentence always ends exactly at end.
func distribute(sentences []string, start, end float64) []cue.Cue {
	total := 0
	for _, s := range sentences {
		total += len(s)
	}

	span := end - start
	cues := make([]cue.Cue, 0, len(sentences))
	cursor := start

	for i, s := range sentences {
		segEnd := end
		if i < len(sentences)-1 {
			segEnd = cursor + span*float64(len(s))/float64(total)
		}
		cues = append(cues, cue.Cue{
			Start: cue.RoundMillis(cursor),
			End:   cue.RoundMillis(segEnd),
			Text:  s,
		})
		cursor = segEnd
	}
	return cues
}

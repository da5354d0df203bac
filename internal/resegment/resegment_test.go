package resegment_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/go-captions/internal/apierr"
	"github.com/alnah/go-captions/internal/cue"
	"github.com/alnah/go-captions/internal/resegment"
)

// fakeCompleter returns a canned reply or error, counting calls.
type fakeCompleter struct {
	reply    string
	errs     []error
	calls    int
	requests []openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.requests = append(f.requests, req)
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return openai.ChatCompletionResponse{}, f.errs[i]
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.reply}},
		},
	}, nil
}

func fastRetry() apierr.RetryConfig {
	return apierr.RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
}

func inputCues() []cue.Cue {
	return []cue.Cue{
		{Start: 0, End: 5, Text: "hello world this"},
		{Start: 5, End: 10, Text: "is a test ok"},
	}
}

func TestResegmentSplitsSentences(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{reply: "Hello world. This is a test, OK!"}
	r := resegment.New(nil,
		resegment.WithCompleter(completer),
		resegment.WithRetry(fastRetry()),
	)

	got := r.Resegment(context.Background(), inputCues())
	if len(got) != 2 {
		t.Fatalf("got %d cues, want 2", len(got))
	}
	if got[0].Text != "Hello world" {
		t.Errorf("first sentence = %q", got[0].Text)
	}
	if got[1].Text != "This is a test, OK" {
		t.Errorf("second sentence = %q", got[1].Text)
	}

	// Timing spans the original range and splits at the character-count
	// boundary: 11 chars vs 18 chars over 10 seconds.
	if got[0].Start != 0 {
		t.Errorf("first start = %v, want 0", got[0].Start)
	}
	if got[1].End != 10 {
		t.Errorf("last end = %v, want 10", got[1].End)
	}
	if got[0].End != got[1].Start {
		t.Errorf("cues not contiguous: %v != %v", got[0].End, got[1].Start)
	}
	wantBoundary := cue.RoundMillis(10 * 11.0 / 29.0)
	if got[0].End != wantBoundary {
		t.Errorf("boundary = %v, want %v", got[0].End, wantBoundary)
	}

	// Longer sentence covers more time.
	if got[1].Duration() <= got[0].Duration() {
		t.Errorf("longer sentence should cover more time: %v vs %v",
			got[1].Duration(), got[0].Duration())
	}
}

func TestResegmentFailOpenOnError(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{errs: []error{
		errors.New("boom"), errors.New("boom"), errors.New("boom"),
	}}
	r := resegment.New(nil,
		resegment.WithCompleter(completer),
		resegment.WithRetry(fastRetry()),
	)

	in := inputCues()
	got := r.Resegment(context.Background(), in)
	if len(got) != len(in) || got[0].Text != in[0].Text {
		t.Errorf("expected input returned unchanged, got %+v", got)
	}
}

func TestResegmentFailOpenOnEmptyReply(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{reply: "   "}
	r := resegment.New(nil,
		resegment.WithCompleter(completer),
		resegment.WithRetry(fastRetry()),
	)

	in := inputCues()
	got := r.Resegment(context.Background(), in)
	if len(got) != len(in) || got[1].Text != in[1].Text {
		t.Errorf("expected input returned unchanged, got %+v", got)
	}
}

func TestResegmentRetriesRateLimit(t *testing.T) {
	t.Parallel()

	rateLimited := &openai.APIError{HTTPStatusCode: 429, Message: "slow down"}
	completer := &fakeCompleter{
		reply: "One sentence here.",
		errs:  []error{rateLimited},
	}
	r := resegment.New(nil,
		resegment.WithCompleter(completer),
		resegment.WithRetry(fastRetry()),
	)

	got := r.Resegment(context.Background(), inputCues())
	if completer.calls != 2 {
		t.Errorf("calls = %d, want 2 (one retry)", completer.calls)
	}
	if len(got) != 1 || got[0].Text != "One sentence here" {
		t.Errorf("got %+v, want the rewritten sentence", got)
	}
}

func TestResegmentQuotaExceededNotRetried(t *testing.T) {
	t.Parallel()

	quota := &openai.APIError{HTTPStatusCode: 429, Message: "You exceeded your current quota"}
	completer := &fakeCompleter{reply: "unused.", errs: []error{quota}}
	r := resegment.New(nil,
		resegment.WithCompleter(completer),
		resegment.WithRetry(fastRetry()),
	)

	in := inputCues()
	got := r.Resegment(context.Background(), in)
	if completer.calls != 1 {
		t.Errorf("calls = %d, want 1 (quota errors are terminal)", completer.calls)
	}
	if got[0].Text != in[0].Text {
		t.Errorf("expected fail-open, got %+v", got)
	}
}

func TestResegmentEmptyInput(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{reply: "should not be called."}
	r := resegment.New(nil, resegment.WithCompleter(completer))

	if got := r.Resegment(context.Background(), nil); got != nil {
		t.Errorf("got %+v, want nil", got)
	}
	if completer.calls != 0 {
		t.Errorf("completer called for empty input")
	}
}

func TestResegmentSendsJoinedText(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{reply: "Hello world this is a test ok."}
	r := resegment.New(nil,
		resegment.WithCompleter(completer),
		resegment.WithRetry(fastRetry()),
	)
	r.Resegment(context.Background(), inputCues())

	req := completer.requests[0]
	if len(req.Messages) != 2 {
		t.Fatalf("got %d messages, want system + user", len(req.Messages))
	}
	user := req.Messages[1].Content
	if want := "hello world this is a test ok"; !strings.Contains(user, want) {
		t.Errorf("user prompt missing joined transcript: %q", user)
	}
}

package llm_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"jobmate/scout-service/internal/llm"
)

// fakeChatModel scripts the Generate response and counts calls.
type fakeChatModel struct {
	content string
	err     error
	calls   int
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.content, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

// ── Empty-input law ────────────────────────────────────────────────────────

func TestSummarize_EmptyInputSkipsModel(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t "} {
		fake := &fakeChatModel{content: "should never be used"}
		got := llm.New(fake).Summarize(context.Background(), text)
		if got != "" {
			t.Errorf("Summarize(%q) = %q, want \"\"", text, got)
		}
		if fake.calls != 0 {
			t.Errorf("Summarize(%q) issued %d model calls, want 0", text, fake.calls)
		}
	}
}

// ── Degradation law ────────────────────────────────────────────────────────

func TestSummarize_FailureDegradesToTruncation(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("connection refused")}
	input := strings.Repeat("X", 1000)

	got := llm.New(fake).Summarize(context.Background(), input)
	if got != input[:300] {
		t.Errorf("degraded summary = %d chars %q…, want exactly the first 300 characters",
			len(got), got[:min(20, len(got))])
	}
	if fake.calls != 1 {
		t.Errorf("model called %d times, want 1 (no retries)", fake.calls)
	}
}

func TestSummarize_ShortInputFailureReturnsWholeInput(t *testing.T) {
	fake := &fakeChatModel{err: errors.New("quota exceeded")}
	got := llm.New(fake).Summarize(context.Background(), "short text")
	if got != "short text" {
		t.Errorf("Summarize = %q, want the full input when shorter than the cap", got)
	}
}

func TestSummarize_EmptyCompletionDegradesToTruncation(t *testing.T) {
	fake := &fakeChatModel{content: "  \n "}
	input := strings.Repeat("y", 400)

	got := llm.New(fake).Summarize(context.Background(), input)
	if got != input[:300] {
		t.Errorf("blank completion must degrade to truncation, got %q", got)
	}
}

// ── Success path ───────────────────────────────────────────────────────────

func TestSummarize_ReturnsTrimmedCompletion(t *testing.T) {
	fake := &fakeChatModel{content: "\n- Cognizant walk-in drive\n- Kolkata, Saturday\n"}
	got := llm.New(fake).Summarize(context.Background(), "some job post text")

	want := "- Cognizant walk-in drive\n- Kolkata, Saturday"
	if got != want {
		t.Errorf("Summarize = %q, want %q", got, want)
	}
	if fake.calls != 1 {
		t.Errorf("model called %d times, want 1", fake.calls)
	}
}

// Package llm condenses aggregated post text through a chat model, degrading
// to truncation whenever the model is unavailable or misbehaves.
package llm

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ollama"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const (
	systemPrompt = "You are a helpful assistant that summarizes LinkedIn job posts."

	promptPrefix = "Summarize the following LinkedIn job post into 2-3 concise bullet points, " +
		"highlighting company, role, and key details:\n\n"

	// fallbackChars is how much of the source text stands in for a summary
	// when the model call fails.
	fallbackChars = 300

	temperature float32 = 0.4
	maxTokens           = 150

	generateTimeout = 60 * time.Second
)

// Summarizer issues one chat completion per run. Summarize never returns an
// error: callers only ever observe a summary, possibly a degraded one.
type Summarizer struct {
	chat einomodel.BaseChatModel
}

// New wraps a chat model. Production wiring passes the ollama-backed model
// from NewOllamaChatModel; tests pass a fake.
func New(chat einomodel.BaseChatModel) *Summarizer {
	return &Summarizer{chat: chat}
}

// NewOllamaChatModel builds the production chat model.
func NewOllamaChatModel(ctx context.Context, baseURL, modelName string) (einomodel.BaseChatModel, error) {
	chat, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
		BaseURL: baseURL,
		Model:   modelName,
		Timeout: generateTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("init ollama chat model: %w", err)
	}
	return chat, nil
}

// Summarize condenses text into a short bullet summary. Whitespace-only
// input returns "" without touching the model. Any model failure — transport,
// quota, empty completion — degrades to the first 300 characters of the
// input; the failure is logged, never propagated.
func (s *Summarizer) Summarize(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	msgs := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(promptPrefix + text),
	}

	out, err := s.chat.Generate(ctx, msgs,
		einomodel.WithTemperature(temperature),
		einomodel.WithMaxTokens(maxTokens),
	)
	if err != nil {
		log.Printf("[llm] Summarization failed: %v — falling back to truncated text", err)
		return truncate(text, fallbackChars)
	}

	summary := strings.TrimSpace(out.Content)
	if summary == "" {
		log.Println("[llm] Model returned an empty completion — falling back to truncated text")
		return truncate(text, fallbackChars)
	}
	return summary
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

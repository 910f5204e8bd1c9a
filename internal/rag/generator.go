package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stayscout/listingrag/internal/llm"
	"github.com/stayscout/listingrag/internal/observability"
)

// NoContextAnswer is returned when retrieval produced no passages; the
// generation service is not called in that case.
const NoContextAnswer = "I couldn't find any relevant information to answer your question."

// Answers should be short and literal, so decoding is pinned to low
// randomness and a small output budget.
const (
	answerMaxTokens   = 50
	answerTemperature = 0.2
	answerTopP        = 0.2
)

// Generator produces an answer to a question grounded in retrieved
// listing passages. It returns typed errors; fallback wording is the
// pipeline's decision, not the adapter's.
type Generator struct {
	provider llm.Provider
	model    string
}

// NewGenerator creates a Generator. A nil provider is allowed and makes
// Available return false.
func NewGenerator(provider llm.Provider, model string) *Generator {
	return &Generator{provider: provider, model: model}
}

// Available reports whether a generation backend is configured.
func (g *Generator) Available() bool { return g.provider != nil }

// Model returns the configured model identifier.
func (g *Generator) Model() string { return g.model }

// Generate builds a grounded prompt from the passages and asks the
// provider for a concise answer. Empty passages short-circuit to
// NoContextAnswer without an external call.
func (g *Generator) Generate(ctx context.Context, question string, passages []string) (string, error) {
	if len(passages) == 0 {
		return NoContextAnswer, nil
	}
	if g.provider == nil {
		return "", fmt.Errorf("no generation provider configured")
	}

	prompt := llm.UserPrompt(buildAnswerPrompt(question, passages))
	opts := &llm.RequestOptions{
		MaxTokens:   llm.IntPtr(answerMaxTokens),
		Temperature: llm.Float64Ptr(answerTemperature),
		TopP:        llm.Float64Ptr(answerTopP),
	}

	llmCtx, span := observability.StartLLMSpan(ctx, g.provider.Name(), g.model)
	defer span.End()

	start := time.Now()
	resp, err := g.provider.Complete(llmCtx, prompt, opts)
	if err != nil {
		observability.RecordError(span, err)
		return "", fmt.Errorf("generate answer: %w", err)
	}
	observability.RecordLLMMetrics(span, resp.InputTokens, resp.OutputTokens, time.Since(start))

	return llm.CleanAnswer(resp.Content), nil
}

func buildAnswerPrompt(question string, passages []string) string {
	var sb strings.Builder
	sb.WriteString("Based on the following context from a property listing, please answer this question: ")
	sb.WriteString(question)
	sb.WriteString("\n\nContext:\n")
	sb.WriteString(strings.Join(passages, "\n"))
	sb.WriteString("\n\nPlease provide a short and concise answer, don't be too verbose unless it's explicitly asked.\n")
	sb.WriteString("If you are not very confident in the answer, say 'I don't know'.\n")
	return sb.String()
}

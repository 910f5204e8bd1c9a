package llm

import "strings"

// StripThinkingTags removes <think>...</think> blocks from LLM output.
// Some models (e.g. qwen3 behind an OpenAI-compatible endpoint) wrap
// their reasoning in these tags.
func StripThinkingTags(s string) string {
	for {
		start := strings.Index(s, "<think>")
		if start == -1 {
			break
		}
		end := strings.Index(s, "</think>")
		if end == -1 {
			s = strings.TrimSpace(s[:start])
			break
		}
		s = s[:start] + s[end+len("</think>"):]
	}
	return strings.TrimSpace(s)
}

// CleanAnswer normalizes a generated answer for display: reasoning tags
// and surrounding whitespace removed.
func CleanAnswer(s string) string {
	return StripThinkingTags(s)
}

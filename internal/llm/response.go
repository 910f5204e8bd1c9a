package llm

// Response wraps a completion result. Token counts and stop reason are
// best-effort: providers that omit usage data leave them zero, and the
// tracing layer records whatever is present.
type Response struct {
	Content      string `json:"content"`
	Model        string `json:"model,omitempty"`
	InputTokens  int    `json:"input_tokens,omitempty"`
	OutputTokens int    `json:"output_tokens,omitempty"`
	StopReason   string `json:"stop_reason,omitempty"`
}

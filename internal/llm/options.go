package llm

// RequestOptions override per-call decoding parameters. Nil fields keep
// the provider's defaults.
type RequestOptions struct {
	MaxTokens   *int
	Temperature *float64
	TopP        *float64
	StopSeqs    []string
}

// IntPtr returns a pointer to v, for building RequestOptions inline.
func IntPtr(v int) *int { return &v }

// Float64Ptr returns a pointer to v, for building RequestOptions inline.
func Float64Ptr(v float64) *float64 { return &v }

package api

// Request and response envelopes. Field names mirror the public API
// contract, not internal type names.

// QueryRequest is the body of POST /search and POST /search-with-llm.
type QueryRequest struct {
	Query    string `json:"query"`
	NResults *int   `json:"n_results,omitempty"`
}

// SearchResultItem is one retrieved passage.
type SearchResultItem struct {
	Text     string  `json:"text"`
	Distance float32 `json:"distance"`
}

// SearchResponse is the body of a successful POST /search.
type SearchResponse struct {
	Query        string             `json:"query"`
	Results      []SearchResultItem `json:"results"`
	TotalResults int                `json:"total_results"`
}

// LLMSearchResponse is the body of a successful POST /search-with-llm.
// Error is populated when generation degraded; the request still
// succeeds.
type LLMSearchResponse struct {
	Query       string             `json:"query"`
	LLMResponse string             `json:"llm_response"`
	Results     []SearchResultItem `json:"results"`
	Error       string             `json:"error,omitempty"`
}

// CollectionInfoResponse is the body of GET /info.
type CollectionInfoResponse struct {
	CollectionName string `json:"collection_name"`
	DocumentCount  uint64 `json:"document_count"`
}

// LLMStatusResponse is the body of GET /llm-status.
type LLMStatusResponse struct {
	LLMAvailable bool   `json:"llm_available"`
	LLMModel     string `json:"llm_model,omitempty"`
	LLMError     string `json:"llm_error,omitempty"`
}

// LoadDocumentsResponse is the body of POST /load-documents.
type LoadDocumentsResponse struct {
	Message        string `json:"message"`
	DocumentsAdded int    `json:"documents_added"`
}

// ErrorResponse carries a human-readable failure detail.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

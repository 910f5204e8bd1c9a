package api

import (
	"encoding/json"
	"net/http"

	"github.com/stayscout/listingrag/internal/rag"
	"github.com/stayscout/listingrag/internal/vector"
)

// handleRoot handles GET / — service metadata and endpoint list.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"message": "Listing RAG system with Mistral LLM",
		"version": "2.0.0",
		"endpoints": map[string]string{
			"health":          "/health",
			"info":            "/info",
			"search":          "/search",
			"load-documents":  "/load-documents",
			"search-with-llm": "/search-with-llm",
			"llm-status":      "/llm-status",
			"sample-queries":  "/sample-queries",
		},
	})
}

// handleHealth handles GET /health — 200 whenever the process is alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": ServiceName,
	})
}

// handleInfo handles GET /info — collection name and document count.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	info, err := s.service.Info(r.Context())
	if err != nil {
		s.respondError(w, err, "Error retrieving collection info")
		return
	}

	s.respondJSON(w, http.StatusOK, CollectionInfoResponse{
		CollectionName: info.Name,
		DocumentCount:  info.DocumentCount,
	})
}

// handleSearch handles POST /search — plain similarity retrieval.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	results, err := s.service.Search(r.Context(), req.Query, nResults(req))
	if err != nil {
		s.respondError(w, err, "Internal server error during search")
		return
	}

	s.respondJSON(w, http.StatusOK, SearchResponse{
		Query:        req.Query,
		Results:      toResultItems(results),
		TotalResults: len(results),
	})
}

// handleSearchWithLLM handles POST /search-with-llm — retrieval plus a
// generated answer. Generation failure degrades inside the pipeline; a
// 200 with a populated error field is still a success here.
func (s *Server) handleSearchWithLLM(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}

	answer, err := s.service.SearchWithAnswer(r.Context(), req.Query, nResults(req))
	if err != nil {
		s.respondError(w, err, "Internal server error during LLM search")
		return
	}

	s.respondJSON(w, http.StatusOK, LLMSearchResponse{
		Query:       answer.Query,
		LLMResponse: answer.Response,
		Results:     toResultItems(answer.Results),
		Error:       answer.Err,
	})
}

// handleLoadDocuments handles POST /load-documents — re-ingests from
// the configured source file, bypassing the startup empty-check.
func (s *Server) handleLoadDocuments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	n, err := s.service.Ingest(r.Context())
	if err != nil {
		s.respondError(w, err, "Error loading documents")
		return
	}

	s.respondJSON(w, http.StatusOK, LoadDocumentsResponse{
		Message:        "Documents reloaded successfully",
		DocumentsAdded: n,
	})
}

// handleLLMStatus handles GET /llm-status.
func (s *Server) handleLLMStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := s.service.GeneratorStatus()
	s.respondJSON(w, http.StatusOK, LLMStatusResponse{
		LLMAvailable: status.Available,
		LLMModel:     status.Model,
		LLMError:     status.Err,
	})
}

// handleSampleQueries handles GET /sample-queries — static fixture data.
func (s *Server) handleSampleQueries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string][]string{
		"sample_queries": sampleQueries,
	})
}

// decodeQuery parses the shared POST body for the search endpoints.
func (s *Server) decodeQuery(w http.ResponseWriter, r *http.Request) (*QueryRequest, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "Invalid JSON body"})
		return nil, false
	}
	return &req, true
}

func nResults(req *QueryRequest) int {
	if req.NResults == nil {
		return rag.DefaultResults
	}
	return *req.NResults
}

func toResultItems(results []vector.SearchResult) []SearchResultItem {
	items := make([]SearchResultItem, len(results))
	for i, r := range results {
		items[i] = SearchResultItem{Text: r.Content, Distance: r.Distance}
	}
	return items
}

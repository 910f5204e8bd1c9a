package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestValidate_Defaults(t *testing.T) {
	t.Setenv("LISTINGRAG_LLM_API_KEY", "test-key")
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if warnings := cfg.Validate(); len(warnings) != 0 {
		t.Errorf("default config should have no warnings, got %v", warnings)
	}
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := &Config{
		LLM:    LLMConfig{Provider: "mistral"},
		Vector: VectorConfig{Dimension: 1024},
	}
	warnings := cfg.Validate()
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "api_key") {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected warning about missing api_key")
	}
}

func TestValidate_NoneProvider(t *testing.T) {
	// "none" provider with no API key should not warn
	cfg := &Config{
		LLM:    LLMConfig{Provider: "none"},
		Vector: VectorConfig{Dimension: 1024},
	}
	for _, w := range cfg.Validate() {
		if strings.Contains(w, "api_key") {
			t.Error("'none' provider should not warn about missing api_key")
		}
	}
}

func TestValidate_ChunkGeometry(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		want    bool // true = should warn
	}{
		{"defaults", 500, 50, false},
		{"zero_size", 0, 0, false},
		{"negative_size", -1, 0, true},
		{"negative_overlap", 500, -1, true},
		{"overlap_equals_size", 100, 100, true},
		{"overlap_exceeds_size", 100, 150, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Ingest: IngestConfig{ChunkSize: tt.size, ChunkOverlap: tt.overlap},
				Vector: VectorConfig{Dimension: 1024},
			}
			hasWarn := false
			for _, w := range cfg.Validate() {
				if strings.Contains(w, "chunk") {
					hasWarn = true
				}
			}
			if hasWarn != tt.want {
				t.Errorf("size=%d overlap=%d: hasWarn=%v, want=%v", tt.size, tt.overlap, hasWarn, tt.want)
			}
		})
	}
}

func TestValidate_ZeroDimension(t *testing.T) {
	cfg := &Config{}
	found := false
	for _, w := range cfg.Validate() {
		if strings.Contains(w, "dimension") {
			found = true
		}
	}
	if !found {
		t.Error("expected warning about zero vector dimension")
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.ListenAddr != ":8000" {
		t.Errorf("expected default listen_addr :8000, got %s", cfg.Server.ListenAddr)
	}
	if cfg.LLM.Provider != "mistral" || cfg.LLM.Model != "mistral-large-latest" {
		t.Errorf("unexpected default LLM config: %+v", cfg.LLM)
	}
	if cfg.LLM.EmbedModel != "mistral-embed" {
		t.Errorf("expected default embed model mistral-embed, got %s", cfg.LLM.EmbedModel)
	}
	if cfg.Vector.Dimension != 1024 {
		t.Errorf("expected default dimension 1024, got %d", cfg.Vector.Dimension)
	}
	if cfg.Ingest.ChunkSize != 500 || cfg.Ingest.ChunkOverlap != 50 {
		t.Errorf("unexpected default chunk geometry: %+v", cfg.Ingest)
	}
	if cfg.LLM.Timeout != 2*time.Minute {
		t.Errorf("expected default timeout 2m, got %v", cfg.LLM.Timeout)
	}
	if cfg.LLM.MaxRetries != 2 {
		t.Errorf("expected default max_retries 2, got %d", cfg.LLM.MaxRetries)
	}
	if cfg.LLM.RetryDelay != time.Second {
		t.Errorf("expected default retry_delay 1s, got %v", cfg.LLM.RetryDelay)
	}
	if cfg.LLM.RequestsPerMinute != 0 {
		t.Errorf("expected default requests_per_minute 0, got %d", cfg.LLM.RequestsPerMinute)
	}
}

func TestLoad_RequestPolicyOverride(t *testing.T) {
	t.Setenv("LISTINGRAG_LLM_REQUESTS_PER_MINUTE", "30")
	t.Setenv("LISTINGRAG_LLM_TIMEOUT", "45s")
	t.Setenv("LISTINGRAG_LLM_MAX_RETRIES", "5")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LLM.RequestsPerMinute != 30 {
		t.Errorf("expected requests_per_minute 30, got %d", cfg.LLM.RequestsPerMinute)
	}
	if cfg.LLM.Timeout != 45*time.Second {
		t.Errorf("expected timeout 45s, got %v", cfg.LLM.Timeout)
	}
	if cfg.LLM.MaxRetries != 5 {
		t.Errorf("expected max_retries 5, got %d", cfg.LLM.MaxRetries)
	}
}

func TestValidate_NegativeRequestPolicy(t *testing.T) {
	cfg := &Config{
		LLM:    LLMConfig{MaxRetries: -1, RequestsPerMinute: -5},
		Vector: VectorConfig{Dimension: 1024},
	}
	warnings := cfg.Validate()
	var retries, rpm bool
	for _, w := range warnings {
		if strings.Contains(w, "max_retries") {
			retries = true
		}
		if strings.Contains(w, "requests_per_minute") {
			rpm = true
		}
	}
	if !retries || !rpm {
		t.Errorf("expected warnings for negative retries and rpm, got %v", warnings)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LISTINGRAG_SERVER_LISTEN_ADDR", ":9100")
	t.Setenv("LISTINGRAG_VECTOR_COLLECTION", "other_listing")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.ListenAddr != ":9100" {
		t.Errorf("expected env override :9100, got %s", cfg.Server.ListenAddr)
	}
	if cfg.Vector.Collection != "other_listing" {
		t.Errorf("expected env override other_listing, got %s", cfg.Vector.Collection)
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  listen_addr: ":8080"
llm:
  provider: openai
  model: gpt-4o-mini
  api_key: file-key
vector:
  collection: from_file
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("expected listen_addr from file, got %s", cfg.Server.ListenAddr)
	}
	if cfg.LLM.Provider != "openai" || cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("unexpected LLM config from file: %+v", cfg.LLM)
	}
	// Unset file keys keep their defaults.
	if cfg.Ingest.ChunkSize != 500 {
		t.Errorf("expected defaulted chunk_size 500, got %d", cfg.Ingest.ChunkSize)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("expected error for missing config file")
	}
}

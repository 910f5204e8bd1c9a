package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Vector  VectorConfig  `mapstructure:"vector"`
	Ingest  IngestConfig  `mapstructure:"ingest"`
	Log     LogConfig     `mapstructure:"log"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

type ServerConfig struct {
	ListenAddr string `mapstructure:"listen_addr"`
}

type LLMConfig struct {
	Provider   string `mapstructure:"provider"`
	Model      string `mapstructure:"model"`
	EmbedModel string `mapstructure:"embed_model"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`

	// Per-request policy applied at the provider boundary.
	Timeout           time.Duration `mapstructure:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries"`
	RetryDelay        time.Duration `mapstructure:"retry_delay"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
}

type VectorConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	Collection string `mapstructure:"collection"`
	Dimension  int    `mapstructure:"dimension"`
}

type IngestConfig struct {
	SourcePath   string `mapstructure:"source_path"`
	ChunkSize    int    `mapstructure:"chunk_size"`
	ChunkOverlap int    `mapstructure:"chunk_overlap"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if c.LLM.Provider != "" && c.LLM.Provider != "none" && c.LLM.APIKey == "" {
		warnings = append(warnings, fmt.Sprintf("LLM provider '%s' is configured but api_key is empty", c.LLM.Provider))
	}

	if c.LLM.MaxRetries < 0 {
		warnings = append(warnings, fmt.Sprintf("LLM max_retries %d is negative", c.LLM.MaxRetries))
	}

	if c.LLM.RequestsPerMinute < 0 {
		warnings = append(warnings, fmt.Sprintf("LLM requests_per_minute %d is negative", c.LLM.RequestsPerMinute))
	}

	if c.Ingest.ChunkSize < 0 {
		warnings = append(warnings, fmt.Sprintf("ingest chunk_size %d is negative", c.Ingest.ChunkSize))
	}

	if c.Ingest.ChunkOverlap < 0 {
		warnings = append(warnings, fmt.Sprintf("ingest chunk_overlap %d is negative", c.Ingest.ChunkOverlap))
	}

	if c.Ingest.ChunkSize > 0 && c.Ingest.ChunkOverlap >= c.Ingest.ChunkSize {
		warnings = append(warnings, fmt.Sprintf("ingest chunk_overlap %d is not smaller than chunk_size %d", c.Ingest.ChunkOverlap, c.Ingest.ChunkSize))
	}

	if c.Vector.Dimension <= 0 {
		warnings = append(warnings, fmt.Sprintf("vector dimension %d is not positive; the store cannot create a collection", c.Vector.Dimension))
	}

	return warnings
}

// setDefaults registers the defaults every deployment starts from.
// mistral-embed produces 1024-dimensional vectors.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", ":8000")
	v.SetDefault("llm.provider", "mistral")
	v.SetDefault("llm.model", "mistral-large-latest")
	v.SetDefault("llm.embed_model", "mistral-embed")
	// Keys with no meaningful default still need one registered, or
	// AutomaticEnv will not surface them through Unmarshal.
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.timeout", "2m")
	v.SetDefault("llm.max_retries", 2)
	v.SetDefault("llm.retry_delay", "1s")
	v.SetDefault("llm.requests_per_minute", 0)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("vector.host", "localhost")
	v.SetDefault("vector.port", 6334)
	v.SetDefault("vector.collection", "apartment_listing")
	v.SetDefault("vector.dimension", 1024)
	v.SetDefault("ingest.source_path", "data/listing.txt")
	v.SetDefault("ingest.chunk_size", 500)
	v.SetDefault("ingest.chunk_overlap", 50)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Load reads configuration from an optional file and the environment.
// An empty path skips the file entirely; environment variables use the
// LISTINGRAG_ prefix (e.g. LISTINGRAG_LLM_API_KEY).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("LISTINGRAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Validate configuration and print warnings
	if warnings := cfg.Validate(); len(warnings) > 0 {
		for _, warning := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
		}
	}

	return &cfg, nil
}

package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server        Server        `mapstructure:"server"`
	LLM           LLM           `mapstructure:"llm"`
	Storage       Storage       `mapstructure:"storage"`
	Elasticsearch Elasticsearch `mapstructure:"elasticsearch"`
	Fetcher       Fetcher       `mapstructure:"fetcher"`
	Pipeline      Pipeline      `mapstructure:"pipeline"`
	MCP           MCP           `mapstructure:"mcp"`
}

// Server holds HTTP API configuration.
type Server struct {
	Addr string `mapstructure:"addr"`
}

// LLM holds labeling/narrative capability configuration. When disabled,
// the deterministic fallbacks apply.
type LLM struct {
	Enabled    bool   `mapstructure:"enabled"`
	BaseURL    string `mapstructure:"base_url"`    // OpenAI-compatible endpoint
	SocketPath string `mapstructure:"socket_path"` // Unix socket alternative to base_url
	Model      string `mapstructure:"model"`
}

// Storage holds S3/MinIO user store configuration. An empty endpoint
// selects the in-memory store.
type Storage struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Elasticsearch holds the analysis archive configuration. An empty address
// list disables archiving.
type Elasticsearch struct {
	Addresses []string `mapstructure:"addresses"`
	Index     string   `mapstructure:"index"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
}

// Fetcher holds document fetch configuration.
type Fetcher struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Pipeline holds chunking and ranking bounds.
type Pipeline struct {
	MaxChunkChars int `mapstructure:"max_chunk_chars"`
	MaxChunks     int `mapstructure:"max_chunks"`
	TopClauses    int `mapstructure:"top_clauses"`
}

// MCP holds MCP server configuration.
type MCP struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Server: Server{
			Addr: ":8787",
		},
		LLM: LLM{
			Enabled:    false, // Disabled by default: deterministic fallbacks apply
			BaseURL:    "http://localhost:12434/v1",
			SocketPath: "",
			Model:      "ai/gemma3",
		},
		Storage: Storage{
			Endpoint:        "", // Empty: in-memory store
			Bucket:          "clausewise",
			AccessKeyID:     "minioadmin",
			SecretAccessKey: "minioadmin",
			UseSSL:          false,
		},
		Elasticsearch: Elasticsearch{
			Addresses: nil, // Empty: archiving disabled
			Index:     "clausewise-analyses",
		},
		Fetcher: Fetcher{
			Timeout:   30 * time.Second,
			UserAgent: "clausewise/1.0",
		},
		Pipeline: Pipeline{
			MaxChunkChars: 1800,
			MaxChunks:     8,
			TopClauses:    10,
		},
		MCP: MCP{
			Name:    "clausewise",
			Version: "1.0.0",
		},
	}
}

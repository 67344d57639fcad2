// Package config loads runtime settings from a YAML file with
// environment overrides and sensible defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full runtime configuration.
type Config struct {
	Personality PersonalityConfig `mapstructure:"personality"`
	Memory      MemoryConfig      `mapstructure:"memory"`
	Embedder    EmbedderConfig    `mapstructure:"embedder"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Proactive   ProactiveConfig   `mapstructure:"proactive"`
	Web         WebConfig         `mapstructure:"web"`
}

// PersonalityConfig points at the character profile.
type PersonalityConfig struct {
	Path string `mapstructure:"path"`
}

// MemoryConfig tunes the two memory tiers.
type MemoryConfig struct {
	StorePath                  string  `mapstructure:"store_path"`
	Reset                      bool    `mapstructure:"reset"`
	ShortTermCapacity          int     `mapstructure:"short_term_capacity"`
	ConsolidateOnAdd           bool    `mapstructure:"consolidate_on_add"`
	MinConsolidationImportance float64 `mapstructure:"min_consolidation_importance"`
	RetrievalThreshold         float64 `mapstructure:"retrieval_threshold"`
	RetrieveN                  int     `mapstructure:"retrieve_n"`
}

// EmbedderConfig selects and tunes the embedding provider.
type EmbedderConfig struct {
	// Provider is one of: mock, ollama, onnx.
	Provider      string `mapstructure:"provider"`
	Dimensions    int    `mapstructure:"dimensions"`
	CacheEntries  int64  `mapstructure:"cache_entries"`
	OllamaURL     string `mapstructure:"ollama_url"`
	OllamaModel   string `mapstructure:"ollama_model"`
	ModelPath     string `mapstructure:"model_path"`
	TokenizerPath string `mapstructure:"tokenizer_path"`
	LibraryPath   string `mapstructure:"library_path"`
}

// LLMConfig selects and tunes the generation backend.
type LLMConfig struct {
	// Backend is one of: anthropic, ollama.
	Backend        string  `mapstructure:"backend"`
	Model          string  `mapstructure:"model"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	Temperature    float64 `mapstructure:"temperature"`
	OllamaURL      string  `mapstructure:"ollama_url"`
	FactExtraction bool    `mapstructure:"fact_extraction"`
}

// ProactiveConfig tunes the spontaneous behavior loop.
type ProactiveConfig struct {
	Enabled         bool `mapstructure:"enabled"`
	IntervalSeconds int  `mapstructure:"interval_seconds"`
}

// WebConfig tunes the WebSocket gateway.
type WebConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads the configuration from path. An empty path uses
// defaults and environment only; a missing file at an explicit path
// is an error. Every key can be overridden through MIRA_* environment
// variables (e.g. MIRA_LLM_BACKEND).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MIRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("personality.path", "config/personality.yaml")

	v.SetDefault("memory.store_path", "data/chroma")
	v.SetDefault("memory.reset", false)
	v.SetDefault("memory.short_term_capacity", 20)
	v.SetDefault("memory.consolidate_on_add", true)
	v.SetDefault("memory.min_consolidation_importance", 0.0)
	v.SetDefault("memory.retrieval_threshold", 0.3)
	v.SetDefault("memory.retrieve_n", 5)

	v.SetDefault("embedder.provider", "ollama")
	v.SetDefault("embedder.dimensions", 768)
	v.SetDefault("embedder.cache_entries", 4096)
	v.SetDefault("embedder.ollama_url", "http://localhost:11434")
	v.SetDefault("embedder.ollama_model", "nomic-embed-text")

	v.SetDefault("llm.backend", "anthropic")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.ollama_url", "http://localhost:11434")
	v.SetDefault("llm.fact_extraction", false)

	v.SetDefault("proactive.enabled", false)
	v.SetDefault("proactive.interval_seconds", 45)

	v.SetDefault("web.addr", ":8090")
}

func validate(cfg *Config) error {
	switch cfg.Embedder.Provider {
	case "mock", "ollama", "onnx":
	default:
		return fmt.Errorf("unknown embedder provider %q", cfg.Embedder.Provider)
	}
	switch cfg.LLM.Backend {
	case "anthropic", "ollama":
	default:
		return fmt.Errorf("unknown llm backend %q", cfg.LLM.Backend)
	}
	if cfg.Memory.ShortTermCapacity <= 0 {
		return fmt.Errorf("memory.short_term_capacity must be positive")
	}
	if cfg.Memory.RetrievalThreshold < 0 {
		return fmt.Errorf("memory.retrieval_threshold must be >= 0")
	}
	return nil
}

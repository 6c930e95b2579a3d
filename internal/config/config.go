package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server      ServerConfig
	Redis       RedisConfig
	Fetch       FetchConfig
	Normalize   NormalizeConfig
	STT         STTConfig
	LLM         LLMConfig
	PostProcess PostProcessConfig
	Cache       CacheConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type FetchConfig struct {
	Timeout  time.Duration
	MaxBytes int64
}

type NormalizeConfig struct {
	Mode          string // "auto", "always" or "never"
	FFmpegBin     string
	MaxConcurrent int
	Timeout       time.Duration
}

type STTConfig struct {
	Backend  string // "openai", "whisper-http" or "local"
	APIKey   string
	BaseURL  string
	Model    string
	Prompt   string
	Language string
	Diarize  bool
	Timeout  time.Duration
}

type LLMConfig struct {
	OpenAIKey        string
	AnthropicKey     string
	OllamaURL        string
	DefaultProvider  string
	FallbackProvider string
	MaxRetries       int
}

type PostProcessConfig struct {
	Template string // empty disables the stage
	Model    string
	Timeout  time.Duration
}

type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

func Load() (*Config, error) {
	port, err := getEnvInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxBytes, err := getEnvInt64("FETCH_MAX_BYTES", 25<<20)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_MAX_BYTES: %w", err)
	}

	fetchTimeout, err := getEnvDuration("FETCH_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT: %w", err)
	}

	normalizeConcurrent, err := getEnvInt("NORMALIZE_MAX_CONCURRENT", 2)
	if err != nil {
		return nil, fmt.Errorf("invalid NORMALIZE_MAX_CONCURRENT: %w", err)
	}

	normalizeTimeout, err := getEnvDuration("NORMALIZE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid NORMALIZE_TIMEOUT: %w", err)
	}

	sttTimeout, err := getEnvDuration("STT_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid STT_TIMEOUT: %w", err)
	}

	maxRetries, err := getEnvInt("LLM_MAX_RETRIES", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_RETRIES: %w", err)
	}

	postTimeout, err := getEnvDuration("POSTPROCESS_TIMEOUT", 2*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid POSTPROCESS_TIMEOUT: %w", err)
	}

	cacheTTL, err := getEnvDuration("CACHE_TTL", time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: port,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Fetch: FetchConfig{
			Timeout:  fetchTimeout,
			MaxBytes: maxBytes,
		},
		Normalize: NormalizeConfig{
			Mode:          getEnv("NORMALIZE_MODE", "auto"),
			FFmpegBin:     getEnv("FFMPEG_BIN", "ffmpeg"),
			MaxConcurrent: normalizeConcurrent,
			Timeout:       normalizeTimeout,
		},
		STT: STTConfig{
			Backend:  getEnv("STT_BACKEND", "openai"),
			APIKey:   getEnv("OPENAI_API_KEY", ""),
			BaseURL:  getEnv("STT_BASE_URL", ""),
			Model:    getEnv("STT_MODEL", ""),
			Prompt:   getEnv("STT_PROMPT", ""),
			Language: getEnv("STT_LANGUAGE", ""),
			Diarize:  getEnvBool("STT_DIARIZE", false),
			Timeout:  sttTimeout,
		},
		LLM: LLMConfig{
			OpenAIKey:        getEnv("OPENAI_API_KEY", ""),
			AnthropicKey:     getEnv("ANTHROPIC_API_KEY", ""),
			OllamaURL:        getEnv("OLLAMA_URL", ""),
			DefaultProvider:  getEnv("LLM_DEFAULT_PROVIDER", "openai"),
			FallbackProvider: getEnv("LLM_FALLBACK_PROVIDER", ""),
			MaxRetries:       maxRetries,
		},
		PostProcess: PostProcessConfig{
			Template: getEnv("POSTPROCESS_TEMPLATE", ""),
			Model:    getEnv("POSTPROCESS_MODEL", "gpt-4o-mini"),
			Timeout:  postTimeout,
		},
		Cache: CacheConfig{
			Enabled: getEnvBool("CACHE_ENABLED", false),
			TTL:     cacheTTL,
		},
	}

	return cfg, nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) Validate() error {
	var missing []string
	if c.STT.Backend != "local" && c.STT.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}

	switch c.STT.Backend {
	case "openai", "whisper-http", "local":
	default:
		return fmt.Errorf("unknown STT_BACKEND %q", c.STT.Backend)
	}

	if c.PostProcess.Template != "" &&
		c.LLM.OpenAIKey == "" && c.LLM.AnthropicKey == "" && c.LLM.OllamaURL == "" {
		return fmt.Errorf("POSTPROCESS_TEMPLATE set but no LLM provider configured")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseInt(v, 10, 64)
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

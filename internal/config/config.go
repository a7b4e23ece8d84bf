package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates all process configuration. Read once at startup and
// immutable afterwards.
type Config struct {
	Server ServerConfig
	AI     AIConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3001"
	}

	if strings.Contains(port, ":") {
		// Accept ":3001" or "127.0.0.1:3001" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the LM Studio completion endpoint.
type AIConfig struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Enabled reports whether the gateway can be constructed.
func (c AIConfig) Enabled() bool {
	return c.BaseURL != "" && c.Model != ""
}

// NewChatModel builds the OpenAI-compatible chat model from this config.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("LM Studio base URL and model are required")
	}

	temperature := float32(c.Temperature)
	maxTokens := c.MaxTokens

	cfg := &openai.ChatModelConfig{
		BaseURL:     c.BaseURL,
		APIKey:      c.APIKey,
		Model:       c.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
		Timeout:     c.Timeout,
	}

	return openai.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("LM_STUDIO_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	temp := 0.7
	if temperature != nil {
		temp = *temperature
	}

	maxTokens, err := parseOptionalIntEnv("LM_STUDIO_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}
	tokens := 500
	if maxTokens != nil {
		tokens = *maxTokens
	}

	timeoutSeconds, err := parseOptionalIntEnv("LM_STUDIO_TIMEOUT_SECONDS")
	if err != nil {
		return AIConfig{}, err
	}
	timeout := 60 * time.Second
	if timeoutSeconds != nil {
		timeout = time.Duration(*timeoutSeconds) * time.Second
	}

	return AIConfig{
		BaseURL:     getEnvOrDefault("LM_STUDIO_BASE_URL", "http://localhost:1234/v1"),
		APIKey:      getEnvOrDefault("LM_STUDIO_API_KEY", "lm-studio"),
		Model:       getEnvOrDefault("LM_STUDIO_MODEL", "jan-v3-4b-base-instruct"),
		Temperature: temp,
		MaxTokens:   tokens,
		Timeout:     timeout,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

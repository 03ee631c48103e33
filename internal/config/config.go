package config

import (
	"context"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/pkg/errors"
)

// Config aggregates every setting of the API server and the chat client.
type Config struct {
	Server  ServerConfig
	AI      AIConfig
	Emotion EmotionConfig
	Client  ClientConfig
	Log     LogConfig
}

// Load parses configuration from the environment. Callers load .env beforehand.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}

	if _, err := cfg.Server.ListenAddr(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Port           string   `env:"PORT" envDefault:"8000"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// ListenAddr accepts "8000", ":8000" or "127.0.0.1:8000".
func (c ServerConfig) ListenAddr() (string, error) {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8000"
	}

	if strings.Contains(port, " ") {
		return "", errors.Errorf("invalid PORT value: %q", port)
	}

	if strings.Contains(port, ":") {
		return port, nil
	}

	return ":" + port, nil
}

// AIConfig describes the Ark chat model.
type AIConfig struct {
	APIKey      string   `env:"ARK_API_KEY"`
	AccessKey   string   `env:"ARK_ACCESS_KEY"`
	SecretKey   string   `env:"ARK_SECRET_KEY"`
	Model       string   `env:"ARK_MODEL"`
	BaseURL     string   `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	Region      string   `env:"ARK_REGION" envDefault:"cn-beijing"`
	Temperature *float64 `env:"ARK_TEMPERATURE"`
	TopP        *float64 `env:"ARK_TOP_P"`
	MaxTokens   *int     `env:"ARK_MAX_TOKENS"`
}

// Enabled reports whether enough credentials were supplied to build a model.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds the Ark chat model from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, errors.New("ark credentials or model missing: set ARK_MODEL and ARK_API_KEY or ARK_ACCESS_KEY+ARK_SECRET_KEY")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	chatModel, err := ark.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "create ark chat model")
	}
	return chatModel, nil
}

// EmotionConfig controls /analyze.
type EmotionConfig struct {
	LLMEnabled bool `env:"AI_EMOTION_LLM_ENABLED" envDefault:"false"`
	TopK       int  `env:"EMOTION_TOP_K" envDefault:"3"`
}

// ClientConfig describes the chat widget's backend.
type ClientConfig struct {
	Endpoint string `env:"ECHOMIND_CHAT_ENDPOINT" envDefault:"http://localhost:8000/chat"`
}

// LogConfig selects log verbosity and encoding.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

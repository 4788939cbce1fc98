package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	DatabaseURL string `env:"DATABASE_URL,required"`
	ListenAddr  string `env:"LISTEN_ADDR" envDefault:":8080"`

	// Completion provider: "openrouter" or "gemini"
	CompletionProvider string `env:"COMPLETION_PROVIDER" envDefault:"openrouter"`
	OpenRouterKey      string `env:"OPENROUTER_API_KEY"`
	OpenRouterModel    string `env:"OPENROUTER_MODEL" envDefault:"openai/gpt-4o"`
	GeminiModel        string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	// Auth: comma-separated token:uid pairs for the static verifier.
	// Production deployments plug a real identity provider instead.
	APITokens string `env:"API_TOKENS"`

	// Usage pricing, USD per 1M tokens. Zero disables cost accounting.
	PromptPrice     float64 `env:"PROMPT_PRICE_PER_1M" envDefault:"0"`
	CompletionPrice float64 `env:"COMPLETION_PRICE_PER_1M" envDefault:"0"`

	// Telegram ops alerts (disabled when chat id is zero)
	AlertBotToken string `env:"ALERT_BOT_TOKEN"`
	AlertChatID   int64  `env:"ALERT_TELEGRAM_CHAT_ID"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// TokenMap parses APITokens ("token:uid,token:uid") into a lookup map.
func (c *Config) TokenMap() map[string]string {
	tokens := map[string]string{}
	for _, pair := range strings.Split(c.APITokens, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, uid, ok := strings.Cut(pair, ":")
		if !ok || token == "" || uid == "" {
			continue
		}
		tokens[token] = uid
	}
	return tokens
}

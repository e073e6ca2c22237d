package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	// HTTP server
	Port     int    `env:"PORT" envDefault:"8080"`
	SiteName string `env:"SITE_NAME" envDefault:"Portfolio"`

	// Admin access
	AdminPassword string `env:"ADMIN_PASSWORD,required"`

	// LLM settings
	LLMProvider      LLMProvider `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string      `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string      `env:"OPENAI_BASE_URL"`
	OpenAIModel      string      `env:"OPENAI_MODEL" envDefault:"gpt-3.5-turbo"`
	YandexOAuthToken string      `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string      `env:"YANDEX_FOLDER_ID"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Storage
	DatabasePath    string `env:"DATABASE_PATH" envDefault:"data/portfolio.db"`
	UploadsDir      string `env:"UPLOADS_DIR" envDefault:"data/uploads"`
	TranscriptsPath string `env:"TRANSCRIPTS_PATH" envDefault:"data/transcripts.json"`

	// Notifications (optional)
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	AdminChatID      int64  `env:"ADMIN_CHAT_ID"`

	// Daily analytics digest, cron spec in UTC
	DigestCronSpec string `env:"DIGEST_CRON_SPEC" envDefault:"0 21 * * *"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

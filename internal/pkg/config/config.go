package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPAddr  string `env:"HTTP_ADDR" envDefault:":8080"`
	AdminAddr string `env:"ADMIN_ADDR" envDefault:":9091"`

	PostgresURL string `env:"POSTGRES_URL,required"`
	RedisAddr   string `env:"REDIS_ADDR,required"`

	DiscordAPIURL   string `env:"DISCORD_API_URL" envDefault:"https://discord.com/api"`
	DiscordBotToken string `env:"DISCORD_BOT_TOKEN,required"`
	DiscordRateRPS  int    `env:"DISCORD_RATE_RPS" envDefault:"5"`

	// GlobalAccountID is the principal that owns the shared tokens used by
	// the internal check endpoint.
	GlobalAccountID string `env:"GLOBAL_ACCOUNT_ID,required"`
	GlobalTokenName string `env:"GLOBAL_TOKEN_NAME" envDefault:"Global"`

	CheckConcurrency int `env:"CHECK_CONCURRENCY" envDefault:"4"`
	CheckMaxBatch    int `env:"CHECK_MAX_BATCH" envDefault:"10"`

	APIKeyCacheTTL    time.Duration `env:"API_KEY_CACHE_TTL" envDefault:"5m"`
	RequestInterval   time.Duration `env:"REQUEST_INTERVAL" envDefault:"60s"`
	FreeDailyLimit    int           `env:"FREE_DAILY_LIMIT" envDefault:"50"`
	PremiumDailyLimit int           `env:"PREMIUM_DAILY_LIMIT" envDefault:"100"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Attempt to load .env file for local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

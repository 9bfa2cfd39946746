package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Environment string `env:"BOT_ENVIRONMENT" envDefault:"development"`

	// Deal selection
	MinDiscount int      `env:"MIN_DISCOUNT" envDefault:"30" validate:"min=0,max=100"`
	MaxDeals    int      `env:"MAX_DEALS" envDefault:"5" validate:"min=1"`
	Categories  []string `env:"CATEGORIES" envSeparator:"," envDefault:"electronics,home"`
	Providers   []string `env:"PROVIDERS" envSeparator:"," envDefault:"chollometro,pccomponentes"`

	// Run pacing
	ScrapeInterval time.Duration `env:"SCRAPE_INTERVAL" envDefault:"30m"`
	ProviderDelay  time.Duration `env:"PROVIDER_DELAY" envDefault:"2s"`
	BlockTime      time.Duration `env:"RATE_LIMIT_BLOCK" envDefault:"5m"`
	FetchRetries   int           `env:"FETCH_RETRIES" envDefault:"3" validate:"min=1"`

	// Source URLs
	ChollometroURL   string `env:"CHOLLOMETRO_URL" envDefault:"https://www.chollometro.com/hot?hide_expired=true"`
	PcComponentesURL string `env:"PCCOMPONENTES_URL" envDefault:"https://www.pccomponentes.com/ofertas"`

	// Affiliate programs
	AmazonESTag      string `env:"AMAZON_ES_TAG" envDefault:"ofertasflash-21"`
	AmazonDETag      string `env:"AMAZON_DE_TAG"`
	AmazonFRTag      string `env:"AMAZON_FR_TAG"`
	AmazonITTag      string `env:"AMAZON_IT_TAG"`
	AmazonUKTag      string `env:"AMAZON_UK_TAG"`
	PcComponentesTag string `env:"PCCOMPONENTES_TAG"`
	AwinPublisherID  string `env:"AWIN_PUBLISHER_ID"`

	// Cross-post stream
	RedisAddr            string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB              int    `env:"REDIS_DB" envDefault:"0"`
	RedisStream          string `env:"REDIS_STREAM" envDefault:"deals"`
	RedisStreamCount     int    `env:"REDIS_STREAM_COUNT" envDefault:"1" validate:"min=1"`
	RedisStreamMaxLength int    `env:"REDIS_STREAM_MAXLEN" envDefault:"500" validate:"min=1"`

	// Rate-limit block store
	MemcacheAddr string `env:"MEMCACHE_ADDR" envDefault:"localhost:11211"`

	// Telegram delivery
	TelegramToken     string        `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChannelID string        `env:"TELEGRAM_CHANNEL_ID"`
	MessageDelay      time.Duration `env:"MESSAGE_DELAY" envDefault:"3s"`
	SendRetries       int           `env:"SEND_RETRIES" envDefault:"3" validate:"min=1"`

	// AI copywriting
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
}

// Load reads .env (when present) and the process environment
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return cfg, nil
}

// Validate checks the struct-level constraints
func (c Config) Validate() error {
	return validator.New().Struct(c)
}

// AmazonTags returns the per-marketplace tag map for the link rewriter,
// skipping marketplaces with no tag configured
func (c Config) AmazonTags() map[string]string {
	tags := make(map[string]string)
	for key, tag := range map[string]string{
		"amazon_es": c.AmazonESTag,
		"amazon_de": c.AmazonDETag,
		"amazon_fr": c.AmazonFRTag,
		"amazon_it": c.AmazonITTag,
		"amazon_uk": c.AmazonUKTag,
	} {
		if tag != "" {
			tags[key] = tag
		}
	}
	return tags
}

// ProviderEnabled reports whether a provider key appears in PROVIDERS
func (c Config) ProviderEnabled(key string) bool {
	return slices.Contains(c.Providers, key)
}

// CategoryEnabled reports whether a category tag appears in CATEGORIES
func (c Config) CategoryEnabled(tag string) bool {
	return slices.Contains(c.Categories, tag)
}

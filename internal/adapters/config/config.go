package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"cryptoadvisor/pkg/errors"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	OpenAI        OpenAIConfig
	CoinGecko     CoinGeckoConfig
	NewsAPI       NewsAPIConfig
	Retrieval     RetrievalConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"cryptoadvisor"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
}

type HTTPConfig struct {
	Port int `envconfig:"HTTP_PORT" default:"8080"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"postgres"`
	Password string `envconfig:"POSTGRES_PASSWORD"`
	Database string `envconfig:"POSTGRES_DB" default:"cryptoadvisor"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"10"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type OpenAIConfig struct {
	APIKey          string        `envconfig:"OPENAI_API_KEY" required:"true"`
	ChatModel       string        `envconfig:"OPENAI_CHAT_MODEL" default:"gpt-4o-mini"`
	FunctionModel   string        `envconfig:"OPENAI_FUNCTION_MODEL" default:"gpt-4o"`
	EmbeddingModel  string        `envconfig:"OPENAI_EMBEDDING_MODEL" default:"text-embedding-3-small"`
	RequestTimeout  time.Duration `envconfig:"OPENAI_REQUEST_TIMEOUT" default:"60s"`
	HistoryMaxTurns int           `envconfig:"OPENAI_HISTORY_MAX_TURNS" default:"10"`
}

type CoinGeckoConfig struct {
	BaseURL           string        `envconfig:"COINGECKO_BASE_URL" default:"https://api.coingecko.com/api/v3"`
	PriceTimeout      time.Duration `envconfig:"COINGECKO_PRICE_TIMEOUT" default:"5s"`
	ChartTimeout      time.Duration `envconfig:"COINGECKO_CHART_TIMEOUT" default:"10s"`
	RequestsPerMinute int           `envconfig:"COINGECKO_REQUESTS_PER_MINUTE" default:"30"`
	ChartCacheTTL     time.Duration `envconfig:"COINGECKO_CHART_CACHE_TTL" default:"5m"`
}

type NewsAPIConfig struct {
	APIKey   string        `envconfig:"NEWSAPI_KEY"`
	BaseURL  string        `envconfig:"NEWSAPI_BASE_URL" default:"https://newsapi.org/v2"`
	Timeout  time.Duration `envconfig:"NEWSAPI_TIMEOUT" default:"10s"`
	PageSize int           `envconfig:"NEWSAPI_PAGE_SIZE" default:"5"`
	DaysBack int           `envconfig:"NEWSAPI_DAYS_BACK" default:"3"`
}

type RetrievalConfig struct {
	TopK         int `envconfig:"RETRIEVAL_TOP_K" default:"3"`
	FusionK      int `envconfig:"RETRIEVAL_FUSION_K" default:"60"`
	VariantCount int `envconfig:"RETRIEVAL_VARIANT_COUNT" default:"4"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}

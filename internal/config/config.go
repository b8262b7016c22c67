package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Telegram TelegramConfig `yaml:"telegram"`
	Events   EventsConfig   `yaml:"events"`
	Sources  SourcesConfig  `yaml:"sources"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Currency CurrencyConfig `yaml:"currency"`
	Schedule ScheduleConfig `yaml:"schedule"`
	LogLevel string         `yaml:"log_level"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// EventsConfig configures the optional posted-deal fan-out over AMQP.
// An empty URL disables it.
type EventsConfig struct {
	URL        string `yaml:"url"`
	Exchange   string `yaml:"exchange"`
	RoutingKey string `yaml:"routing_key"`
	QueueName  string `yaml:"queue_name"`
}

type SourcesConfig struct {
	Steam       SteamConfig       `yaml:"steam"`
	EpicFree    EpicFreeConfig    `yaml:"epic_free"`
	EpicSales   EpicSalesConfig   `yaml:"epic_sales"`
	GOG         GOGConfig         `yaml:"gog"`
	SteamSearch SteamSearchConfig `yaml:"steam_search"`
}

type SteamConfig struct {
	BaseURL     string        `yaml:"base_url"`
	Country     string        `yaml:"country"`
	MinDiscount int           `yaml:"min_discount"`
	Timeout     time.Duration `yaml:"timeout"`
	Retry       RetryConfig   `yaml:"retry"`
}

type EpicFreeConfig struct {
	BaseURL string        `yaml:"base_url"`
	Locale  string        `yaml:"locale"`
	Country string        `yaml:"country"`
	Timeout time.Duration `yaml:"timeout"`
}

type EpicSalesConfig struct {
	BaseURL     string        `yaml:"base_url"`
	StoreID     string        `yaml:"store_id"`
	MinDiscount int           `yaml:"min_discount"`
	MinReviews  int           `yaml:"min_reviews"`
	PageSize    int           `yaml:"page_size"`
	Timeout     time.Duration `yaml:"timeout"`
}

type GOGConfig struct {
	BaseURL     string        `yaml:"base_url"`
	MinDiscount int           `yaml:"min_discount"`
	MinReviews  int           `yaml:"min_reviews"`
	Limit       int           `yaml:"limit"`
	Timeout     time.Duration `yaml:"timeout"`
}

// SteamSearchConfig configures the best-effort HTML fallback adapter.
type SteamSearchConfig struct {
	Enabled     bool          `yaml:"enabled"`
	BaseURL     string        `yaml:"base_url"`
	MinDiscount int           `yaml:"min_discount"`
	Timeout     time.Duration `yaml:"timeout"`
}

type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	InitialBackoff time.Duration `yaml:"initial_backoff"`
	MaxBackoff     time.Duration `yaml:"max_backoff"`
}

// RepostTier maps a minimum eligible-pool size to a repost window. Tiers
// are evaluated largest pool first; the last tier should have MinPool 0.
type RepostTier struct {
	MinPool int           `yaml:"min_pool"`
	Window  time.Duration `yaml:"window"`
}

type PipelineConfig struct {
	MinDiscount         int           `yaml:"min_discount"`
	MinReviewScore      int           `yaml:"min_review_score"`
	GiveawayReviewScore int           `yaml:"giveaway_review_score"`
	AttemptBudget       int           `yaml:"attempt_budget"`
	Cooldown            time.Duration `yaml:"cooldown"`
	RepostTiers         []RepostTier  `yaml:"repost_tiers"`
	ExcludeTitles       []string      `yaml:"exclude_titles"`
	RunTimeout          time.Duration `yaml:"run_timeout"`
}

type CurrencyConfig struct {
	BaseURL      string        `yaml:"base_url"`
	FallbackRate float64       `yaml:"fallback_rate"` // USD -> TRY
	Timeout      time.Duration `yaml:"timeout"`
}

type ScheduleConfig struct {
	Interval time.Duration `yaml:"interval"`
}

func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.setDefaults()

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Events.Exchange == "" {
		c.Events.Exchange = "deal_poster"
	}
	if c.Events.RoutingKey == "" {
		c.Events.RoutingKey = "deals.posted"
	}
	if c.Events.QueueName == "" {
		c.Events.QueueName = "posted_deals"
	}

	if c.Sources.Steam.BaseURL == "" {
		c.Sources.Steam.BaseURL = "https://store.steampowered.com"
	}
	if c.Sources.Steam.Country == "" {
		c.Sources.Steam.Country = "us"
	}
	if c.Sources.Steam.MinDiscount == 0 {
		c.Sources.Steam.MinDiscount = 25
	}
	if c.Sources.Steam.Timeout == 0 {
		c.Sources.Steam.Timeout = 30 * time.Second
	}
	if c.Sources.Steam.Retry.MaxAttempts == 0 {
		c.Sources.Steam.Retry.MaxAttempts = 3
	}
	if c.Sources.Steam.Retry.InitialBackoff == 0 {
		c.Sources.Steam.Retry.InitialBackoff = 1 * time.Second
	}
	if c.Sources.Steam.Retry.MaxBackoff == 0 {
		c.Sources.Steam.Retry.MaxBackoff = 30 * time.Second
	}

	if c.Sources.EpicFree.BaseURL == "" {
		c.Sources.EpicFree.BaseURL = "https://store-site-backend-static.epicgames.com"
	}
	if c.Sources.EpicFree.Locale == "" {
		c.Sources.EpicFree.Locale = "en-US"
	}
	if c.Sources.EpicFree.Country == "" {
		c.Sources.EpicFree.Country = "US"
	}
	if c.Sources.EpicFree.Timeout == 0 {
		c.Sources.EpicFree.Timeout = 30 * time.Second
	}

	if c.Sources.EpicSales.BaseURL == "" {
		c.Sources.EpicSales.BaseURL = "https://www.cheapshark.com/api/1.0"
	}
	if c.Sources.EpicSales.StoreID == "" {
		c.Sources.EpicSales.StoreID = "25" // Epic Games Store
	}
	if c.Sources.EpicSales.MinDiscount == 0 {
		c.Sources.EpicSales.MinDiscount = 50
	}
	if c.Sources.EpicSales.MinReviews == 0 {
		c.Sources.EpicSales.MinReviews = 1000
	}
	if c.Sources.EpicSales.PageSize == 0 {
		c.Sources.EpicSales.PageSize = 60
	}
	if c.Sources.EpicSales.Timeout == 0 {
		c.Sources.EpicSales.Timeout = 30 * time.Second
	}

	if c.Sources.GOG.BaseURL == "" {
		c.Sources.GOG.BaseURL = "https://catalog.gog.com"
	}
	if c.Sources.GOG.MinDiscount == 0 {
		c.Sources.GOG.MinDiscount = 25
	}
	if c.Sources.GOG.MinReviews == 0 {
		c.Sources.GOG.MinReviews = 500
	}
	if c.Sources.GOG.Limit == 0 {
		c.Sources.GOG.Limit = 48
	}
	if c.Sources.GOG.Timeout == 0 {
		c.Sources.GOG.Timeout = 30 * time.Second
	}

	if c.Sources.SteamSearch.BaseURL == "" {
		c.Sources.SteamSearch.BaseURL = "https://store.steampowered.com"
	}
	if c.Sources.SteamSearch.MinDiscount == 0 {
		c.Sources.SteamSearch.MinDiscount = 25
	}
	if c.Sources.SteamSearch.Timeout == 0 {
		c.Sources.SteamSearch.Timeout = 30 * time.Second
	}

	if c.Pipeline.MinDiscount == 0 {
		c.Pipeline.MinDiscount = 25
	}
	if c.Pipeline.MinReviewScore == 0 {
		c.Pipeline.MinReviewScore = 70
	}
	if c.Pipeline.GiveawayReviewScore == 0 {
		c.Pipeline.GiveawayReviewScore = 95
	}
	if c.Pipeline.AttemptBudget == 0 {
		c.Pipeline.AttemptBudget = 3
	}
	if c.Pipeline.Cooldown == 0 {
		c.Pipeline.Cooldown = 30 * time.Second
	}
	if len(c.Pipeline.RepostTiers) == 0 {
		c.Pipeline.RepostTiers = []RepostTier{
			{MinPool: 50, Window: 120 * time.Hour},
			{MinPool: 30, Window: 72 * time.Hour},
			{MinPool: 0, Window: 48 * time.Hour},
		}
	}
	if c.Pipeline.RunTimeout == 0 {
		c.Pipeline.RunTimeout = 5 * time.Minute
	}

	if c.Currency.BaseURL == "" {
		c.Currency.BaseURL = "https://open.er-api.com/v6"
	}
	if c.Currency.FallbackRate == 0 {
		c.Currency.FallbackRate = 34.0
	}
	if c.Currency.Timeout == 0 {
		c.Currency.Timeout = 10 * time.Second
	}

	if c.Schedule.Interval == 0 {
		c.Schedule.Interval = 6 * time.Hour
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

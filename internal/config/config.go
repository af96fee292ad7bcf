package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "TRENDS_CONFIG"

// DefaultCategories are the sectors listed on the trends site.
var DefaultCategories = []string{
	"Arts & Culture", "Automotive & Mobility", "Business & Finance", "Consumer Products",
	"E-commerce & Retail", "Education & Learning", "Entertainment", "Fashion & Beauty",
	"Food & Beverage", "Gaming & Virtual Worlds", "Health & Wellness", "Home & Living",
	"Politics & Government", "Real Estate & Housing", "Science & Innovation",
	"Social Media & Influencers", "Sports", "Technology", "Travel & Hospitality",
}

type Config struct {
	DataURL         string `yaml:"dataUrl"`
	DefaultCategory string `yaml:"defaultCategory"`
	PageLength      int    `yaml:"pageLength"`
	ExportTitle     string `yaml:"exportTitle"`
	ListenAddr      string `yaml:"listenAddr"`
	DataDir         string `yaml:"dataDir"`
	FetchTimeoutMs  int    `yaml:"fetchTimeoutMs"`
	LogLevel        string `yaml:"logLevel"`

	Scraper ScraperConfig `yaml:"scraper"`
}

// ScraperConfig drives the trends site scraper and dataset publishing.
type ScraperConfig struct {
	BaseURL      string   `yaml:"baseUrl"`
	Categories   []string `yaml:"categories"`
	MaxPages     int      `yaml:"maxPages"`
	Granularity  string   `yaml:"granularity"`
	Source       string   `yaml:"source"`
	RateLimitRPS int      `yaml:"rateLimitRps"`
	TimeoutMs    int      `yaml:"timeoutMs"`
	UserAgent    string   `yaml:"userAgent"`
	PerCategory  bool     `yaml:"perCategory"`

	S3Bucket string `yaml:"s3Bucket"`
	S3Prefix string `yaml:"s3Prefix"`
	S3Region string `yaml:"s3Region"`
}

// Load reads .env (if present), then the YAML file named by TRENDS_CONFIG,
// then environment overrides.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := strings.TrimSpace(os.Getenv(configPathEnv)); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.DataURL = getEnv("TRENDS_DATA_URL", c.DataURL)
	c.DefaultCategory = getEnv("TRENDS_DEFAULT_CATEGORY", c.DefaultCategory)
	c.PageLength = getEnvInt("TRENDS_PAGE_LENGTH", c.PageLength)
	c.ExportTitle = getEnv("TRENDS_EXPORT_TITLE", c.ExportTitle)
	c.ListenAddr = getEnv("TRENDS_ADDR", c.ListenAddr)
	c.DataDir = getEnv("TRENDS_DATA_DIR", c.DataDir)
	c.FetchTimeoutMs = getEnvInt("TRENDS_FETCH_TIMEOUT_MS", c.FetchTimeoutMs)
	c.LogLevel = getEnv("TRENDS_LOG_LEVEL", c.LogLevel)

	s := &c.Scraper
	s.BaseURL = getEnv("SCRAPER_BASE_URL", s.BaseURL)
	s.MaxPages = getEnvInt("SCRAPER_MAX_PAGES", s.MaxPages)
	s.Granularity = getEnv("SCRAPER_GRANULARITY", s.Granularity)
	s.Source = getEnv("SCRAPER_SOURCE", s.Source)
	s.RateLimitRPS = getEnvInt("SCRAPER_RATE_LIMIT_RPS", s.RateLimitRPS)
	s.TimeoutMs = getEnvInt("SCRAPER_TIMEOUT_MS", s.TimeoutMs)
	s.UserAgent = getEnv("SCRAPER_USER_AGENT", s.UserAgent)
	s.PerCategory = getEnvBool("SCRAPER_PER_CATEGORY", s.PerCategory)
	s.S3Bucket = getEnv("SCRAPER_S3_BUCKET", s.S3Bucket)
	s.S3Prefix = getEnv("SCRAPER_S3_PREFIX", s.S3Prefix)
	s.S3Region = getEnv("SCRAPER_S3_REGION", s.S3Region)
	if v := getEnv("SCRAPER_CATEGORIES", ""); v != "" {
		s.Categories = splitList(v)
	}
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required setting: %s", name)
	}
	return nil
}

func mergeConfig(base, override Config) Config {
	if override.DataURL != "" {
		base.DataURL = override.DataURL
	}
	if override.DefaultCategory != "" {
		base.DefaultCategory = override.DefaultCategory
	}
	if override.PageLength > 0 {
		base.PageLength = override.PageLength
	}
	if override.ExportTitle != "" {
		base.ExportTitle = override.ExportTitle
	}
	if override.ListenAddr != "" {
		base.ListenAddr = override.ListenAddr
	}
	if override.DataDir != "" {
		base.DataDir = override.DataDir
	}
	if override.FetchTimeoutMs > 0 {
		base.FetchTimeoutMs = override.FetchTimeoutMs
	}
	if override.LogLevel != "" {
		base.LogLevel = override.LogLevel
	}

	s, o := &base.Scraper, override.Scraper
	if o.BaseURL != "" {
		s.BaseURL = o.BaseURL
	}
	if len(o.Categories) > 0 {
		s.Categories = o.Categories
	}
	if o.MaxPages > 0 {
		s.MaxPages = o.MaxPages
	}
	if o.Granularity != "" {
		s.Granularity = o.Granularity
	}
	if o.Source != "" {
		s.Source = o.Source
	}
	if o.RateLimitRPS > 0 {
		s.RateLimitRPS = o.RateLimitRPS
	}
	if o.TimeoutMs > 0 {
		s.TimeoutMs = o.TimeoutMs
	}
	if o.UserAgent != "" {
		s.UserAgent = o.UserAgent
	}
	if o.PerCategory {
		s.PerCategory = true
	}
	if o.S3Bucket != "" {
		s.S3Bucket = o.S3Bucket
	}
	if o.S3Prefix != "" {
		s.S3Prefix = o.S3Prefix
	}
	if o.S3Region != "" {
		s.S3Region = o.S3Region
	}

	return base
}

func defaultConfig() Config {
	return Config{
		DataURL:     "data/tickertrends_daily_20251029_233830.json",
		PageLength:  25,
		ExportTitle: "tiktok_viral_keywords",
		ListenAddr:  ":8080",
		DataDir:     "data",
		LogLevel:    "info",
		Scraper: ScraperConfig{
			BaseURL:      "https://tickertrends.io/exploding-trends",
			Categories:   append([]string(nil), DefaultCategories...),
			MaxPages:     11,
			Granularity:  "Daily",
			Source:       "Tiktok",
			RateLimitRPS: 2,
			TimeoutMs:    30000,
			UserAgent:    "trendsview-scraper/1.0",
			S3Prefix:     "data/",
			S3Region:     "eu-north-1",
		},
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string
	NATSURL     string
	CacheTTL    time.Duration
	AbandonTTL  time.Duration
	CORSOrigins []string
	SiteBaseURL string
	SitemapOut  string
	Partner     PartnerConfig
	Gemini      GeminiConfig
}

type PartnerConfig struct {
	ProxyURL    string
	FunctionURL string
	FunctionKey string
	APIKey      string
	SiteID      string
	CityID      int
	Currency    string
	Language    string
	MaxResults  int
	RPS         int
}

// Enabled reports whether at least one partner path has what it needs.
func (p PartnerConfig) Enabled() bool {
	return (p.ProxyURL != "" && p.APIKey != "") || (p.FunctionURL != "" && p.FunctionKey != "")
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// Load reads the environment, after merging a .env file when one exists.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env could not be parsed")
	}

	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/sifnos?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		NATSURL:     env("NATS_URL", ""),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		AbandonTTL:  time.Duration(atoi("ABANDON_AFTER_SECONDS", 120)) * time.Second,
		CORSOrigins: list(env("CORS_ORIGINS", "http://localhost:5173")),
		SiteBaseURL: strings.TrimRight(env("SITE_BASE_URL", "https://www.sifnoshotels.com"), "/"),
		SitemapOut:  env("SITEMAP_OUT", "sitemap.xml"),
		Partner: PartnerConfig{
			ProxyURL:    env("PARTNER_PROXY_URL", ""),
			FunctionURL: env("PARTNER_FUNCTION_URL", ""),
			FunctionKey: env("PARTNER_FUNCTION_KEY", ""),
			APIKey:      env("PARTNER_API_KEY", ""),
			SiteID:      env("PARTNER_SITE_ID", ""),
			CityID:      atoi("PARTNER_CITY_ID", 17246),
			Currency:    env("PARTNER_CURRENCY", "EUR"),
			Language:    env("PARTNER_LANGUAGE", "en-us"),
			MaxResults:  atoi("PARTNER_MAX_RESULTS", 30),
			RPS:         atoi("PARTNER_RPS", 5),
		},
		Gemini: GeminiConfig{
			APIKey: env("GEMINI_API_KEY", ""),
			Model:  env("GEMINI_MODEL", "gemini-1.5-flash"),
		},
	}
	if !c.Partner.Enabled() {
		log.Warn().Msg("partner credentials are empty; partner search disabled")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func list(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

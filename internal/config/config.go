package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the forum API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	RedisURL            string
	NATSURL             string
	JWTSecret           string
	EventChannelBase    string
	CompanyCacheTTL     time.Duration
	SSEKeepAlive        time.Duration
	LikeRateLimitMax    int
	LikeRateLimitWindow time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("FORUM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Placement Forum API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("event.channel_base", "forum")
	v.SetDefault("company.cache_ttl", "5m")
	v.SetDefault("sse.keepalive", "30s")
	v.SetDefault("like.rate_limit_max", 30)
	v.SetDefault("like.rate_limit_window", "1m")

	cacheTTL, err := parseDuration(v.GetString("company.cache_ttl"), "company cache ttl")
	if err != nil {
		return Config{}, err
	}

	keepAlive, err := parseDuration(v.GetString("sse.keepalive"), "sse keepalive")
	if err != nil {
		return Config{}, err
	}

	rateWindow, err := parseDuration(v.GetString("like.rate_limit_window"), "like rate limit window")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		RedisURL:            v.GetString("redis.url"),
		NATSURL:             v.GetString("nats.url"),
		JWTSecret:           v.GetString("jwt.secret"),
		EventChannelBase:    v.GetString("event.channel_base"),
		CompanyCacheTTL:     cacheTTL,
		SSEKeepAlive:        keepAlive,
		LikeRateLimitMax:    v.GetInt("like.rate_limit_max"),
		LikeRateLimitWindow: rateWindow,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.LikeRateLimitMax <= 0 {
		cfg.LikeRateLimitMax = 30
	}

	return cfg, nil
}

func parseDuration(value, label string) (time.Duration, error) {
	if value == "" {
		return 0, fmt.Errorf("invalid %s: empty", label)
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", label, err)
	}

	return parsed, nil
}

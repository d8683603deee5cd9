package config

import "time"

type HTTP struct {
	Address   string    `env:"ADDRESS" envDefault:":3002"`
	BaseURL   string    `env:"BASE_URL" envDefault:""`
	RateLimit RateLimit `envPrefix:"RATELIMIT_"`
}

type RateLimit struct {
	Enabled   bool          `env:"ENABLED" envDefault:"true"`
	Interval  time.Duration `env:"INTERVAL" envDefault:"100ms"`
	MaxBurst  int           `env:"MAX_BURST" envDefault:"25"`
	CacheSize int           `env:"CACHE_SIZE" envDefault:"1024"`
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"10m"`
}

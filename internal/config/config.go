package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// DefaultAPIPassword is the shared secret used when API_PASSWORD is unset.
// It is public knowledge and only acceptable on a trusted network.
const DefaultAPIPassword = "dtek2025"

type Config struct {
	Port         string `envconfig:"PORT" default:"5000" validate:"required,numeric"`
	APIPassword  string `envconfig:"API_PASSWORD" default:"dtek2025" validate:"required"`
	SourceURL    string `envconfig:"SOURCE_URL" default:"https://www.dtek-dnem.com.ua/ua/shutdowns" validate:"required,url"`
	DefaultQueue string `envconfig:"DEFAULT_QUEUE" default:"GPV3.1" validate:"required"`

	CacheTTL     time.Duration `envconfig:"CACHE_TTL" default:"300s" validate:"gt=0"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"2s" validate:"gt=0"`
	PollTimeout  time.Duration `envconfig:"POLL_TIMEOUT" default:"30s" validate:"gt=0"`
	// FetchTimeout bounds a whole scrape including browser start.
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"90s" validate:"gt=0"`

	// ChromeWSURL attaches to a running browser instead of launching ChromePath.
	ChromePath     string `envconfig:"CHROME_PATH"`
	ChromeWSURL    string `envconfig:"CHROME_WS_URL" validate:"omitempty,url"`
	ChromeHeadless bool   `envconfig:"CHROME_HEADLESS" default:"true"`
	UserAgent      string `envconfig:"USER_AGENT"`

	// RedisURL and WarmCron are optional. FetchBreakerThreshold is the number
	// of consecutive failures before fetches are suppressed; 0 disables it.
	RedisURL              string `envconfig:"REDIS_URL" validate:"omitempty,url"`
	WarmCron              string `envconfig:"WARM_CRON"`
	ServeStale            bool   `envconfig:"SERVE_STALE" default:"false"`
	FetchBreakerThreshold uint32 `envconfig:"FETCH_BREAKER_THRESHOLD" default:"0"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn error"`
	LogPretty bool   `envconfig:"LOG_PRETTY" default:"false"`
}

// Load reads the configuration from the environment and validates it.
// Callers load .env files beforehand.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// InsecurePassword reports whether the built-in default secret is in use.
func (c *Config) InsecurePassword() bool {
	return c.APIPassword == DefaultAPIPassword
}

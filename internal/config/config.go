package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	DatabaseURL   string        `env:"DATABASE_URL,required"`
	RedisURL      string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	NATSURL       string        `env:"NATS_URL"`
	NATSPrefix    string        `env:"NATS_SUBJECT_PREFIX" envDefault:"shop"`
	SessionSecret string        `env:"SESSION_SECRET,required,notEmpty"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	PublicBaseURL string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	Port          int           `env:"PORT" envDefault:"8080"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv        string        `env:"APP_ENV" envDefault:"production"`

	Dotpay Dotpay `envPrefix:"DOTPAY_"`

	// SettleDelay is the pause between writing the audit note and re-reading
	// the order notes for the duplicate tally.
	SettleDelay time.Duration `env:"SETTLE_DELAY" envDefault:"500ms"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

type Dotpay struct {
	SellerID    string   `env:"SELLER_ID,required,notEmpty"`
	PIN         string   `env:"PIN,required,notEmpty"`
	APIUsername string   `env:"API_USERNAME"`
	APIPassword string   `env:"API_PASSWORD"`
	TestMode    bool     `env:"TEST_MODE" envDefault:"false"`
	ProxyBypass bool     `env:"PROXY_BYPASS" envDefault:"false"`
	IPAllowList []string `env:"IP_ALLOWLIST" envSeparator:","`
	OfficeIP    string   `env:"OFFICE_IP" envDefault:"77.79.195.34"`
	Lang        string   `env:"LANG" envDefault:"pl"`
	ShopName    string   `env:"SHOP_NAME" envDefault:"Shop"`
	ShopDomain  string   `env:"SHOP_DOMAIN" envDefault:"localhost"`
	APIVersion  string   `env:"API_VERSION" envDefault:"dev"`
	// BaseURL and APIBaseURL override the production/test endpoints, mostly for the mock provider.
	BaseURL    string        `env:"BASE_URL"`
	APIBaseURL string        `env:"API_BASE_URL"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"5s"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

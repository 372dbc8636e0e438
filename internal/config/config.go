package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	appenv "github.com/garrettladley/passbridge/internal/env"
)

const DefaultSmartPassesBaseURL = "https://pass.smartpasses.io/api/v1/loyalty"

type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
	DriverMemory   Driver = "memory"
)

type Config struct {
	Port        string             `env:"PORT" envDefault:"8080"`
	Env         appenv.Environment `env:"ENV" envDefault:"production"`
	Database    Database           `envPrefix:"DATABASE_"`
	Redis       Redis              `envPrefix:"REDIS_"`
	RateLimit   RateLimit          `envPrefix:"RATE_LIMIT_"`
	SmartPasses SmartPasses        `envPrefix:"SMARTPASSES_"`
	GHL         GHL                `envPrefix:"GHL_"`
	Tracing     Tracing            `envPrefix:"TRACING_"`
}

type Database struct {
	Driver Driver `env:"DRIVER" envDefault:"postgres"`
	URL    string `env:"URL"`
}

type Redis struct {
	// URL is optional; an in-process limiter is used when empty.
	URL string `env:"URL"`
}

type RateLimit struct {
	PerSecond float64 `env:"PER_SECOND" envDefault:"20"`
	Burst     int     `env:"BURST" envDefault:"40"`
	// TrustProxy keys the limiter on the hop a reverse proxy appends to
	// X-Forwarded-For. Leave off unless such a proxy fronts every request.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`
}

type SmartPasses struct {
	BaseURL string `env:"BASE_URL" envDefault:"https://pass.smartpasses.io/api/v1/loyalty"`
	// Timeout of zero keeps http.Client's default of no deadline.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"0s"`
}

type GHL struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
	TokenURL     string `env:"TOKEN_URL" envDefault:"https://services.leadconnectorhq.com/oauth/token"`
	AuthURL      string `env:"AUTH_URL" envDefault:"https://marketplace.gohighlevel.com/oauth/chooselocation"`
	// SharedSecret keys webhook signatures. Left empty, every webhook is
	// rejected with 400 rather than failing startup.
	SharedSecret string `env:"SHARED_SECRET"`
}

type Tracing struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`
}

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres and sqlite drivers")
	ErrMemoryInProduction = errors.New("the memory credential store is not allowed when ENV=production")
	ErrInvalidRateLimit   = errors.New("RATE_LIMIT_PER_SECOND and RATE_LIMIT_BURST must be positive")
)

func Read() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
		if c.Database.URL == "" {
			return ErrMissingDatabaseURL
		}
	case DriverMemory:
		if c.Env.IsProduction() {
			return ErrMemoryInProduction
		}
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q (valid: postgres, sqlite, memory)", c.Database.Driver)
	}
	if c.RateLimit.PerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return ErrInvalidRateLimit
	}
	return nil
}

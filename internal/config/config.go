package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// configFileEnv points at an optional YAML file loaded before environment overrides.
const configFileEnv = "CONFIG_FILE"

type Config struct {
	App struct {
		Name     string `envconfig:"APP_NAME" yaml:"name"`
		Port     int    `envconfig:"PORT" yaml:"port"`
		LogLevel string `envconfig:"LOG_LEVEL" yaml:"log_level"`
	} `yaml:"app"`

	DB struct {
		Host     string `envconfig:"DB_HOST" yaml:"host"`
		Port     int    `envconfig:"DB_PORT" yaml:"port"`
		User     string `envconfig:"DB_USER" yaml:"user"`
		Password string `envconfig:"DB_PASSWORD" yaml:"password"`
		Name     string `envconfig:"DB_NAME" yaml:"name"`
	} `yaml:"db"`

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" yaml:"timeout"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" yaml:"allowed_origins"`
	} `yaml:"server"`

	Auth struct {
		JWTSecret   string `envconfig:"JWT_SECRET" yaml:"jwt_secret"`
		AdminUserID int64  `envconfig:"ADMIN_USER_ID" yaml:"admin_user_id"`
	} `yaml:"auth"`

	Redis struct {
		Addr           string `envconfig:"REDIS_ADDR" yaml:"addr"`
		Password       string `envconfig:"REDIS_PASSWORD" yaml:"password"`
		RequestsPerMin int    `envconfig:"RATE_LIMIT_PER_MINUTE" yaml:"requests_per_minute"`
	} `yaml:"redis"`

	NATS struct {
		URL           string `envconfig:"NATS_URL" yaml:"url"`
		SubjectPrefix string `envconfig:"NATS_SUBJECT_PREFIX" yaml:"subject_prefix"`
	} `yaml:"nats"`

	Offer struct {
		ExpiryInterval time.Duration `envconfig:"OFFER_EXPIRY_INTERVAL" yaml:"expiry_interval"`
	} `yaml:"offer"`

	Ledger struct {
		AllowNegativeBalance bool `envconfig:"LEDGER_ALLOW_NEGATIVE_BALANCE" yaml:"allow_negative_balance"`
	} `yaml:"ledger"`
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Load applies, in order of increasing precedence, built-in defaults, the
// optional YAML file named by CONFIG_FILE and environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv(configFileEnv); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return cfg, nil
}

// defaults lives in code rather than in envconfig tags so that values from
// the YAML file are not overwritten by tag defaults.
func defaults() *Config {
	var cfg Config

	cfg.App.Name = "kwhmarket"
	cfg.App.Port = 8080
	cfg.App.LogLevel = "info"
	cfg.DB.Host = "localhost"
	cfg.DB.Port = 5432
	cfg.DB.User = "postgres"
	cfg.DB.Name = "kwhmarket"
	cfg.Server.Timeout = 30 * time.Second
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Redis.RequestsPerMin = 30
	cfg.NATS.SubjectPrefix = "kwhmarket.notify"
	cfg.Offer.ExpiryInterval = 15 * time.Minute

	return &cfg
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("decoding config file: %w", err)
	}

	return nil
}

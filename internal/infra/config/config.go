package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	LLM     LLMConfig     `yaml:"llm"`
	Rates   RatesConfig   `yaml:"rates"`
	Transit TransitConfig `yaml:"transit"`
	Receipt ReceiptConfig `yaml:"receipt"`
	Store   StoreConfig   `yaml:"store"`
	Photos  PhotosConfig  `yaml:"photos"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LLMConfig contains Gemini settings shared by transit and receipt calls.
type LLMConfig struct {
	APIKey      string  `yaml:"apiKey"`
	BaseURL     string  `yaml:"baseUrl"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

// RatesConfig controls the JPY->TWD exchange rate fetch.
type RatesConfig struct {
	APIBaseURL  string  `yaml:"apiBaseUrl"`
	DefaultRate float64 `yaml:"defaultRate"`
}

// TransitConfig drives the transit suggestion scheduler.
type TransitConfig struct {
	BaseDelay   time.Duration `yaml:"baseDelay"`
	StaggerStep time.Duration `yaml:"staggerStep"`
	QueueSize   int           `yaml:"queueSize"`
}

// ReceiptConfig bounds receipt scan uploads.
type ReceiptConfig struct {
	MaxImageBytes int64 `yaml:"maxImageBytes"`
}

// StoreConfig selects the trip data backend.
type StoreConfig struct {
	Backend  string         `yaml:"backend"` // badger | valkey | postgres | memory
	Badger   BadgerConfig   `yaml:"badger"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// BadgerConfig locates the embedded database directory.
type BadgerConfig struct {
	Path string `yaml:"path"`
}

// ValkeyConfig contains connection information for a Valkey backend.
type ValkeyConfig struct {
	Addr string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// PhotosConfig contains S3-compatible object storage settings.
type PhotosConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("GEMINI_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("GEMINI_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("RATES_API_BASE_URL"); v != "" {
		cfg.Rates.APIBaseURL = v
	}
	if v := os.Getenv("RATES_DEFAULT"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Rates.DefaultRate = parsed
		}
	}
	if v := os.Getenv("TRANSIT_BASE_DELAY"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Transit.BaseDelay = parsed
		}
	}
	if v := os.Getenv("TRANSIT_STAGGER_STEP"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Transit.StaggerStep = parsed
		}
	}
	if v := os.Getenv("TRANSIT_QUEUE_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Transit.QueueSize = parsed
		}
	}
	if v := os.Getenv("RECEIPT_MAX_IMAGE_BYTES"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Receipt.MaxImageBytes = parsed
		}
	}
	if v := os.Getenv("STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("STORE_BADGER_PATH"); v != "" {
		cfg.Store.Badger.Path = v
	}
	if v := os.Getenv("STORE_VALKEY_ADDR"); v != "" {
		cfg.Store.Valkey.Addr = v
	}
	if v := os.Getenv("STORE_POSTGRES_DSN"); v != "" {
		cfg.Store.Postgres.DSN = v
	}
	if v := os.Getenv("STORE_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Store.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("STORE_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Store.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("PHOTOS_ENABLED"); v != "" {
		cfg.Photos.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("PHOTOS_ENDPOINT"); v != "" {
		cfg.Photos.Endpoint = v
	}
	if v := os.Getenv("PHOTOS_ACCESS_KEY"); v != "" {
		cfg.Photos.AccessKey = v
	}
	if v := os.Getenv("PHOTOS_SECRET_KEY"); v != "" {
		cfg.Photos.SecretKey = v
	}
	if v := os.Getenv("PHOTOS_BUCKET"); v != "" {
		cfg.Photos.Bucket = v
	}
	if v := os.Getenv("PHOTOS_REGION"); v != "" {
		cfg.Photos.Region = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		LLM: LLMConfig{
			BaseURL:     "https://generativelanguage.googleapis.com/v1beta",
			Model:       "gemini-2.0-flash",
			Temperature: 0.2,
		},
		Rates: RatesConfig{
			APIBaseURL:  "https://api.exchangerate-api.com/v4/latest",
			DefaultRate: 0.205,
		},
		Transit: TransitConfig{
			BaseDelay:   time.Second,
			StaggerStep: 200 * time.Millisecond,
			QueueSize:   16,
		},
		Receipt: ReceiptConfig{
			MaxImageBytes: 8 << 20,
		},
		Store: StoreConfig{
			Backend: "badger",
			Badger: BadgerConfig{
				Path: "data/tripdb",
			},
			Postgres: PostgresConfig{
				MaxConns: 4,
				MinConns: 0,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.Rates.APIBaseURL == "" {
		return errors.New("rates.apiBaseUrl cannot be empty")
	}
	if c.Rates.DefaultRate <= 0 {
		return errors.New("rates.defaultRate must be positive")
	}
	if c.Transit.BaseDelay < 0 {
		return errors.New("transit.baseDelay cannot be negative")
	}
	if c.Transit.StaggerStep < 0 {
		return errors.New("transit.staggerStep cannot be negative")
	}
	if c.Transit.QueueSize <= 0 {
		return errors.New("transit.queueSize must be positive")
	}
	if c.Receipt.MaxImageBytes <= 0 {
		return errors.New("receipt.maxImageBytes must be positive")
	}
	switch c.Store.Backend {
	case "badger", "valkey", "postgres", "memory":
	default:
		return fmt.Errorf("store.backend %q is not supported", c.Store.Backend)
	}
	if c.Store.Backend == "badger" && strings.TrimSpace(c.Store.Badger.Path) == "" {
		return errors.New("store.badger.path cannot be empty when badger backend is selected")
	}
	if c.Store.Backend == "valkey" && strings.TrimSpace(c.Store.Valkey.Addr) == "" {
		return errors.New("store.valkey.addr cannot be empty when valkey backend is selected")
	}
	if c.Store.Backend == "postgres" && strings.TrimSpace(c.Store.Postgres.DSN) == "" {
		return errors.New("store.postgres.dsn cannot be empty when postgres backend is selected")
	}
	if c.Photos.Enabled {
		if strings.TrimSpace(c.Photos.Endpoint) == "" {
			return errors.New("photos.endpoint cannot be empty when photo storage is enabled")
		}
		if strings.TrimSpace(c.Photos.Bucket) == "" {
			return errors.New("photos.bucket cannot be empty when photo storage is enabled")
		}
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"StrategyScout/internal/strategy"
)

// Config holds all application configuration.
type Config struct {
	Symbols       []string        `yaml:"symbols" default:"[\"AAPL\",\"MSFT\",\"AMZN\",\"GOOGL\",\"TSLA\"]" validate:"min=1,dive,required"`
	TimeframeDays int             `yaml:"timeframe_days" default:"30" validate:"gte=1"`
	Strategy      strategy.Params `yaml:"strategy"`
	DataSource    struct {
		Provider       string        `yaml:"provider" default:"yahoo" validate:"oneof=yahoo alpaca mock"`
		Proxy          string        `yaml:"proxy"`
		Timeout        time.Duration `yaml:"timeout" default:"30s"`
		RequestsPerSec int           `yaml:"requests_per_sec" default:"2" validate:"gte=1"`
		MaxRetryTime   time.Duration `yaml:"max_retry_time" default:"30s"`
	} `yaml:"data_source"`
	Alpaca struct {
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
		BaseURL   string `yaml:"base_url" default:"https://paper-api.alpaca.markets"`
		DataURL   string `yaml:"data_url"`
	} `yaml:"alpaca"`
	Trading struct {
		Enabled  bool    `yaml:"enabled"`
		Quantity float64 `yaml:"quantity" default:"10" validate:"gt=0"`
	} `yaml:"trading"`
	Output struct {
		DataDir     string `yaml:"data_dir" default:"data"`
		ResultsFile string `yaml:"results_file" default:"results.json"`
	} `yaml:"output"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Cache struct {
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
		Prefix        string        `yaml:"prefix" default:"scout"`
		TTL           time.Duration `yaml:"ttl" default:"6h"`
	} `yaml:"cache"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		Cron string `yaml:"cron" default:"0 30 22 * * 1-5"`
	} `yaml:"schedule"`
	Server struct {
		Addr string `yaml:"addr" default:":8080"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
	} `yaml:"log"`
}

var validate = validator.New()

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// A missing .env is fine.
	_ = godotenv.Load()

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("STOCKS"); v != "" {
		cfg.Symbols = ParseSymbols(v)
	}
	if v := os.Getenv("TIMEFRAME"); v != "" {
		days, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TIMEFRAME: %w", err)
		}
		cfg.TimeframeDays = days
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.DataSource.Proxy = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("ALPACA_BASE_URL"); v != "" {
		cfg.Alpaca.BaseURL = v
	}
	if v := os.Getenv("TRADING_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TRADING_ENABLED: %w", err)
		}
		cfg.Trading.Enabled = enabled
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Cache.RedisPassword = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// ParseSymbols splits a comma-separated list, trimming blanks and
// upper-casing tickers. The result is never nil, so a blank list stays
// empty instead of falling back to the default symbols.
func ParseSymbols(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToUpper(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return errors.New("symbols: at least one symbol is required")
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := c.Strategy.Validate(); err != nil {
		return err
	}
	if c.DataSource.Provider == "alpaca" && (c.Alpaca.APIKey == "" || c.Alpaca.APISecret == "") {
		return errors.New("alpaca provider requires alpaca.api_key and alpaca.api_secret")
	}
	if c.Trading.Enabled && (c.Alpaca.APIKey == "" || c.Alpaca.APISecret == "") {
		return errors.New("trading requires alpaca.api_key and alpaca.api_secret")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return errors.New("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

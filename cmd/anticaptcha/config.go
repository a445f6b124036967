package main

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the command line configuration. Values come from flags, then
// ANTICAPTCHA_* environment variables, then anticaptcha.yaml, then defaults.
type Config struct {
	Key         string
	BaseURL     string
	Proxy       string
	Language    string
	Retries     int
	Interval    time.Duration
	Timeout     time.Duration
	LogLevel    string
	LogFormat   string
	MetricsAddr string
	Debug       bool
}

func commonFlags(fs *pflag.FlagSet) {
	fs.String("key", "", "anti-captcha client key")
	fs.String("baseurl", "", "API root URL")
	fs.String("proxy", "", "proxy URL for API traffic")
	fs.String("language", "", "worker language pool (en, rn)")
	fs.Int("retries", 0, "result queries after the first")
	fs.Duration("interval", 0, "wait before each result query")
	fs.Duration("timeout", 0, "per-request timeout")
	fs.String("loglevel", "", "log level (debug, info, warn, error)")
	fs.String("logformat", "", "log format (text, json)")
	fs.String("metricsaddr", "", "serve Prometheus metrics on this address while running")
	fs.Bool("debug", false, "log task lifecycle at info level")
}

func loadConfig(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigName("anticaptcha")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/anticaptcha")

	setDefaults(v)

	v.SetEnvPrefix("ANTICAPTCHA")
	v.AutomaticEnv()

	if err := v.BindPFlags(changedFlags(fs)); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Key == "" {
		return nil, errors.New("client key is required (--key or ANTICAPTCHA_KEY)")
	}
	return &cfg, nil
}

// changedFlags returns only the flags set on the command line, so unset
// flags do not shadow environment and file values.
func changedFlags(fs *pflag.FlagSet) *pflag.FlagSet {
	out := pflag.NewFlagSet(fs.Name(), pflag.ContinueOnError)
	fs.Visit(func(f *pflag.Flag) {
		out.AddFlag(f)
	})
	return out
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("key", "")
	v.SetDefault("baseurl", "https://api.anti-captcha.com")
	v.SetDefault("proxy", "")
	v.SetDefault("language", "en")
	v.SetDefault("retries", 12)
	v.SetDefault("interval", 10*time.Second)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("loglevel", "info")
	v.SetDefault("logformat", "text")
	v.SetDefault("metricsaddr", "")
	v.SetDefault("debug", false)
}

func setupLogger(cfg *Config) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h))
}

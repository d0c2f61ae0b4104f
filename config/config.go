// Package config loads the settings of the vth tool.
//
// Settings come, by increasing priority, from defaults, an optional
// valutatrade.yaml file, a .env file and VALUTATRADE_ environment variables:
// VALUTATRADE_DATA_DIR, VALUTATRADE_RATES_TTL_SECONDS, and so on.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/etnz/valutatrade"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "VALUTATRADE"

// Rate source names, in their default order.
const (
	SourceExchangeRateHost = "exchangerate.host"
	SourceOpenER           = "open.er-api.com"
	SourceStub             = "stub"
)

// Settings is the effective configuration. It is passed explicitly to the
// components that need it.
type Settings struct {
	DataDir               string   `mapstructure:"data_dir"`
	RatesTTLSeconds       int      `mapstructure:"rates_ttl_seconds"`
	DefaultBaseCurrency   string   `mapstructure:"default_base_currency"`
	LogFile               string   `mapstructure:"log_file"`
	LogLevel              string   `mapstructure:"log_level"`
	RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds"`
	BackupDir             string   `mapstructure:"backup_dir"`
	BackupKeep            int      `mapstructure:"backup_keep"`
	ExchangeRateAPIKey    string   `mapstructure:"exchangerate_api_key"`
	ExchangeRateURL       string   `mapstructure:"exchangerate_url"`
	OpenERURL             string   `mapstructure:"opener_url"`
	Sources               []string `mapstructure:"sources"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("rates_ttl_seconds", 300)
	v.SetDefault("default_base_currency", valutatrade.DefaultBase)
	v.SetDefault("log_file", "logs/valutatrade.log")
	v.SetDefault("log_level", "info")
	v.SetDefault("request_timeout_seconds", 10)
	v.SetDefault("backup_dir", "")
	v.SetDefault("backup_keep", 10)
	v.SetDefault("exchangerate_api_key", "")
	v.SetDefault("exchangerate_url", "https://api.exchangerate.host/latest")
	v.SetDefault("opener_url", "https://open.er-api.com")
	v.SetDefault("sources", []string{SourceExchangeRateHost, SourceOpenER, SourceStub})
}

// Load reads the settings. An empty path looks for valutatrade.yaml in the
// working directory; a missing file is not an error unless path was explicit.
func Load(path string) (*Settings, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("valutatrade")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks and normalizes the settings.
func (s *Settings) Validate() error {
	if s.DataDir == "" {
		return fmt.Errorf("%w: data_dir must not be empty", valutatrade.ErrInvalidInput)
	}
	if s.RatesTTLSeconds <= 0 {
		return fmt.Errorf("%w: rates_ttl_seconds must be positive, got %d", valutatrade.ErrInvalidInput, s.RatesTTLSeconds)
	}
	if s.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("%w: request_timeout_seconds must be positive, got %d", valutatrade.ErrInvalidInput, s.RequestTimeoutSeconds)
	}
	code, err := valutatrade.NormalizeCode(s.DefaultBaseCurrency)
	if err != nil {
		return fmt.Errorf("default_base_currency: %w", err)
	}
	s.DefaultBaseCurrency = code

	// env variables give a single comma separated value
	var sources []string
	for _, src := range s.Sources {
		for _, name := range strings.Split(src, ",") {
			if name = strings.TrimSpace(name); name != "" {
				sources = append(sources, name)
			}
		}
	}
	known := []string{SourceExchangeRateHost, SourceOpenER, SourceStub}
	for _, name := range sources {
		if !slices.Contains(known, name) {
			return fmt.Errorf("%w: unknown rate source %q, want one of %s", valutatrade.ErrInvalidInput, name, strings.Join(known, ", "))
		}
	}
	if len(sources) == 0 {
		return fmt.Errorf("%w: at least one rate source is required", valutatrade.ErrInvalidInput)
	}
	s.Sources = sources
	return nil
}

// RatesTTL returns the maximum age of the rate cache.
func (s *Settings) RatesTTL() time.Duration {
	return time.Duration(s.RatesTTLSeconds) * time.Second
}

// RequestTimeout bounds one rate source fetch.
func (s *Settings) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// Entries returns the settings as ordered key/value pairs, with secrets masked.
func (s *Settings) Entries() [][2]string {
	key := s.ExchangeRateAPIKey
	if key != "" {
		key = "****"
	}
	return [][2]string{
		{"data_dir", s.DataDir},
		{"rates_ttl_seconds", fmt.Sprint(s.RatesTTLSeconds)},
		{"default_base_currency", s.DefaultBaseCurrency},
		{"log_file", s.LogFile},
		{"log_level", s.LogLevel},
		{"request_timeout_seconds", fmt.Sprint(s.RequestTimeoutSeconds)},
		{"backup_dir", s.BackupDir},
		{"backup_keep", fmt.Sprint(s.BackupKeep)},
		{"exchangerate_api_key", key},
		{"exchangerate_url", s.ExchangeRateURL},
		{"opener_url", s.OpenERURL},
		{"sources", strings.Join(s.Sources, ",")},
	}
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config assembles the application configuration from, in rising
// precedence: built-in defaults, the .secrets/ directory, an optional YAML
// config file, a .env file, and the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pdiddy/crossref-search/pkg/types"
)

// Keys, matching the environment variable names once upper-cased.
const (
	KeyUserAgent         = "app_user_agent"
	KeyMailto            = "app_mailto"
	KeyTimeout           = "crossref_timeout"
	KeyMaxRetries        = "max_retries"
	KeyPort              = "port"
	KeyLogLevel          = "log_level"
	KeyLogFile           = "log_file"
	KeyRateLimitSearches = "rate_limit_searches"
	KeyRateLimitExports  = "rate_limit_exports"
	KeyBibTeXConcurrency = "bibtex_concurrency"
)

// MailtoSecret is the .secrets/ file consulted when APP_MAILTO is unset.
const MailtoSecret = "crossref-mailto"

// ErrMissingMailto is returned by RequireMailto when no contact address is
// configured.
var ErrMissingMailto = errors.New("APP_MAILTO is not set: Crossref polite pool access needs a contact address (set APP_MAILTO or write it to .secrets/crossref-mailto)")

// Options locates the optional configuration sources. Empty fields use the
// defaults shown.
type Options struct {
	// ConfigFile is an explicit YAML file. When empty, crossref-search.yaml
	// is searched for in the working directory and ~/.config/crossref-search/.
	ConfigFile string

	// EnvFile is loaded into the environment if present (default ".env").
	EnvFile string

	// SecretsDir holds one-file-per-secret credentials (default ".secrets/").
	SecretsDir string
}

// SetDefaults registers the built-in default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyUserAgent, "CrossrefSearch/1.0")
	v.SetDefault(KeyMailto, "")
	v.SetDefault(KeyTimeout, "30s")
	v.SetDefault(KeyMaxRetries, 3)
	v.SetDefault(KeyPort, 8000)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyRateLimitSearches, "10/minute")
	v.SetDefault(KeyRateLimitExports, "5/minute")
	v.SetDefault(KeyBibTeXConcurrency, 1)
}

// Load reads every source into v and returns the resolved Config. It does
// not require a contact address; callers that reach Crossref use
// RequireMailto.
func Load(v *viper.Viper, opts Options) (types.Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return types.Config{}, fmt.Errorf("loading %s: %w", envFile, err)
	}

	SetDefaults(v)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("crossref-search")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "crossref-search"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	secretsDir := opts.SecretsDir
	if secretsDir == "" {
		secretsDir = ".secrets/"
	}
	secrets, err := LoadSecrets(secretsDir)
	if err != nil {
		return types.Config{}, err
	}

	return resolve(v, secrets)
}

func resolve(v *viper.Viper, secrets map[string]string) (types.Config, error) {
	timeout, err := ParseTimeout(v.GetString(KeyTimeout))
	if err != nil {
		return types.Config{}, err
	}

	mailto := strings.TrimSpace(v.GetString(KeyMailto))
	if mailto == "" {
		mailto = secrets[MailtoSecret]
	}

	cfg := types.Config{
		HTTP: types.HTTPConfig{
			Timeout:    timeout,
			UserAgent:  v.GetString(KeyUserAgent),
			Mailto:     mailto,
			MaxRetries: v.GetInt(KeyMaxRetries),
		},
		Server: types.ServerConfig{
			Port:              v.GetInt(KeyPort),
			RateLimitSearches: v.GetString(KeyRateLimitSearches),
			RateLimitExports:  v.GetString(KeyRateLimitExports),
		},
		Logging: types.LoggingConfig{
			Level: v.GetString(KeyLogLevel),
			File:  v.GetString(KeyLogFile),
		},
		Export: types.ExportConfig{
			BibTeXConcurrency: v.GetInt(KeyBibTeXConcurrency),
		},
	}
	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and formats that would otherwise fail late.
func Validate(cfg types.Config) error {
	if cfg.HTTP.UserAgent == "" {
		return fmt.Errorf("%s must not be empty", strings.ToUpper(KeyUserAgent))
	}
	if cfg.HTTP.MaxRetries < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", strings.ToUpper(KeyMaxRetries), cfg.HTTP.MaxRetries)
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", strings.ToUpper(KeyPort), cfg.Server.Port)
	}
	if _, err := ParseRate(cfg.Server.RateLimitSearches); err != nil {
		return fmt.Errorf("%s: %w", strings.ToUpper(KeyRateLimitSearches), err)
	}
	if _, err := ParseRate(cfg.Server.RateLimitExports); err != nil {
		return fmt.Errorf("%s: %w", strings.ToUpper(KeyRateLimitExports), err)
	}
	if cfg.Export.BibTeXConcurrency < 1 {
		return fmt.Errorf("%s must be at least 1, got %d", strings.ToUpper(KeyBibTeXConcurrency), cfg.Export.BibTeXConcurrency)
	}
	return nil
}

// RequireMailto returns ErrMissingMailto when cfg has no contact address.
func RequireMailto(cfg types.Config) error {
	if cfg.HTTP.Mailto == "" {
		return ErrMissingMailto
	}
	return nil
}

// ParseTimeout accepts a Go duration ("45s", "1m") or a plain number of
// seconds ("30", "2.5").
func ParseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		if secs <= 0 {
			return 0, fmt.Errorf("%s must be positive, got %q", strings.ToUpper(KeyTimeout), s)
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToUpper(KeyTimeout), s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", strings.ToUpper(KeyTimeout), s)
	}
	return d, nil
}

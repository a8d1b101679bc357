// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// isolated returns Options pointing every source at an empty temp dir.
func isolated(t *testing.T) (Options, string) {
	t.Helper()
	dir := t.TempDir()
	cfgFile := writeFile(t, dir, "crossref-search.yaml", "")
	// Empty variables count as unset for viper.
	for _, key := range []string{
		KeyUserAgent, KeyMailto, KeyTimeout, KeyMaxRetries, KeyPort, KeyLogLevel,
		KeyLogFile, KeyRateLimitSearches, KeyRateLimitExports, KeyBibTeXConcurrency,
	} {
		t.Setenv(strings.ToUpper(key), "")
	}
	return Options{
		ConfigFile: cfgFile,
		EnvFile:    filepath.Join(dir, ".env"),
		SecretsDir: filepath.Join(dir, ".secrets"),
	}, dir
}

func TestLoad_Defaults(t *testing.T) {
	opts, _ := isolated(t)

	cfg, err := Load(viper.New(), opts)
	require.NoError(t, err)
	assert.Equal(t, "CrossrefSearch/1.0", cfg.HTTP.UserAgent)
	assert.Equal(t, "", cfg.HTTP.Mailto)
	assert.Equal(t, 30*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 3, cfg.HTTP.MaxRetries)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "10/minute", cfg.Server.RateLimitSearches)
	assert.Equal(t, "5/minute", cfg.Server.RateLimitExports)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 1, cfg.Export.BibTeXConcurrency)
	assert.ErrorIs(t, RequireMailto(cfg), ErrMissingMailto)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	opts, dir := isolated(t)
	opts.ConfigFile = writeFile(t, dir, "custom.yaml", "app_mailto: file@example.org\nport: 9000\nmax_retries: 5\n")
	t.Setenv("PORT", "8123")

	cfg, err := Load(viper.New(), opts)
	require.NoError(t, err)
	assert.Equal(t, "file@example.org", cfg.HTTP.Mailto)
	assert.Equal(t, 8123, cfg.Server.Port)
	assert.Equal(t, 5, cfg.HTTP.MaxRetries)
	assert.NoError(t, RequireMailto(cfg))
}

func TestLoad_DotEnv(t *testing.T) {
	opts, dir := isolated(t)
	opts.EnvFile = writeFile(t, dir, ".env", "CROSSREF_TIMEOUT=12\nLOG_LEVEL=debug\n")
	// godotenv skips variables that already exist, even when empty.
	os.Unsetenv("CROSSREF_TIMEOUT")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(viper.New(), opts)
	require.NoError(t, err)
	assert.Equal(t, 12*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MailtoFromSecrets(t *testing.T) {
	opts, _ := isolated(t)
	require.NoError(t, os.MkdirAll(opts.SecretsDir, 0o755))
	writeFile(t, opts.SecretsDir, MailtoSecret, "  secret@example.org\n")

	cfg, err := Load(viper.New(), opts)
	require.NoError(t, err)
	assert.Equal(t, "secret@example.org", cfg.HTTP.Mailto)
}

func TestLoad_EnvMailtoBeatsSecret(t *testing.T) {
	opts, _ := isolated(t)
	require.NoError(t, os.MkdirAll(opts.SecretsDir, 0o755))
	writeFile(t, opts.SecretsDir, MailtoSecret, "secret@example.org")
	t.Setenv("APP_MAILTO", "env@example.org")

	cfg, err := Load(viper.New(), opts)
	require.NoError(t, err)
	assert.Equal(t, "env@example.org", cfg.HTTP.Mailto)
}

func TestLoad_MissingExplicitConfig(t *testing.T) {
	opts, dir := isolated(t)
	opts.ConfigFile = filepath.Join(dir, "missing.yaml")

	_, err := Load(viper.New(), opts)
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"zero retries", map[string]string{"MAX_RETRIES": "0"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"bad rate", map[string]string{"RATE_LIMIT_SEARCHES": "ten per minute"}},
		{"bad timeout", map[string]string{"CROSSREF_TIMEOUT": "soon"}},
		{"zero concurrency", map[string]string{"BIBTEX_CONCURRENCY": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, _ := isolated(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(viper.New(), opts)
			assert.Error(t, err)
		})
	}
}

func TestParseTimeout(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"30", 30 * time.Second, false},
		{"2.5", 2500 * time.Millisecond, false},
		{"45s", 45 * time.Second, false},
		{"1m", time.Minute, false},
		{"0", 0, true},
		{"-5s", 0, true},
		{"later", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeout(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRate(t *testing.T) {
	r, err := ParseRate("10/minute")
	require.NoError(t, err)
	assert.Equal(t, Rate{Count: 10, Period: time.Minute}, r)
	assert.Equal(t, 6*time.Second, r.Interval())

	r, err = ParseRate(" 100 / Hour ")
	require.NoError(t, err)
	assert.Equal(t, Rate{Count: 100, Period: time.Hour}, r)

	for _, bad := range []string{"", "10", "0/minute", "x/minute", "10/fortnight"} {
		_, err := ParseRate(bad)
		assert.Error(t, err, "ParseRate(%q)", bad)
	}
}

func TestLoadSecrets(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "crossref-mailto", " me@example.org \n")
	writeFile(t, dir, "empty", "   ")
	writeFile(t, dir, ".hidden", "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	got, err := LoadSecrets(dir)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"crossref-mailto": "me@example.org"}, got)

	got, err = LoadSecrets(filepath.Join(dir, "absent"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

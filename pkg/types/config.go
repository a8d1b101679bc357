package types

import "time"

// HTTPConfig holds shared settings for outbound requests to Crossref and doi.org.
type HTTPConfig struct {
	// Timeout is the per-request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the product string sent in the User-Agent header
	// (e.g. "CrossrefSearch/1.0").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// Mailto is the contact address appended to the User-Agent for polite
	// pool access.
	Mailto string `json:"mailto" yaml:"mailto"`

	// MaxRetries is the total number of attempts per page fetch (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ServerConfig holds settings for the HTTP layer.
type ServerConfig struct {
	// Port is the TCP port to listen on (default 8000).
	Port int `json:"port" yaml:"port"`

	// RateLimitSearches is the per-client limit for /search (e.g. "10/minute").
	RateLimitSearches string `json:"rate_limit_searches" yaml:"rate_limit_searches"`

	// RateLimitExports is the per-client limit for /export/* (e.g. "5/minute").
	RateLimitExports string `json:"rate_limit_exports" yaml:"rate_limit_exports"`
}

// LoggingConfig selects the log level and an optional rotated log file.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
}

// ExportConfig holds settings for the export renderers.
type ExportConfig struct {
	// BibTeXConcurrency is the number of DOIs fetched in parallel (default 1).
	BibTeXConcurrency int `json:"bibtex_concurrency" yaml:"bibtex_concurrency"`
}

// Config groups every configuration section the application consumes.
type Config struct {
	HTTP    HTTPConfig    `json:"http" yaml:"http"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	Export  ExportConfig  `json:"export" yaml:"export"`
}

// IdentifyingUserAgent returns the polite pool User-Agent header value.
func (c HTTPConfig) IdentifyingUserAgent() string {
	if c.Mailto == "" {
		return c.UserAgent
	}
	return c.UserAgent + " (mailto:" + c.Mailto + ")"
}

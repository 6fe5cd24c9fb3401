// Package config handles configuration for the server component,
// including defaults, environment overlay, and command-line flags.
package config

import (
	"time"

	"codexplain/internal/server/auth"
)

// Authentication enforcement modes. Selected once at startup; the guest mode
// shares one global history partition, the required mode partitions history
// by verified identity.
const (
	AuthModeRequired = "required"
	AuthModeDisabled = "disabled"
)

// Config holds runtime settings for the codexplain server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the JSON-file stores.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - TokenValidityDuration: bearer token lifetime.
//   - AuthMode: AuthModeRequired or AuthModeDisabled.
//   - UsersFile / HistoryFile: flat-file store paths (JSON arrays, auto-created).
//   - GenerationAPIURL / GenerationAPIKey / GenerationModel: external completion API.
//   - ProxySecret: shared secret forwarded to the generation backend proxy, if any.
//   - OCRAPIURL / OCRAPIKey: external text-extraction service.
//   - MaxPromptChars: input code is truncated to this length before prompting.
type Config struct {
	EndpointAddrHTTP      string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	AuthMode              string
	UsersFile             string
	HistoryFile           string
	GenerationAPIURL      string
	GenerationAPIKey      string
	GenerationModel       string
	ProxySecret           string
	OCRAPIURL             string
	OCRAPIKey             string
	MaxPromptChars        int
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey and OCRAPIKey defaults are insecure and must be overridden
// in any real deployment; the app logs a warning when they are left in place.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = auth.DefaultTokenValidity
	c.AuthMode = AuthModeRequired
	c.UsersFile = "users.json"
	c.HistoryFile = "history.json"
	c.GenerationAPIURL = "https://api.openai.com/v1"
	c.GenerationAPIKey = ""
	c.GenerationModel = "gpt-3.5-turbo"
	c.ProxySecret = ""
	c.OCRAPIURL = "https://api.ocr.space/parse/image"
	c.OCRAPIKey = "helloworld"
	c.MaxPromptChars = 6000
}

// DefaultSecretInUse reports whether the built-in signing secret is still
// active. Kept as a query instead of an error so deployments can run with it,
// as long as the misconfiguration gets logged loudly.
func (c *Config) DefaultSecretInUse() bool {
	return c.SecretKey == "secretKey"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

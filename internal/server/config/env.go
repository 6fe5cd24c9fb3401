package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays Config fields from environment variables. Unset variables
// leave the current value untouched. Numeric variables that fail to parse
// panic, matching the flag layer: a misconfigured deployment should not start.
func parseEnv(config *Config) {
	lookupString(&config.EndpointAddrHTTP, "LISTEN_ADDR")
	lookupString(&config.DatabaseDSN, "DATABASE_DSN")
	lookupString(&config.SecretKey, "JWT_SECRET")
	lookupString(&config.AuthMode, "AUTH_MODE")
	lookupString(&config.UsersFile, "USERS_FILE")
	lookupString(&config.HistoryFile, "HISTORY_FILE")
	lookupString(&config.GenerationAPIURL, "GENERATION_API_URL")
	lookupString(&config.GenerationAPIKey, "GENERATION_API_KEY")
	lookupString(&config.GenerationModel, "GENERATION_MODEL")
	lookupString(&config.ProxySecret, "PROXY_SECRET")
	lookupString(&config.OCRAPIURL, "OCR_API_URL")
	lookupString(&config.OCRAPIKey, "OCR_API_KEY")

	if v, ok := os.LookupEnv("TOKEN_VALIDITY_HOURS"); ok {
		hours, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.TokenValidityDuration = time.Duration(hours) * time.Hour
	}

	if v, ok := os.LookupEnv("MAX_PROMPT_CHARS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.MaxPromptChars = n
	}
}

func lookupString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

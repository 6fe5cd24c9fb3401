package config

import (
	"flag"
	"os"
	"time"

	"codexplain/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN (empty selects the JSON-file stores)
//	-s string   JWT HMAC secret key
//	-t int      bearer token validity, hours
//	-m string   auth mode: "required" or "disabled"
//	-u string   users store file path
//	-y string   history store file path
//	-g string   generation API base URL
//	-k string   generation API key
//	-l string   generation model name
//	-x string   forwarding-proxy shared secret
//	-o string   OCR API URL
//	-r string   OCR API key
//	-p int      maximum prompt characters before truncation
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-s", "-t", "-m", "-u", "-y", "-g", "-k", "-l", "-x", "-o", "-r", "-p",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Hours()), "token_validity_duration (in hours)")

	fs.StringVar(&config.AuthMode, "m", config.AuthMode, "auth mode (required|disabled)")
	fs.StringVar(&config.UsersFile, "u", config.UsersFile, "users store file")
	fs.StringVar(&config.HistoryFile, "y", config.HistoryFile, "history store file")
	fs.StringVar(&config.GenerationAPIURL, "g", config.GenerationAPIURL, "generation API base URL")
	fs.StringVar(&config.GenerationAPIKey, "k", config.GenerationAPIKey, "generation API key")
	fs.StringVar(&config.GenerationModel, "l", config.GenerationModel, "generation model")
	fs.StringVar(&config.ProxySecret, "x", config.ProxySecret, "forwarding proxy shared secret")
	fs.StringVar(&config.OCRAPIURL, "o", config.OCRAPIURL, "OCR API URL")
	fs.StringVar(&config.OCRAPIKey, "r", config.OCRAPIKey, "OCR API key")
	fs.IntVar(&config.MaxPromptChars, "p", config.MaxPromptChars, "max prompt characters")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Hour
}

package config

import (
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
)

var envPattern = regexp.MustCompile(`\$\{(\w+)(?::([^}]*))?\}`)

// loadDotEnv reads .env from the working directory when present.
func loadDotEnv() {
	_ = godotenv.Load()
}

// resolveEnv replaces ${KEY} and ${KEY:default} placeholders with values from the environment.
func resolveEnv(content []byte) []byte {
	return envPattern.ReplaceAllFunc(content, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		key := string(parts[1])
		var fallback string
		if len(parts) > 2 {
			fallback = string(parts[2])
		}
		if v, ok := os.LookupEnv(key); ok {
			return []byte(v)
		}
		return []byte(fallback)
	})
}

// ConfigPath resolves the configuration file: explicit flag, then CONFIG_PATH, then the default.
func ConfigPath(flag string) string {
	if p := strings.TrimSpace(flag); p != "" {
		return p
	}
	if p := strings.TrimSpace(os.Getenv("CONFIG_PATH")); p != "" {
		return p
	}
	return "configs/server.yaml"
}

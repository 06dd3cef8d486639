// Package config loads and validates application configuration from
// environment variables, with optional .env file support for development.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DataFile is the path of the JSON catalog file. Defaults to
	// "library_data.json". The file is created on first save.
	DataFile string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override the default
	// of the local Streamlit dev server.
	CORSOrigins []string

	// GeminiAPIKey enables the AI assistant when non-empty. With no key
	// the server runs fine; AI endpoints return substituted messages.
	GeminiAPIKey string

	// GeminiModel names the generative model. Defaults to "gemini-2.0-flash".
	GeminiModel string

	// OpenLibraryURL overrides the Open Library base URL, mainly for tests.
	OpenLibraryURL string
}

// Load reads configuration from the environment, after loading ".env" if
// present. Returns an error for values that cannot be meaningfully used.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		DataFile:       getEnv("DATA_FILE", "library_data.json"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8501")),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OpenLibraryURL: os.Getenv("OPENLIBRARY_URL"),
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return Config{}, fmt.Errorf("invalid LOG_LEVEL %q: want debug, info, warn, or error", cfg.LogLevel)
	}

	if cfg.DataFile == "" {
		return Config{}, fmt.Errorf("DATA_FILE must not be empty")
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring
// empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

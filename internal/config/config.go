package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Export backends.
const (
	ExportSheets = "sheets"
	ExportMemory = "memory"
	ExportNone   = "none"
)

type Config struct {
	// HTTP Server
	Port        string
	MaxUploadMB int

	// Logging
	LogLevel string

	// Import and classification
	RulesFile        string
	CSVPreambleLines int

	// Sessions
	SessionTTL  time.Duration
	MaxSessions int

	// Export
	ExportBackend                string
	GoogleSpreadsheetID          string
	ExportSheetName              string
	GoogleServiceAccountJSON     string
	GoogleServiceAccountFile     string
	GoogleApplicationCredentials string
}

func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8081"),
		MaxUploadMB: getEnvInt("MAX_UPLOAD_MB", 20),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		RulesFile:        getEnv("RULES_FILE", ""),
		CSVPreambleLines: getEnvInt("CSV_PREAMBLE_LINES", 5),

		SessionTTL:  getEnvDuration("SESSION_TTL", 2*time.Hour),
		MaxSessions: getEnvInt("MAX_SESSIONS", 100),

		ExportBackend:                getEnv("EXPORT_BACKEND", ExportNone),
		GoogleSpreadsheetID:          getEnv("GOOGLE_SPREADSHEET_ID", ""),
		ExportSheetName:              getEnv("EXPORT_SHEET_NAME", "Joint Finance"),
		GoogleServiceAccountJSON:     getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile:     getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleApplicationCredentials: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
	}

	return cfg
}

// MaxUploadBytes is the multipart body limit of one upload request.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// HasGoogleCredentials reports whether any service account source is set.
func (c *Config) HasGoogleCredentials() bool {
	return c.GoogleServiceAccountJSON != "" || c.GoogleServiceAccountFile != "" || c.GoogleApplicationCredentials != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.MaxUploadMB < 1 || c.MaxUploadMB > 200 {
		errors = append(errors, fmt.Sprintf("invalid max upload size %dMB: must be between 1 and 200", c.MaxUploadMB))
	}

	if c.CSVPreambleLines < 0 || c.CSVPreambleLines > 50 {
		errors = append(errors, fmt.Sprintf("invalid CSV preamble line count %d: must be between 0 and 50", c.CSVPreambleLines))
	}

	if c.RulesFile != "" {
		if _, err := os.Stat(c.RulesFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("rules file does not exist: %s", c.RulesFile))
		}
	}

	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	} else if c.SessionTTL > 7*24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at most 7 days", c.SessionTTL))
	}
	if c.MaxSessions < 1 {
		errors = append(errors, fmt.Sprintf("invalid max sessions %d: must be at least 1", c.MaxSessions))
	}

	validBackends := []string{ExportSheets, ExportMemory, ExportNone}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.ExportBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid export backend '%s': must be one of %v", c.ExportBackend, validBackends))
	}

	if c.ExportBackend != ExportNone && strings.TrimSpace(c.ExportSheetName) == "" {
		errors = append(errors, "export sheet name cannot be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

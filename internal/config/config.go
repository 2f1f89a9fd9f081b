// Package config centralises configuration parsing for the catalog tools.
package config

import (
	"os"
	"strings"
	"time"
)

// Config captures runtime configuration values shared by catalogdiff and workoutreport.
type Config struct {
	BaseCatalogPath      string
	CandidateCatalogPath string
	TrackedField         string
	ExportsDir           string
	ReportPath           string
	MetricsTextfile      string   // Empty disables the metrics dump.
	KafkaBrokers         []string // Empty disables change publication.
	EventsTopic          string
	PublishTimeout       time.Duration
	LogLevel             string
}

// Load reads environment variables into Config, applying defaults that match the repo layout.
func Load() Config {
	return Config{
		BaseCatalogPath:      getEnv("CATALOG_BASE", "data/exercises.json"),
		CandidateCatalogPath: getEnv("CATALOG_CANDIDATE", "data/exercises-2.json"),
		TrackedField:         getEnv("CATALOG_TRACKED_FIELD", "form_video"),
		ExportsDir:           getEnv("EXPORTS_DIR", "exports"),
		ReportPath:           getEnv("REPORT_PATH", "workout_report.csv"),
		MetricsTextfile:      getEnv("METRICS_TEXTFILE", ""),
		KafkaBrokers:         splitAndTrim(getEnv("KAFKA_BROKERS", "")),
		EventsTopic:          getEnv("CATALOG_EVENTS_TOPIC", "exercise_catalog_events"),
		PublishTimeout:       getDurationEnv("PUBLISH_TIMEOUT", 10*time.Second),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
	}
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

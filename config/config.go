package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Port          string
	HTTPBindAddr  string
	Environment   string
	LoggingConfig LoggingConfig
	ReferenceData ReferenceDataConfig
	SearchConfig  SearchConfig
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// ReferenceDataConfig points at the on-disk reference corpus that is decoded
// and ingested into the index at startup. The core package never reads
// files itself; this config only feeds the ingest package.
type ReferenceDataConfig struct {
	// RecordsDir holds one file per record (or newline-delimited batches of
	// records) tagged by schema, per spec.md §6.
	RecordsDir string
	// LocodeTSVPath is the optional tabular LOCODE file carrying coordinates.
	// Empty disables the second ingest pass.
	LocodeTSVPath string
}

// SearchConfig holds defaults for the query interface described in
// spec.md §6.
type SearchConfig struct {
	DefaultLimit       int
	DefaultLevDistance int
}

// Load loads configuration from environment variables, defaulting values
// that are not set. A .env file in the working directory is loaded first,
// if present.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	port := getEnv("PORT", "8080")
	httpBindAddr := getEnv("HTTP_BIND_ADDR", "")
	environment := getEnv("ENVIRONMENT", "development")

	loggingConfig := LoggingConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "json"),
	}

	referenceData := ReferenceDataConfig{
		RecordsDir:    getEnv("LOCUS_RECORDS_DIR", "./testdata/records"),
		LocodeTSVPath: getEnv("LOCUS_LOCODE_TSV", ""),
	}

	defaultLimit, err := strconv.Atoi(getEnv("LOCUS_DEFAULT_LIMIT", "1"))
	if err != nil || defaultLimit < 1 {
		defaultLimit = 1
	}
	defaultLevDistance, err := strconv.Atoi(getEnv("LOCUS_DEFAULT_LEV_DISTANCE", "2"))
	if err != nil {
		defaultLevDistance = 2
	}
	defaultLevDistance = clampLevDistance(defaultLevDistance)

	searchConfig := SearchConfig{
		DefaultLimit:       defaultLimit,
		DefaultLevDistance: defaultLevDistance,
	}

	return &Config{
		Port:          port,
		HTTPBindAddr:  httpBindAddr,
		Environment:   environment,
		LoggingConfig: loggingConfig,
		ReferenceData: referenceData,
		SearchConfig:  searchConfig,
	}, nil
}

// clampLevDistance clamps a requested Levenshtein distance into [0, 2], per
// spec.md §4.3 point 9.
func clampLevDistance(v int) int {
	if v < 0 {
		return 0
	}
	if v > 2 {
		return 2
	}
	return v
}

// TestConfig returns a configuration suitable for unit and integration
// tests, pointing at the bundled fixture corpus.
func TestConfig() *Config {
	return &Config{
		Port:        "8080",
		Environment: "test",
		LoggingConfig: LoggingConfig{
			Level:  "error",
			Format: "text",
		},
		ReferenceData: ReferenceDataConfig{
			RecordsDir: "./testdata/records",
		},
		SearchConfig: SearchConfig{
			DefaultLimit:       1,
			DefaultLevDistance: 2,
		},
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if len(strings.TrimSpace(value)) == 0 {
		return defaultValue
	}
	return strings.TrimSpace(value)
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{port=%s env=%s records_dir=%s}", c.Port, c.Environment, c.ReferenceData.RecordsDir)
}

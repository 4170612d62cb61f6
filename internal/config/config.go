package config

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Lending
		Metadata
		Tasks
		OverdueReport
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path   string
		LogSQL bool
	}
	Lending struct {
		DefaultLoanDays int
	}
	Metadata struct {
		OpenLibraryURL    string
		GoogleBooksURL    string
		Timeout           time.Duration
		RequestsPerSecond float64
		UserAgent         string
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	OverdueReport struct {
		Enabled  bool
		Schedule string // Cron format: "0 8 * * *" = daily at 08:00
	}
)

// LoadEnvFile reads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// NewConfig loads .env (if present) and reads the configuration from the
// environment.
func NewConfig() *Config {
	if err := LoadEnvFile(DefaultEnvFile); err != nil {
		log.Printf("WARNING: failed to load %s: %v", DefaultEnvFile, err)
	}
	return FromViper(viper.New())
}

// FromViper builds the configuration from v after applying defaults and
// binding it to the environment.
func FromViper(v *viper.Viper) *Config {
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("log_sql", false)
	v.SetDefault("default_loan_days", 7)

	// Metadata source defaults
	v.SetDefault("metadata_openlibrary_url", DefaultOpenLibraryURL)
	v.SetDefault("metadata_googlebooks_url", DefaultGoogleBooksURL)
	v.SetDefault("metadata_timeout", "10s")
	v.SetDefault("metadata_requests_per_second", 1.0)
	v.SetDefault("metadata_user_agent", DefaultUserAgent)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("overdue_report_enabled", false)
	v.SetDefault("overdue_report_schedule", "0 8 * * *")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:   v.GetString("DATABASE_PATH"),
			LogSQL: v.GetBool("LOG_SQL"),
		},
		Lending: Lending{
			DefaultLoanDays: v.GetInt("DEFAULT_LOAN_DAYS"),
		},
		Metadata: Metadata{
			OpenLibraryURL:    v.GetString("METADATA_OPENLIBRARY_URL"),
			GoogleBooksURL:    v.GetString("METADATA_GOOGLEBOOKS_URL"),
			Timeout:           v.GetDuration("METADATA_TIMEOUT"),
			RequestsPerSecond: v.GetFloat64("METADATA_REQUESTS_PER_SECOND"),
			UserAgent:         v.GetString("METADATA_USER_AGENT"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		OverdueReport: OverdueReport{
			Enabled:  v.GetBool("OVERDUE_REPORT_ENABLED"),
			Schedule: v.GetString("OVERDUE_REPORT_SCHEDULE"),
		},
	}
}

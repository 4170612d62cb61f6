package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg := FromViper(viper.New())

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.False(t, cfg.Database.LogSQL)
	assert.Equal(t, 7, cfg.Lending.DefaultLoanDays)
	assert.Equal(t, DefaultOpenLibraryURL, cfg.Metadata.OpenLibraryURL)
	assert.Equal(t, DefaultGoogleBooksURL, cfg.Metadata.GoogleBooksURL)
	assert.Equal(t, 10*time.Second, cfg.Metadata.Timeout)
	assert.Equal(t, 1.0, cfg.Metadata.RequestsPerSecond)
	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 2, cfg.Tasks.Workers)
	assert.Equal(t, 15*time.Minute, cfg.Tasks.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.Tasks.CleanupInterval)
	assert.False(t, cfg.OverdueReport.Enabled)
	assert.Equal(t, "0 8 * * *", cfg.OverdueReport.Schedule)
}

func TestFromViper_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_PATH", "/data/library.db")
	t.Setenv("LOG_SQL", "true")
	t.Setenv("DEFAULT_LOAN_DAYS", "14")
	t.Setenv("METADATA_TIMEOUT", "3s")
	t.Setenv("METADATA_REQUESTS_PER_SECOND", "0.5")
	t.Setenv("TASKS_ENABLED", "false")
	t.Setenv("OVERDUE_REPORT_ENABLED", "true")
	t.Setenv("OVERDUE_REPORT_SCHEDULE", "*/30 * * * *")

	cfg := FromViper(viper.New())

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, "/data/library.db", cfg.Database.Path)
	assert.True(t, cfg.Database.LogSQL)
	assert.Equal(t, 14, cfg.Lending.DefaultLoanDays)
	assert.Equal(t, 3*time.Second, cfg.Metadata.Timeout)
	assert.Equal(t, 0.5, cfg.Metadata.RequestsPerSecond)
	assert.False(t, cfg.Tasks.Enabled)
	assert.True(t, cfg.OverdueReport.Enabled)
	assert.Equal(t, "*/30 * * * *", cfg.OverdueReport.Schedule)
}

func TestLoadEnvFile(t *testing.T) {
	const key = "LIBRARIAN_CONFIG_TEST_LOAN_DAYS"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=21\n"), 0o600))

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "21", os.Getenv(key))
}

func TestLoadEnvFile_KeepsExistingValues(t *testing.T) {
	t.Setenv("LIBRARIAN_CONFIG_TEST_HOST", "from-env")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LIBRARIAN_CONFIG_TEST_HOST=from-file\n"), 0o600))

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-env", os.Getenv("LIBRARIAN_CONFIG_TEST_HOST"))
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
}

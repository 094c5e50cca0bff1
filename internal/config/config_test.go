package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTOFIN_DB", "/tmp/autofin-test.db")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, filepath.Join("data", "customers.csv"), filepath.Clean(cfg.Paths.Customers))
	assert.Equal(t, filepath.Join("data", "sop.json"), filepath.Clean(cfg.Paths.SOPDocument))
	assert.Equal(t, domain.SOPModeDocument, cfg.SOPMode)
	assert.Equal(t, ClaimsCSV, cfg.ClaimsBackend)
	assert.Equal(t, domain.ModeRule, cfg.Mode)
	assert.Equal(t, "₹", cfg.Currency)
	assert.Equal(t, "logs/chat_history.log", cfg.LogFile)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.False(t, cfg.LLM.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AUTOFIN_DB", "/tmp/autofin-test.db")
	t.Setenv("AUTOFIN_DATA_DIR", "/srv/autofin")
	t.Setenv("AUTOFIN_PAYMENTS_FILE", "/elsewhere/emi.csv")
	t.Setenv("AUTOFIN_SOP_MODE", "Patterns")
	t.Setenv("AUTOFIN_CLAIMS_BACKEND", "sqlite")
	t.Setenv("AUTOFIN_MODE", "supervisor")
	t.Setenv("AUTOFIN_LOG_LEVEL", "debug")
	t.Setenv("AUTOFIN_CURRENCY", "Rs.")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/srv/autofin", "customers.csv"), cfg.Paths.Customers)
	assert.Equal(t, "/elsewhere/emi.csv", cfg.Paths.Payments)
	assert.Equal(t, domain.SOPModePatterns, cfg.SOPMode)
	assert.Equal(t, ClaimsSQLite, cfg.ClaimsBackend)
	assert.Equal(t, domain.ModeSupervisor, cfg.Mode)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, "Rs.", cfg.Currency)
	assert.Equal(t, "/tmp/autofin-test.db", cfg.DBPath)
}

func TestLoad_DotEnvFile(t *testing.T) {
	t.Setenv("AUTOFIN_DB", "/tmp/autofin-test.db")
	// Registered so t.Setenv restores the variable that godotenv sets.
	t.Setenv("AUTOFIN_MODE", "")
	require.NoError(t, os.Unsetenv("AUTOFIN_MODE"))

	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("AUTOFIN_MODE=llm\n"), 0o644))

	cfg, err := Load(envPath)
	require.NoError(t, err)
	assert.Equal(t, domain.ModeLLM, cfg.Mode)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"AUTOFIN_MODE", "chaotic"},
		{"AUTOFIN_SOP_MODE", "wiki"},
		{"AUTOFIN_CLAIMS_BACKEND", "postgres"},
		{"AUTOFIN_LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv("AUTOFIN_DB", "/tmp/autofin-test.db")
			t.Setenv(tt.key, tt.value)

			_, err := Load(missingEnvFile(t))
			assert.Error(t, err)
		})
	}
}

// Package config resolves runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/alexanderramin/autofin/internal/llm"
	"github.com/alexanderramin/autofin/internal/records"
	"github.com/joho/godotenv"
)

// ClaimsBackend selects where claim rows are persisted.
type ClaimsBackend string

const (
	ClaimsCSV    ClaimsBackend = "csv"
	ClaimsSQLite ClaimsBackend = "sqlite"
)

const (
	defaultDataDir  = "./data"
	defaultLogFile  = "logs/chat_history.log"
	defaultCurrency = "₹"
)

// Config is the fully resolved runtime configuration.
type Config struct {
	DataDir       string
	Paths         records.Paths
	SOPMode       domain.SOPMode
	ClaimsBackend ClaimsBackend
	DBPath        string
	LogFile       string
	LogLevel      slog.Level
	Mode          domain.AgentMode
	Currency      string
	LLM           llm.LLMConfig
}

// Load reads the given .env files (".env" when none are named) and then the
// process environment. Missing .env files are ignored.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := Config{
		DataDir:       getEnv("AUTOFIN_DATA_DIR", defaultDataDir),
		SOPMode:       domain.SOPMode(strings.ToLower(getEnv("AUTOFIN_SOP_MODE", string(domain.SOPModeDocument)))),
		ClaimsBackend: ClaimsBackend(strings.ToLower(getEnv("AUTOFIN_CLAIMS_BACKEND", string(ClaimsCSV)))),
		LogFile:       getEnv("AUTOFIN_LOG_FILE", defaultLogFile),
		Mode:          domain.AgentMode(strings.ToLower(getEnv("AUTOFIN_MODE", string(domain.ModeRule)))),
		Currency:      getEnv("AUTOFIN_CURRENCY", defaultCurrency),
		LogLevel:      slog.LevelWarn,
		LLM:           llm.LoadConfig(),
	}

	cfg.Paths = records.DefaultPaths(cfg.DataDir)
	overridePath(&cfg.Paths.Customers, "AUTOFIN_CUSTOMERS_FILE")
	overridePath(&cfg.Paths.Payments, "AUTOFIN_PAYMENTS_FILE")
	overridePath(&cfg.Paths.Claims, "AUTOFIN_CLAIMS_FILE")
	overridePath(&cfg.Paths.SOPDocument, "AUTOFIN_SOP_FILE")
	overridePath(&cfg.Paths.SOPPatterns, "AUTOFIN_SOP_PATTERNS_FILE")

	cfg.DBPath = os.Getenv("AUTOFIN_DB")
	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".autofin", "autofin.db")
	}

	if v := os.Getenv("AUTOFIN_LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("invalid AUTOFIN_LOG_LEVEL %q: %w", v, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects enumerated settings outside their accepted values.
func (c Config) Validate() error {
	if !domain.ValidAgentModes[string(c.Mode)] {
		return fmt.Errorf("invalid AUTOFIN_MODE %q (want rule, supervisor or llm)", c.Mode)
	}
	switch c.SOPMode {
	case domain.SOPModeDocument, domain.SOPModePatterns:
	default:
		return fmt.Errorf("invalid AUTOFIN_SOP_MODE %q (want document or patterns)", c.SOPMode)
	}
	switch c.ClaimsBackend {
	case ClaimsCSV, ClaimsSQLite:
	default:
		return fmt.Errorf("invalid AUTOFIN_CLAIMS_BACKEND %q (want csv or sqlite)", c.ClaimsBackend)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func overridePath(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

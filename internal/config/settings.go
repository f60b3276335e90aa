package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// MissingLedger chooses how reports treat a ledger file that does not exist.
type MissingLedger string

const (
	// MissingLedgerEmpty reports an absent ledger as having no transactions.
	MissingLedgerEmpty MissingLedger = "empty"
	// MissingLedgerError fails the report.
	MissingLedgerError MissingLedger = "error"
)

// Settings are process options taken from the environment.
type Settings struct {
	ConfigPath    string
	LogLevel      string
	MissingLedger MissingLedger
	AuditLog      string // empty disables the audit trail
}

// LoadSettings reads ACC_* variables, falling back to defaults.
func LoadSettings() Settings {
	return Settings{
		ConfigPath:    getEnv("ACC_CONFIG", DefaultPath),
		LogLevel:      getEnv("ACC_LOG_LEVEL", "warn"),
		MissingLedger: MissingLedger(strings.ToLower(getEnv("ACC_MISSING_LEDGER", string(MissingLedgerEmpty)))),
		AuditLog:      os.Getenv("ACC_AUDIT_LOG"),
	}
}

// Validate returns an error describing every invalid setting.
func (s Settings) Validate() error {
	var errs []string
	if s.ConfigPath == "" {
		errs = append(errs, "config path must not be empty")
	}
	if _, err := zerolog.ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, fmt.Sprintf("invalid log level %q", s.LogLevel))
	}
	switch s.MissingLedger {
	case MissingLedgerEmpty, MissingLedgerError:
	default:
		errs = append(errs, fmt.Sprintf("invalid missing-ledger policy %q: want %q or %q", s.MissingLedger, MissingLedgerEmpty, MissingLedgerError))
	}
	if len(errs) > 0 {
		return fmt.Errorf("settings validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

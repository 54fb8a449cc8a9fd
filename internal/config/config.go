// Package config reads runtime configuration from the environment.
package config

import (
	"errors"
	"os"
	"strings"
)

// EnvLedger names the environment variable holding the ledger path.
const EnvLedger = "TAXLEDGER_LEDGER"

// DefaultLedger is used when EnvLedger is unset or blank.
const DefaultLedger = "tax_data.csv"

// Config holds runtime configuration sourced from env vars.
type Config struct {
	LedgerPath string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		LedgerPath: fallback(os.Getenv(EnvLedger), DefaultLedger),
	}

	if strings.HasSuffix(cfg.LedgerPath, "/") || strings.HasSuffix(cfg.LedgerPath, string(os.PathSeparator)) {
		return Config{}, errors.New(EnvLedger + " must name a file, not a directory")
	}

	return cfg, nil
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Backend selects where the item collection is kept.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
	BackendSQLite Backend = "sqlite"
)

// Environment keys
const (
	KeyDataDir  = "SHOPLIST_DATA_DIR"
	KeyBackend  = "SHOPLIST_BACKEND"
	KeyTheme    = "SHOPLIST_THEME"
	KeyDebugLog = "SHOPLIST_DEBUG_LOG"
)

// Default values
const (
	DefaultDataDirName = ".shoplist"
	DefaultBackend     = BackendFile
	DefaultTheme       = "classic"

	SQLiteFileName = "shoplist.db" // inside the data dir
)

var ErrUnknownBackend = errors.New("unknown backend")

// Config is the resolved runtime configuration.
type Config struct {
	DataDir  string
	Backend  Backend
	Theme    string
	DebugLog string // empty: TUI logs are discarded
}

// Load reads .env files (if any) and then the environment.
func Load(envFiles ...string) (Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load(envFiles...)
	return FromEnv(os.Getenv)
}

// FromEnv resolves a Config through getenv, applying defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		DataDir:  strings.TrimSpace(getenv(KeyDataDir)),
		Backend:  Backend(strings.ToLower(strings.TrimSpace(getenv(KeyBackend)))),
		Theme:    envOrDefault(getenv, KeyTheme, DefaultTheme),
		DebugLog: strings.TrimSpace(getenv(KeyDebugLog)),
	}
	if cfg.Backend == "" {
		cfg.Backend = DefaultBackend
	}
	if err := cfg.Backend.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return Config{}, err
		}
		cfg.DataDir = dir
	}
	return cfg, nil
}

func (b Backend) Validate() error {
	switch b {
	case BackendFile, BackendMemory, BackendSQLite:
		return nil
	}
	return fmt.Errorf("%w: %q (want %q, %q or %q)", ErrUnknownBackend, string(b), BackendFile, BackendSQLite, BackendMemory)
}

func envOrDefault(getenv func(string) string, key, def string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return def
}

func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, DefaultDataDirName), nil
}

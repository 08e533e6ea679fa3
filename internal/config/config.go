// internal/config/config.go
//
// Process configuration for the Catch server.
// Values come from the environment (optionally seeded from a .env file by
// main) with defaults for local development. Game tuning (sizes, speeds,
// spawn odds) can be overridden from a TOML file.
//
// Environment variables:
//   PORT               listen port (default 5175)
//   LOG_LEVEL          zerolog level name (default info)
//   DB_PATH            SQLite file (default ./data/catch.db); "memory" keeps
//                      scores in memory and disables accounts
//   CATCH_DATA_FILE    game data JSON; empty means the embedded default
//   CATCH_TUNING_FILE  optional TOML tuning overrides
//   FRAME_RATE         server-driven frames per second for live play (default 60)
//   CLIENT_ORIGIN      allowed CORS origin (default http://localhost:5173)

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml"

	"github.com/robalobadob/catch/internal/catch"
)

// MemoryDB as DB_PATH runs without SQLite.
const MemoryDB = "memory"

type Config struct {
	Port         string
	LogLevel     string
	DBPath       string
	DataFile     string
	TuningFile   string
	FrameRate    int
	ClientOrigin string
}

// FromEnv reads the configuration from the environment.
func FromEnv() Config {
	return Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DBPath:       getEnv("DB_PATH", "./data/catch.db"),
		DataFile:     os.Getenv("CATCH_DATA_FILE"),
		TuningFile:   os.Getenv("CATCH_TUNING_FILE"),
		FrameRate:    getEnvInt("FRAME_RATE", 60),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
	}
}

// LoadTuning reads catch.Params overrides from a TOML file. Keys that are
// absent keep their default value. An empty path returns the defaults.
func LoadTuning(path string) (catch.Params, error) {
	p := catch.DefaultParams()
	if path == "" {
		return p, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return p, fmt.Errorf("tuning file %s doesn't exist", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("error reading tuning: %w", err)
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("error decoding tuning: %w", err)
	}
	return p.Normalize(), nil
}

// SaveDefaultTuning writes the default tuning to path. It refuses to
// overwrite an existing file.
func SaveDefaultTuning(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.New("tuning file already exists")
	}
	data, err := toml.Marshal(catch.DefaultParams())
	if err != nil {
		return fmt.Errorf("failed encoding default tuning: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed creating tuning file: %w", err)
	}
	return nil
}

// InMemory reports whether scores live in process memory only.
func (c Config) InMemory() bool { return c.DBPath == MemoryDB }

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

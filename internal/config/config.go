package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"golf-pickem/internal/constants"
)

// UnknownStatusPolicy controls what the status normalizer does with a
// raw status string that is neither a known alias nor in the learned
// mapping cache.
type UnknownStatusPolicy string

const (
	// UnknownStatusComplete defaults unknown strings to "complete" and
	// logs the decision.
	UnknownStatusComplete UnknownStatusPolicy = "complete"
	// UnknownStatusFail rejects the row instead of guessing.
	UnknownStatusFail UnknownStatusPolicy = "fail"
)

type Config struct {
	DataGolfKey         string
	SportContentKey     string
	DBPath              string
	ServerPort          string
	LogLevel            string
	UnknownStatusPolicy UnknownStatusPolicy
	StaggeredParBase    int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DataGolfKey:         getEnv("DATAGOLF_KEY", ""),
		SportContentKey:     getEnv("SPORTCONTENT_API_KEY", ""),
		DBPath:              getEnv("DB_PATH", "golf_pickem.db"),
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		UnknownStatusPolicy: UnknownStatusPolicy(getEnv("STATUS_UNKNOWN_POLICY", string(UnknownStatusComplete))),
		StaggeredParBase:    getEnvInt("STAGGERED_PAR_BASELINE", constants.DefaultStaggeredParBaseline),
	}

	if cfg.DataGolfKey == "" {
		return nil, fmt.Errorf("DATAGOLF_KEY is required")
	}
	if cfg.SportContentKey == "" {
		return nil, fmt.Errorf("SPORTCONTENT_API_KEY is required")
	}
	if cfg.UnknownStatusPolicy != UnknownStatusComplete && cfg.UnknownStatusPolicy != UnknownStatusFail {
		return nil, fmt.Errorf("STATUS_UNKNOWN_POLICY must be %q or %q", UnknownStatusComplete, UnknownStatusFail)
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("status_unknown_policy", string(cfg.UnknownStatusPolicy)).
		Int("staggered_par_baseline", cfg.StaggeredParBase).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

package server

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the server configuration, loaded from the environment. Bad
// values fail the load instead of being clamped to something plausible.
type Config struct {
	Addr string

	AIDepth           int
	AITopN            int
	AIQuiescenceDepth int
	AITimeBudget      time.Duration
	AISeed            int64 // 0 keeps move selection fully deterministic

	LogLevel string
}

// DefaultConfig returns the configuration used when the environment sets
// nothing.
func DefaultConfig() Config {
	return Config{
		Addr:              ":8080",
		AIDepth:           2,
		AITopN:            3,
		AIQuiescenceDepth: 4,
		LogLevel:          "info",
	}
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	var err error
	if cfg.AIDepth, err = intEnv("AI_DEPTH", cfg.AIDepth); err != nil {
		return Config{}, err
	}
	if cfg.AITopN, err = intEnv("AI_TOP_N", cfg.AITopN); err != nil {
		return Config{}, err
	}
	if cfg.AIQuiescenceDepth, err = intEnv("AI_QUIESCENCE_DEPTH", cfg.AIQuiescenceDepth); err != nil {
		return Config{}, err
	}

	budgetMs, err := intEnv("AI_TIME_BUDGET_MS", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.AITimeBudget = time.Duration(budgetMs) * time.Millisecond

	if v := os.Getenv("AI_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("server: AI_SEED=%q: %w", v, err)
		}
		cfg.AISeed = seed
	}
	return cfg, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("server: %s=%q: %w", key, v, err)
	}
	return n, nil
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DataFile    string
	DatabaseURL string
	RedisAddr   string

	JWTSecret        string
	OperatorPassword string

	Floors         int
	SpacesPerFloor int
	AlertThreshold float64

	PricePerHour  int64
	PricePerDay   int64
	PricePerMonth int64
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		DataFile:    getEnv("DATA_FILE", "data/data.json"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisAddr:   getEnv("REDIS_ADDR", ""),

		JWTSecret:        getEnv("JWT_SECRET", "secret-key"),
		OperatorPassword: getEnv("OPERATOR_PASSWORD", "parkease"),
	}

	var err error
	if cfg.Floors, err = getEnvInt("LOT_FLOORS", 4); err != nil {
		return nil, err
	}
	if cfg.SpacesPerFloor, err = getEnvInt("LOT_SPACES_PER_FLOOR", 48); err != nil {
		return nil, err
	}
	if cfg.AlertThreshold, err = getEnvFloat("ALERT_THRESHOLD", 0.1); err != nil {
		return nil, err
	}
	if cfg.PricePerHour, err = getEnvInt64("PRICE_PER_HOUR", 2); err != nil {
		return nil, err
	}
	if cfg.PricePerDay, err = getEnvInt64("PRICE_PER_DAY", 12); err != nil {
		return nil, err
	}
	if cfg.PricePerMonth, err = getEnvInt64("PRICE_PER_MONTH", 100); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

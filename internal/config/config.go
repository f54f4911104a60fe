package config

import (
	"strconv"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Costing method names accepted in COSTING_METHOD.
const (
	CostingWeightedAverage = "weighted_average"
	CostingFIFO            = "fifo"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// CostingMethod selects the ledger valuation strategy.
	CostingMethod string

	// DeadStockSalvageRate is the fraction of original value recoverable
	// when liquidating expired stock.
	DeadStockSalvageRate float64
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:          getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=warehouse port=5432 sslmode=disable"),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		CORSOrigins:          getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		CostingMethod:        getEnv("COSTING_METHOD", CostingWeightedAverage),
		DeadStockSalvageRate: getEnvFloat("DEAD_STOCK_SALVAGE_RATE", 0.2),
	}

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET is not set; it is required")
	}
	if len(cfg.JWTSecret) < 32 {
		logrus.Fatal("JWT_SECRET must be at least 32 characters")
	}
	if cfg.CostingMethod != CostingWeightedAverage && cfg.CostingMethod != CostingFIFO {
		logrus.Fatalf("COSTING_METHOD must be %q or %q, got %q", CostingWeightedAverage, CostingFIFO, cfg.CostingMethod)
	}
	if cfg.DeadStockSalvageRate < 0 || cfg.DeadStockSalvageRate > 1 {
		logrus.Fatalf("DEAD_STOCK_SALVAGE_RATE must be in [0,1], got %v", cfg.DeadStockSalvageRate)
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		logrus.Fatalf("%s must be a number, got %q", key, v)
	}
	return f
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port string
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MigrationsPath  string
}

// PaymentConfig holds the bank-transfer details rendered to buyers at
// checkout. The storefront only supports manual payment, so an incomplete
// payment block disables order submission entirely.
type PaymentConfig struct {
	BankName      string
	AccountNumber string
	AccountName   string
	Currency      string
	Instructions  string
	DeadlineDays  int
}

// Configured reports whether every bank field required to show transfer
// instructions is present.
func (p PaymentConfig) Configured() bool {
	return p.BankName != "" && p.AccountNumber != "" && p.AccountName != ""
}

type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Payment  PaymentConfig
}

// Load reads configuration from the environment, optionally seeding it from
// a .env file first. Missing required database settings are returned as an
// error rather than defaulted.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: failed to load env file %s: %w", envPath, err)
		}
	}

	cfg := &Config{}

	cfg.App.Port = getEnv("APP_PORT", "8080")

	cfg.Postgres.Host = os.Getenv("DB_HOST")
	cfg.Postgres.Port = getEnv("DB_PORT", "5432")
	cfg.Postgres.User = os.Getenv("DB_USER")
	cfg.Postgres.Password = os.Getenv("DB_PASS")
	cfg.Postgres.DBName = os.Getenv("DB_NAME")
	cfg.Postgres.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Postgres.MigrationsPath = getEnv("DB_MIGRATIONS_PATH", "migrations")
	cfg.Postgres.MaxConns = 10
	cfg.Postgres.MinConns = 2
	cfg.Postgres.MaxConnLifetime = 30 * time.Minute

	for name, value := range map[string]string{
		"DB_HOST": cfg.Postgres.Host,
		"DB_USER": cfg.Postgres.User,
		"DB_NAME": cfg.Postgres.DBName,
	} {
		if value == "" {
			return nil, fmt.Errorf("config: %s is required", name)
		}
	}

	cfg.Payment.BankName = os.Getenv("BANK_NAME")
	cfg.Payment.AccountNumber = os.Getenv("BANK_ACCOUNT_NUMBER")
	cfg.Payment.AccountName = os.Getenv("BANK_ACCOUNT_NAME")
	cfg.Payment.Currency = getEnv("PAYMENT_CURRENCY", "NGN")
	cfg.Payment.Instructions = getEnv("PAYMENT_INSTRUCTIONS", "Please include your order number in the payment reference")
	cfg.Payment.DeadlineDays = getEnvInt("PAYMENT_DEADLINE_DAYS", 7)

	return cfg, nil
}

func getEnv(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(name string, fallback int) int {
	value := os.Getenv(name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

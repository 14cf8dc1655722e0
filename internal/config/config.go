package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	GiftCard    GiftCardConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type GiftCardConfig struct {
	Issuer          string
	DefaultCurrency string
	ExpiryYears     int
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("GIFT_CARD_ISSUER", "Perfume & Oud")
	viper.SetDefault("GIFT_CARD_CURRENCY", "AED")
	viper.SetDefault("GIFT_CARD_EXPIRY_YEARS", "2")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "retailapi"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		GiftCard: GiftCardConfig{
			Issuer:          getEnvOrViper("GIFT_CARD_ISSUER", "Perfume & Oud"),
			DefaultCurrency: getEnvOrViper("GIFT_CARD_CURRENCY", "AED"),
			ExpiryYears:     viper.GetInt("GIFT_CARD_EXPIRY_YEARS"),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	if cfg.GiftCard.ExpiryYears <= 0 {
		cfg.GiftCard.ExpiryYears = 2
	}
	if cfg.GiftCard.Issuer == "" {
		return nil, fmt.Errorf("GIFT_CARD_ISSUER is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

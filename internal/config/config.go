// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port     string
	LogLevel string

	DBDriver    string
	DBPath      string
	PostgresURL string

	ReceiptDir      string
	ReceiptTimezone string
	PrinterAddr     string

	KafkaBrokers []string
	ReceiptTopic string

	CartRetention time.Duration

	BusinessName   string
	BusinessSlogan string
	BusinessSocial string
	BusinessPhone  string
	CurrencySymbol string

	TracingEnabled bool
	OTLPEndpoint   string
}

func Load() Config {
	return Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver:    getEnv("DB_DRIVER", "sqlite"),
		DBPath:      getEnv("DB_PATH", "pos.db"),
		PostgresURL: getEnv("POSTGRES_URL", ""),

		ReceiptDir:      getEnv("RECEIPT_DIR", "receipts"),
		ReceiptTimezone: getEnv("RECEIPT_TIMEZONE", "Asia/Jakarta"),
		PrinterAddr:     getEnv("PRINTER_ADDR", ""),

		KafkaBrokers: getEnvList("KAFKA_BROKERS"),
		ReceiptTopic: getEnv("RECEIPT_TOPIC", "receipts"),

		CartRetention: getEnvDuration("CART_RETENTION", 30*time.Minute),

		BusinessName:   getEnv("BUSINESS_NAME", "secondcourse."),
		BusinessSlogan: getEnv("BUSINESS_SLOGAN", "'CAUSE FIRST IS NEVER ENOUGH'"),
		BusinessSocial: getEnv("BUSINESS_SOCIAL", "@secondcourse.id"),
		BusinessPhone:  getEnv("BUSINESS_PHONE", "0123456789"),
		CurrencySymbol: getEnv("CURRENCY_SYMBOL", "Rp"),

		TracingEnabled: getEnvBool("TRACING_ENABLED", false),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if strings.EqualFold(c.DBDriver, "postgres") {
		return c.PostgresURL
	}
	return c.DBPath
}

func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReceiptTimezone)
	if err != nil {
		return nil, fmt.Errorf("load receipt timezone %q: %w", c.ReceiptTimezone, err)
	}
	return loc, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}

	return b
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}

	return d
}

func getEnvList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

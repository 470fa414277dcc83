package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config is built once in main and passed down explicitly; request handling
// never reads ambient process state.
type Config struct {
	ServiceName string
	ServerPort  int

	DatabaseURL string

	JWTSecret []byte

	TaxRate        decimal.Decimal
	ShippingCost   decimal.Decimal
	PriceTolerance decimal.Decimal

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	LogLevel string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		ServiceName: envDefault("SERVICE_NAME", "candy-store"),
		ServerPort:  envIntDefault("SERVER_PORT", 8080),

		DatabaseURL: mustNonEmpty("DATABASE_URL"),

		JWTSecret: []byte(mustNonEmpty("JWT_SECRET")),

		TaxRate:        envDecimalDefault("TAX_RATE", "0.08"),
		ShippingCost:   envDecimalDefault("SHIPPING_COST", "2.99"),
		PriceTolerance: decimal.RequireFromString("0.01"),

		KafkaBrokers: csv(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    envDefault("ES_INDEX", "products"),

		LogLevel: envDefault("LOG_LEVEL", "info"),
	}

	return cfg
}

func mustNonEmpty(name string) string {
	v := os.Getenv(name)
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDecimalDefault(key, def string) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		v = def
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		log.Fatalf("env %s is not a valid decimal: %v", key, err)
	}
	return d
}

func csv(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

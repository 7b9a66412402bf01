package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup. PostgresDSN empty
// means the in-memory store; KafkaBrokers empty disables event publishing.
type Config struct {
	ListenAddr   string
	PostgresDSN  string
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads an optional .env file and then the environment.
func Load() Config {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		ListenAddr:  getenv("LISTEN_ADDR", ":8080"),
		PostgresDSN: os.Getenv("DATABASE_URL"),
		KafkaTopic:  getenv("KAFKA_TOPIC", "transaction_completed"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

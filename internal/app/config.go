package app

import "os"

type Config struct {
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	RedisAddr   string
	KafkaBroker string

	ConsumerGroupID string
}

func LoadConfig() Config {
	return Config{
		Port:            envOr("PORT", "8080"),
		DBHost:          envOr("DB_HOST", "localhost"),
		DBUser:          envOr("DB_USER", "postgres"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          envOr("DB_NAME", "payday"),
		DBPort:          envOr("DB_PORT", "5432"),
		DBSSLMode:       envOr("DB_SSLMODE", "disable"),
		RedisAddr:       envOr("REDIS_ADDR", "localhost:6379"),
		KafkaBroker:     envOr("KAFKA_BROKER", "localhost:9092"),
		ConsumerGroupID: envOr("KAFKA_GROUP_ID", "payday-payrun"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBUrl              string
	RedisURL           string
	RedisPassword      string
	GoogleClientID     string
	GoogleClientSecret string
	JWTSecret          string
	PaystackSecret     string
	PaystackChannels   []string
	MinDepositAmount   int64 // in kobo
	MinTransferAmount  int64 // in kobo
	APIKeyPrefix       string
	MaxActiveKeys      int
	Port               string
	Host               string
	Env                string
	AllowedOrigins     []string
}

func LoadConfig() Config {
	godotenv.Load()

	paystackChannels := strings.Split(getEnv("PAYSTACK_CHANNELS"), ",")

	return Config{
		DBUrl:              getEnv("DATABASE_URL"),
		RedisURL:           getEnv("REDIS_URL"),
		RedisPassword:      getEnvOrDefault("REDIS_PASSWORD", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET"),
		JWTSecret:          getEnv("JWT_SECRET"),
		PaystackSecret:     getEnv("PAYSTACK_SECRET"),
		PaystackChannels:   paystackChannels,
		MinDepositAmount:   getEnvInt64("MIN_DEPOSIT_AMOUNT", 100),
		MinTransferAmount:  getEnvInt64("MIN_TRANSFER_AMOUNT", 100),
		APIKeyPrefix:       getEnvOrDefault("API_KEY_PREFIX", "sk_live_"),
		MaxActiveKeys:      int(getEnvInt64("MAX_ACTIVE_KEYS", 5)),
		Port:               getEnv("PORT"),
		Host:               getEnv("HOST"),
		Env:                getEnv("ENV"),
		AllowedOrigins:     strings.Split(getEnv("ALLOWED_ORIGINS"), ","),
	}
}

func getEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	panic(fmt.Sprintf("%s is required", key))
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		panic(fmt.Sprintf("%s must be a valid integer", key))
	}
	return parsed
}

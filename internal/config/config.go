package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Port              string
	DatabaseURL       string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	TelegramToken     string
	TelegramChatID    int64
	LowStockThreshold int
}

func Load() Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	chatID, _ := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64)
	threshold, err := strconv.Atoi(getEnv("LOW_STOCK_THRESHOLD", "5"))
	if err != nil || threshold < 1 {
		threshold = 5
	}

	return Config{
		Port:              getEnv("PORT", "3000"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           redisDB,
		TelegramToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:    chatID,
		LowStockThreshold: threshold,
	}
}

func (c Config) Address() string {
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key string, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

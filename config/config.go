package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Redis    RedisConfig
	Sync     SyncConfig
	Business BusinessConfig
	Gemini   GeminiConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type StoreConfig struct {
	Backend string // memory | file | redis
	File    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SyncConfig struct {
	PollInterval time.Duration
}

type BusinessConfig struct {
	StartingCoins      int
	EventDurationHours int
	KitchenCodeword    string
	SeedDrinks         bool
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	pollSeconds, _ := strconv.Atoi(getEnv("POLL_INTERVAL_SECONDS", "2"))
	startingCoins, _ := strconv.Atoi(getEnv("STARTING_COINS", "3"))
	durationHours, _ := strconv.Atoi(getEnv("EVENT_DURATION_HOURS", "5"))

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", "memory"),
			File:    getEnv("STORE_FILE", "th_drinks.json"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Sync: SyncConfig{
			PollInterval: time.Duration(pollSeconds) * time.Second,
		},
		Business: BusinessConfig{
			StartingCoins:      startingCoins,
			EventDurationHours: durationHours,
			KitchenCodeword:    getEnv("KITCHEN_CODEWORD", "cozinha"),
			SeedDrinks:         getEnv("SEED_DRINKS", "false") == "true",
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, store=%s", cfg.Server.Env, cfg.Server.Port, cfg.Store.Backend)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

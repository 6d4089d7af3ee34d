package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr   string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	RedisAddr  string
	JWTSecret  string
	AppEnv     string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:   getenv("HTTP_ADDR", ":8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getenv("DB_PORT", "5432"),
		RedisAddr:  os.Getenv("REDIS_ADDR"), // empty disables the dashboard cache
		JWTSecret:  os.Getenv("SECRET_KEY"),
		AppEnv:     getenv("APP_ENV", "development"),
	}

	if cfg.DBHost == "" || cfg.DBName == "" {
		log.Fatal("Environment variables not loaded properly")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("SECRET_KEY is required")
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	AppPort         string
	AppEnv          string
	StripeSecretKey string
	Currency        string
	CourierShare    float64
	JWTSecret       string
	CheckoutBaseURL string
}

const defaultCourierShare = 0.8

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:          os.Getenv("DB_HOST"),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          os.Getenv("DB_NAME"),
		DBPort:          os.Getenv("DB_PORT"),
		AppPort:         os.Getenv("APP_PORT"),
		AppEnv:          os.Getenv("APP_ENV"),
		StripeSecretKey: os.Getenv("STRIPE_SECRET_KEY"),
		Currency:        os.Getenv("CURRENCY"),
		JWTSecret:       os.Getenv("SECRET_KEY"),
		CheckoutBaseURL: os.Getenv("CHECKOUT_BASE_URL"),
		CourierShare:    parseShare(os.Getenv("COURIER_SHARE")),
	}

	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func parseShare(raw string) float64 {
	if raw == "" {
		return defaultCourierShare
	}
	share, err := strconv.ParseFloat(raw, 64)
	if err != nil || share <= 0 || share > 1 {
		return defaultCourierShare
	}
	return share
}

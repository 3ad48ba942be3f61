package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type DBConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	MaxOpenConns int
	MaxIdleConns int
}

type AppConfig struct {
	HTTPAddr        string
	PaymentEndpoint string
}

// LoadConfigDB reads the database settings from config.env / environment.
func LoadConfigDB() (*DBConfig, error) {
	loadDotenv()

	port, err := strconv.Atoi(os.Getenv("DB_PORT"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	maxOpen, err := strconv.Atoi(os.Getenv("DB_MAX_OPEN_CONNS"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %w", err)
	}

	maxIdle, err := strconv.Atoi(os.Getenv("DB_MAX_IDLE_CONNS"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_IDLE_CONNS: %w", err)
	}

	return &DBConfig{
		Host:         os.Getenv("DB_HOST"),
		Port:         port,
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Name:         os.Getenv("DB_NAME"),
		MaxOpenConns: maxOpen,
		MaxIdleConns: maxIdle,
	}, nil
}

// LoadConfigApp reads the service-level settings.
func LoadConfigApp() (*AppConfig, error) {
	loadDotenv()

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	endpoint := os.Getenv("PAYMENT_ENDPOINT")
	if endpoint == "" {
		return nil, fmt.Errorf("PAYMENT_ENDPOINT is required")
	}

	return &AppConfig{
		HTTPAddr:        addr,
		PaymentEndpoint: endpoint,
	}, nil
}

func loadDotenv() {
	// config.env is optional; plain env vars win in containerized runs
	_ = godotenv.Load(filepath.Join("config.env"))
}

package config

import (
	"fmt"
	"os"
	"strconv"
)

type DBConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifeTime int // минут
}

type AppConfig struct {
	DB DBConfig

	HTTPAddr string

	JWTSecret  string
	JWTTTLMin  int
	AdminUser  string
	AdminPass  string
	AdminEmail string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		DB: DBConfig{
			Host:            getEnv("DB_HOST", "postgres"),
			User:            getEnv("DB_USER", "scheduler"),
			Password:        getEnv("DB_PASSWORD", "scheduler"),
			Name:            getEnv("DB_NAME", "scheduler_db"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			Port:            getEnvInt("DB_PORT", 5432),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifeTime: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 30),
		},

		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTLMin: getEnvInt("JWT_TTL_MIN", 120),

		// Учётка администратора, создаваемая при первом старте.
		AdminUser:  getEnv("ADMIN_USERNAME", "admin"),
		AdminPass:  getEnv("ADMIN_PASSWORD", "admin123"),
		AdminEmail: getEnv("ADMIN_EMAIL", "admin@hems.local"),
	}

	// минимальная валидация
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, fmt.Errorf("invalid DB config: host/user/name must not be empty")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("invalid config: JWT_SECRET must be set")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

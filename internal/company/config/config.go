// Package config loads the service configuration from a YAML file, with
// environment variables overriding the secrets.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the company service.
type Config struct {
	HTTPPort       int      `yaml:"HTTP_PORT"`
	StorageDriver  string   `yaml:"STORAGE_DRIVER"` // memory | postgres
	DBHost         string   `yaml:"DB_HOST"`
	DBPort         int      `yaml:"DB_PORT"`
	DBUser         string   `yaml:"DB_USER"`
	DBPassword     string   `yaml:"DB_PASSWORD"`
	DBName         string   `yaml:"DB_NAME"`
	DBSSLMode      string   `yaml:"DB_SSLMODE"`
	KafkaBrokers   []string `yaml:"KAFKA_BROKERS"`
	Topic          string   `yaml:"TOPIC"`
	ConsumerGroup  string   `yaml:"CONSUMER_GROUP"`
	AuditEnabled   bool     `yaml:"AUDIT_ENABLED"`
	JWTSecret      string   `yaml:"JWT_SECRET"`
	IDGenerator    string   `yaml:"ID_GENERATOR"` // token | uuid
	CacheDriver    string   `yaml:"CACHE_DRIVER"` // memory | redis | off
	RedisAddr      string   `yaml:"REDIS_ADDR"`
	RedisPassword  string   `yaml:"REDIS_PASSWORD"`
	RedisDB        int      `yaml:"REDIS_DB"`
	CachePrefix    string   `yaml:"CACHE_PREFIX"`
	ReportCacheTTL int      `yaml:"REPORT_CACHE_TTL_SECONDS"`
}

// Load reads the YAML file at path. A .env file, when present, and the
// process environment override credentials and the broker list.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{
		HTTPPort:       8080,
		StorageDriver:  "memory",
		DBSSLMode:      "disable",
		Topic:          "adhesion-events",
		ConsumerGroup:  "company-audit",
		IDGenerator:    "token",
		CacheDriver:    "memory",
		CachePrefix:    "interbanking",
		ReportCacheTTL: 60,
	}
	if err := yaml.Unmarshal(file, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.DBPassword = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.RedisPassword = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.KafkaBrokers = strings.Split(v, ",")
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		c.StorageDriver = v
	}
}

// ReportTTL returns the report cache TTL as a duration.
func (c *Config) ReportTTL() time.Duration {
	return time.Duration(c.ReportCacheTTL) * time.Second
}

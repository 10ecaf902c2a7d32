package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging  Logging  `yaml:"logging"`
	OrderAPI OrderAPI `yaml:"order_api"`
	Redis    Redis    `yaml:"redis"`
	RMQ      RabbitMQ `yaml:"rabbitmq"`
	Auth     Auth     `yaml:"auth"`
}

type Logging struct {
	Format string `yaml:"format"` // json or text
	Level  string `yaml:"level"`
}

type OrderAPI struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	LoginURL       string `yaml:"login_url"`
	BranchID       string `yaml:"branch_id"`
}

func (o OrderAPI) Timeout() time.Duration {
	if o.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(o.TimeoutSeconds) * time.Second
}

type Redis struct {
	Host            string `yaml:"host"`
	Port            string `yaml:"port"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	DraftTTLMinutes int    `yaml:"draft_ttl_minutes"`
}

func (r Redis) Addr() string {
	return r.Host + ":" + r.Port
}

func (r Redis) DraftTTL() time.Duration {
	if r.DraftTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(r.DraftTTLMinutes) * time.Minute
}

type RabbitMQ struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	VHost    string `yaml:"vhost"`
}

func (r RabbitMQ) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/%s", r.User, r.Password, r.Host, r.Port, r.VHost)
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// LoadConfig reads the YAML config file and applies environment overrides
// for values that differ between deployments.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Logging: Logging{Format: "json", Level: "info"},
		OrderAPI: OrderAPI{
			BaseURL:        "http://localhost:8080",
			TimeoutSeconds: 30,
			LoginURL:       "/login",
		},
		Redis: Redis{Host: "localhost", Port: "6379"},
		RMQ: RabbitMQ{
			User:     "guest",
			Password: "guest",
			Host:     "localhost",
			Port:     "5672",
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.OrderAPI.BaseURL = getEnv("ORDER_API_URL", cfg.OrderAPI.BaseURL)
	cfg.Redis.Host = getEnv("REDIS_HOST", cfg.Redis.Host)
	cfg.Redis.Port = getEnv("REDIS_PORT", cfg.Redis.Port)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.RMQ.User = getEnv("RABBITMQ_USER", cfg.RMQ.User)
	cfg.RMQ.Password = getEnv("RABBITMQ_PASSWORD", cfg.RMQ.Password)
	cfg.RMQ.Host = getEnv("RABBITMQ_HOST", cfg.RMQ.Host)
	cfg.RMQ.Port = getEnv("RABBITMQ_PORT", cfg.RMQ.Port)
	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

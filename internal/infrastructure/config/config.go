package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything main needs to assemble the service.
type Config struct {
	ServiceName string
	Environment string
	Version     string
	Log         LogConfig
	HTTP        HTTPConfig
	PayPal      CircuitConfig
	CreditCard  CircuitConfig
	OTel        OTelConfig
}

type LogConfig struct {
	Level string
	File  string
}

type HTTPConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// CircuitConfig drives a simulated circuit. A disabled circuit stays unbound.
type CircuitConfig struct {
	Enabled     bool
	SuccessRate float64
	FaultRate   float64
	Latency     time.Duration
}

type OTelConfig struct {
	Enabled  bool
	Endpoint string
	Insecure bool
}

// Load reads the environment, after merging an optional .env file.
func Load() (*Config, error) {
	// missing .env is fine
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "paygate"),
		Environment: getEnv("ENV", "dev"),
		Version:     getEnv("SERVICE_VERSION", "0.1.0"),
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
		HTTP: HTTPConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			ReadTimeout:     getEnvAsDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		PayPal: CircuitConfig{
			Enabled:     getEnvAsBool("PAYPAL_ENABLED", true),
			SuccessRate: getEnvAsFloat("PAYPAL_SUCCESS_RATE", 0.7),
			FaultRate:   getEnvAsFloat("PAYPAL_FAULT_RATE", 0),
			Latency:     getEnvAsDuration("PAYPAL_LATENCY", 0),
		},
		CreditCard: CircuitConfig{
			Enabled:     getEnvAsBool("CREDITCARD_ENABLED", true),
			SuccessRate: getEnvAsFloat("CREDITCARD_SUCCESS_RATE", 0.9),
			FaultRate:   getEnvAsFloat("CREDITCARD_FAULT_RATE", 0),
			Latency:     getEnvAsDuration("CREDITCARD_LATENCY", 0),
		},
		OTel: OTelConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
			Insecure: getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	for name, cc := range map[string]CircuitConfig{"PAYPAL": c.PayPal, "CREDITCARD": c.CreditCard} {
		if cc.SuccessRate < 0 || cc.SuccessRate > 1 {
			return fmt.Errorf("%s_SUCCESS_RATE must be within [0,1], got %v", name, cc.SuccessRate)
		}
		if cc.FaultRate < 0 || cc.FaultRate > 1 {
			return fmt.Errorf("%s_FAULT_RATE must be within [0,1], got %v", name, cc.FaultRate)
		}
	}
	if !c.PayPal.Enabled && !c.CreditCard.Enabled {
		return fmt.Errorf("at least one of PAYPAL_ENABLED or CREDITCARD_ENABLED must be true")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

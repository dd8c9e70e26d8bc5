package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the gateway.
type Config struct {
	LogLevel   string
	ServerAddr string
	MaxRetries int
	RetryDelay time.Duration
	HTTP       HTTPConfig
	Solana     SolanaConfig
	Portal     PortalConfig
	Paymaster  PaymasterConfig
	Explorer   ExplorerConfig
	Balance    BalanceConfig
	Kafka      KafkaConfig
}

// HTTPConfig holds HTTP client configuration for RPC and paymaster calls.
type HTTPConfig struct {
	Timeout time.Duration
}

// SolanaConfig holds the RPC endpoint configuration.
type SolanaConfig struct {
	RpcEndpoint string
	ApiKey      string
	RateLimit   float64
	Commitment  string
}

// PortalConfig holds the passkey signing portal configuration. The portal
// gets no request timeout of its own: a signing call suspends until the
// user completes or declines the ceremony.
type PortalConfig struct {
	URL string
}

// PaymasterConfig holds the fee-sponsorship service configuration.
type PaymasterConfig struct {
	URL string
}

// ExplorerConfig holds block explorer link configuration.
type ExplorerConfig struct {
	BaseURL string
	Cluster string
}

// BalanceConfig holds balance tracking configuration.
type BalanceConfig struct {
	PollInterval time.Duration
}

// KafkaConfig holds Kafka configuration for transfer events.
type KafkaConfig struct {
	BrokerAddress string
	Topic         string
	BatchSize     int
	BatchTimeout  time.Duration
}

// Load loads configuration from environment variables. Defaults point at
// the Solana devnet.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Not fatal, as env vars might be set externally
	}

	config := &Config{
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		MaxRetries: getEnvAsInt("MAX_RETRIES", 1),
		RetryDelay: time.Duration(getEnvAsInt("RETRY_DELAY", 5)) * time.Second,
		HTTP: HTTPConfig{
			Timeout: time.Duration(getEnvAsInt("HTTP_TIMEOUT", 30)) * time.Second,
		},
		Solana: SolanaConfig{
			RpcEndpoint: getEnv("SOLANA_RPC_ENDPOINT", "https://api.devnet.solana.com"),
			ApiKey:      getEnv("SOLANA_API_KEY", ""),
			RateLimit:   getEnvAsFloat("SOLANA_RATE_LIMIT", 4),
			Commitment:  getEnv("SOLANA_COMMITMENT", "confirmed"),
		},
		Portal: PortalConfig{
			URL: getEnv("PASSKEY_PORTAL_URL", "https://portal.devnet.example.com"),
		},
		Paymaster: PaymasterConfig{
			URL: getEnv("PAYMASTER_URL", "https://paymaster.devnet.example.com"),
		},
		Explorer: ExplorerConfig{
			BaseURL: getEnv("EXPLORER_BASE_URL", "https://explorer.solana.com"),
			Cluster: getEnv("EXPLORER_CLUSTER", "devnet"),
		},
		Balance: BalanceConfig{
			PollInterval: time.Duration(getEnvAsInt("BALANCE_POLL_INTERVAL", 10)) * time.Second,
		},
		Kafka: KafkaConfig{
			BrokerAddress: getEnv("KAFKA_BROKER_ADDRESS", "localhost:9092"),
			Topic:         getEnv("KAFKA_TOPIC", "wallet-transfers"),
			BatchSize:     getEnvAsInt("KAFKA_BATCH_SIZE", 10),
			BatchTimeout:  time.Duration(getEnvAsInt("KAFKA_BATCH_TIMEOUT", 5)) * time.Second,
		},
	}

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloat gets an environment variable as float64 or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

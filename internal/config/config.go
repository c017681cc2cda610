/**
 * @description
 * This package handles the configuration management for the service. It uses
 * the Viper library to read configuration from environment variables, with an
 * optional .env file for local development, providing a centralized and
 * straightforward way to manage application settings.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all the configuration variables for the transfer-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort                string `mapstructure:"SERVER_PORT"`
	DatabaseURL               string `mapstructure:"DATABASE_URL"`
	RabbitMQURL               string `mapstructure:"RABBITMQ_URL"`
	TransferEventQueue        string `mapstructure:"TRANSFER_EVENT_QUEUE"`
	TransferEventExchange     string `mapstructure:"TRANSFER_EVENT_EXCHANGE"`
	TransferRoutingKey        string `mapstructure:"TRANSFER_ROUTING_KEY"`
	ProcessedRoutingKey       string `mapstructure:"PROCESSED_ROUTING_KEY"`
	IncentiveAPIBaseURL       string `mapstructure:"INCENTIVE_API_BASE_URL"`
	IncentiveTimeoutMS        int    `mapstructure:"INCENTIVE_TIMEOUT_MS"`
	RedisURL                  string `mapstructure:"REDIS_URL"`
	RedisRateLimitPrefix      string `mapstructure:"REDIS_RATE_LIMIT_PREFIX"`
	BalanceRateLimitPerMinute int    `mapstructure:"BALANCE_RATE_LIMIT_PER_MINUTE"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("TRANSFER_EVENT_QUEUE", "transfer_service.transfer_requests")
	viper.SetDefault("TRANSFER_EVENT_EXCHANGE", "transfers")
	viper.SetDefault("TRANSFER_ROUTING_KEY", "transfer.requested")
	viper.SetDefault("PROCESSED_ROUTING_KEY", "transfer.processed")
	viper.SetDefault("INCENTIVE_TIMEOUT_MS", 3000)
	viper.SetDefault("REDIS_RATE_LIMIT_PREFIX", "transfer_service:rate_limit")
	viper.SetDefault("BALANCE_RATE_LIMIT_PER_MINUTE", 120)

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("TRANSFER_EVENT_QUEUE")
	_ = viper.BindEnv("TRANSFER_EVENT_EXCHANGE")
	_ = viper.BindEnv("TRANSFER_ROUTING_KEY")
	_ = viper.BindEnv("PROCESSED_ROUTING_KEY")
	_ = viper.BindEnv("INCENTIVE_API_BASE_URL")
	_ = viper.BindEnv("INCENTIVE_TIMEOUT_MS")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_RATE_LIMIT_PREFIX")
	_ = viper.BindEnv("BALANCE_RATE_LIMIT_PER_MINUTE")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}

	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RedisRateLimitPrefix = strings.TrimSpace(config.RedisRateLimitPrefix)
	if config.RedisRateLimitPrefix == "" {
		config.RedisRateLimitPrefix = "transfer_service:rate_limit"
	}

	if config.IncentiveTimeoutMS <= 0 {
		log.Printf("level=warn component=config msg=\"non-positive incentive timeout configured; using default\" timeout_ms=%d", config.IncentiveTimeoutMS)
		config.IncentiveTimeoutMS = 3000
	}
	if config.BalanceRateLimitPerMinute < 0 {
		log.Printf("level=warn component=config msg=\"negative balance rate limit configured; disabling\" limit=%d", config.BalanceRateLimitPerMinute)
		config.BalanceRateLimitPerMinute = 0
	}

	return
}

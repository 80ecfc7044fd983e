package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisSchedulerDB  int    `mapstructure:"REDIS_SCHEDULER_DB"`
	RedisAgentCtxDB   int    `mapstructure:"REDIS_AGENT_CTX_DB"`
	RedisSweepQueueDB int    `mapstructure:"REDIS_SWEEP_QUEUE_DB"`

	// MongoDB, used for the delivery log.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// WhatsApp Cloud API.
	WhatsAppPhoneNumberID string `mapstructure:"WHATSAPP_PHONE_NUMBER_ID"`
	WhatsAppAccessToken   string `mapstructure:"WHATSAPP_ACCESS_TOKEN"`
	WhatsAppVerifyToken   string `mapstructure:"WHATSAPP_VERIFY_TOKEN"`
	// Comma-separated list of phone numbers allowed to talk to the bot.
	// Empty means everyone is allowed.
	AllowedNumbers string `mapstructure:"ALLOWED_NUMBERS"`

	// Gemini API key for the investment agent.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Sweep cadence, as an asynq cron spec.
	SweepSchedule string `mapstructure:"SWEEP_SCHEDULE"`
	// Per-entry budget for agent + send work during a sweep, in seconds.
	SweepEntryTimeoutSecs int `mapstructure:"SWEEP_ENTRY_TIMEOUT_SECS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_SCHEDULER_DB", 0)
	viper.SetDefault("REDIS_AGENT_CTX_DB", 1)
	viper.SetDefault("REDIS_SWEEP_QUEUE_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("WHATSAPP_PHONE_NUMBER_ID", "")
	viper.SetDefault("WHATSAPP_ACCESS_TOKEN", "")
	viper.SetDefault("WHATSAPP_VERIFY_TOKEN", "")
	viper.SetDefault("ALLOWED_NUMBERS", "")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("SWEEP_SCHEDULE", "@every 1m")
	viper.SetDefault("SWEEP_ENTRY_TIMEOUT_SECS", 90)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// AllowedNumberSet returns the allow-list as a set of normalized numbers.
func AllowedNumberSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, n := range strings.Split(AppConfig.AllowedNumbers, ",") {
		n = strings.TrimSpace(strings.TrimPrefix(n, "+"))
		if n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

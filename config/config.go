package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Gemini API key for booking-detail extraction.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`

	// Reservation system (bookingbe) configuration.
	BookingAPIURL string `mapstructure:"BOOKING_API_URL"`
	AdminUsername string `mapstructure:"ADMIN_USERNAME"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`

	// Twilio WhatsApp configuration.
	TwilioAccountSID     string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken      string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioWhatsAppNumber string `mapstructure:"TWILIO_WHATSAPP_NUMBER"`

	// IMAP mailbox polling configuration.
	GmailUser           string `mapstructure:"GMAIL_USER"`
	GmailAppPassword    string `mapstructure:"GMAIL_APP_PASSWORD"`
	IMAPAddr            string `mapstructure:"IMAP_ADDR"`
	MailPollIntervalMin int    `mapstructure:"MAIL_POLL_INTERVAL_MIN"`

	// Redis configuration (mailbox dedup).
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDedupDB  int    `mapstructure:"REDIS_DEDUP_DB"`

	// Self-ping target to keep free-tier hosting awake. Empty disables it.
	KeepAliveURL string `mapstructure:"KEEP_ALIVE_URL"`
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
	viper.SetDefault("BOOKING_API_URL", "https://bookingbe.heykoala.ai")
	viper.SetDefault("IMAP_ADDR", "imap.gmail.com:993")
	viper.SetDefault("MAIL_POLL_INTERVAL_MIN", 2)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DEDUP_DB", 0)
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("KEEP_ALIVE_URL", "")

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

/**
 * @description
 * This file handles the configuration management for the property service.
 * It uses the 'viper' library to load configuration from environment variables,
 * providing a centralized and consistent way to manage application settings.
 *
 * A misconfigured reminder window or sweep schedule makes the scheduler wrong
 * for every lease, so those values are validated here and surfaced as errors
 * that abort startup.
 */
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	ServerPort     string `mapstructure:"SERVER_PORT"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	RabbitMQURL    string `mapstructure:"RABBITMQ_URL"`
	AllowedOrigin  string `mapstructure:"ALLOWED_ORIGIN"`
	APISecretKey   string `mapstructure:"API_SECRET_KEY"`
	StripeAPIURL   string `mapstructure:"STRIPE_API_URL"`
	StripeSecret   string `mapstructure:"STRIPE_SECRET_KEY"`
	StripeWebhook  string `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	ResendAPIURL   string `mapstructure:"RESEND_API_URL"`
	ResendAPIKey   string `mapstructure:"RESEND_API_KEY"`
	ResendFrom     string `mapstructure:"RESEND_FROM_ADDRESS"`
	TwilioAPIURL   string `mapstructure:"TWILIO_API_URL"`
	TwilioSID      string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioToken    string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFrom     string `mapstructure:"TWILIO_FROM_NUMBER"`
	BaseURL        string `mapstructure:"BASE_URL"`
	SweepSchedule  string `mapstructure:"REMINDER_SWEEP_SCHEDULE"`
	ReminderWindow int    `mapstructure:"REMINDER_WINDOW_DAYS"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("STRIPE_API_URL", "https://api.stripe.com")
	viper.SetDefault("RESEND_API_URL", "https://api.resend.com")
	viper.SetDefault("TWILIO_API_URL", "https://api.twilio.com")
	viper.SetDefault("REMINDER_SWEEP_SCHEDULE", "0 */6 * * *")
	viper.SetDefault("REMINDER_WINDOW_DAYS", 3)
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("ALLOWED_ORIGIN")
	_ = viper.BindEnv("API_SECRET_KEY")
	_ = viper.BindEnv("STRIPE_API_URL")
	_ = viper.BindEnv("STRIPE_SECRET_KEY")
	_ = viper.BindEnv("STRIPE_WEBHOOK_SECRET")
	_ = viper.BindEnv("RESEND_API_URL")
	_ = viper.BindEnv("RESEND_API_KEY")
	_ = viper.BindEnv("RESEND_FROM_ADDRESS")
	_ = viper.BindEnv("TWILIO_API_URL")
	_ = viper.BindEnv("TWILIO_ACCOUNT_SID")
	_ = viper.BindEnv("TWILIO_AUTH_TOKEN")
	_ = viper.BindEnv("TWILIO_FROM_NUMBER")
	_ = viper.BindEnv("BASE_URL")
	_ = viper.BindEnv("REMINDER_SWEEP_SCHEDULE")
	_ = viper.BindEnv("REMINDER_WINDOW_DAYS")

	if err = viper.Unmarshal(&config); err != nil {
		return config, err
	}

	if config.DatabaseURL == "" {
		return config, fmt.Errorf("DATABASE_URL is required")
	}
	if config.ReminderWindow < 0 {
		return config, fmt.Errorf("REMINDER_WINDOW_DAYS must not be negative, got %d", config.ReminderWindow)
	}
	if config.SweepSchedule == "" {
		return config, fmt.Errorf("REMINDER_SWEEP_SCHEDULE must not be empty")
	}

	return config, nil
}

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
	JWTSecret         string `mapstructure:"JWT_SECRET"`

	// Redis configuration.
	RedisAddr         string `mapstructure:"REDIS_ADDR"`
	RedisPassword     string `mapstructure:"REDIS_PASSWORD"`
	RedisCheckpointDB int    `mapstructure:"REDIS_CHECKPOINT_DB"`
	RedisReminderDB   int    `mapstructure:"REDIS_REMINDER_DB"`

	// MongoDB (meeting archive).
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Reasoning oracle.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`

	// Calendar dispatch service.
	CalendarServiceURL string `mapstructure:"CALENDAR_SERVICE_URL"`

	// Session policy.
	SessionTTLMinutes int `mapstructure:"SESSION_TTL_MINUTES"`

	// Scheduling policy.
	BusinessHoursStart     int    `mapstructure:"BUSINESS_HOURS_START"`
	BusinessHoursEnd       int    `mapstructure:"BUSINESS_HOURS_END"`
	DefaultMeetingDuration int    `mapstructure:"DEFAULT_MEETING_DURATION"`
	AvailabilityDataFile   string `mapstructure:"AVAILABILITY_DATA_FILE"`

	// Reminder lead time before meeting start, in minutes.
	ReminderLeadMinutes int `mapstructure:"REMINDER_LEAD_MINUTES"`
}

var AppConfig Config

// FirebaseServiceAccountKeyPath points at the FCM service account JSON.
var FirebaseServiceAccountKeyPath = "config/service_account_key.json"

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
	viper.SetDefault("REDIS_CHECKPOINT_DB", 0)
	viper.SetDefault("REDIS_REMINDER_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	viper.SetDefault("CALENDAR_SERVICE_URL", "http://calendar-service:8000/events")
	viper.SetDefault("SESSION_TTL_MINUTES", 120)
	viper.SetDefault("BUSINESS_HOURS_START", 8)
	viper.SetDefault("BUSINESS_HOURS_END", 17)
	viper.SetDefault("DEFAULT_MEETING_DURATION", 30)
	viper.SetDefault("AVAILABILITY_DATA_FILE", "config/availability.json")
	viper.SetDefault("REMINDER_LEAD_MINUTES", 10)

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

package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Optional collaborators. Empty values select in-process fallbacks.
	RedisAddr string `mapstructure:"REDIS_ADDR"`
	AMQPURL   string `mapstructure:"AMQP_URL"`

	// Transfer initiation limiting, per sender account.
	TransferRateLimit  int           `mapstructure:"TRANSFER_RATE_LIMIT"`
	TransferRateWindow time.Duration `mapstructure:"TRANSFER_RATE_WINDOW"`

	// Cron schedule for the pending fund expiry sweep.
	PendingFundSweepSchedule string `mapstructure:"PENDING_FUND_SWEEP_SCHEDULE"`

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "wallet-backend")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("TRANSFER_RATE_LIMIT", 5)
	viper.SetDefault("TRANSFER_RATE_WINDOW", "60s")
	viper.SetDefault("PENDING_FUND_SWEEP_SCHEDULE", "@every 1m")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}

	transferWindowStr := viper.GetString("TRANSFER_RATE_WINDOW")
	transferWindow, err := time.ParseDuration(transferWindowStr)
	if err != nil {
		transferWindow = 60 * time.Second
		log.Printf("Warning: Invalid value for TRANSFER_RATE_WINDOW ('%s'). Defaulting to %s.\n", transferWindowStr, transferWindow.String())
	}

	transferLimit := viper.GetInt("TRANSFER_RATE_LIMIT")
	if transferLimit <= 0 {
		transferLimit = 5
		log.Printf("Warning: Invalid value for TRANSFER_RATE_LIMIT. Defaulting to %d.\n", transferLimit)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.AMQPURL = viper.GetString("AMQP_URL")
	cfg.TransferRateLimit = transferLimit
	cfg.TransferRateWindow = transferWindow
	cfg.PendingFundSweepSchedule = viper.GetString("PENDING_FUND_SWEEP_SCHEDULE")
	cfg.CORSAllowedOrigins = viper.GetStringSlice("CORS_ALLOWED_ORIGINS")

	return cfg, nil
}

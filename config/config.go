package config

import (
	"errors"
	"log"
	"time"

	"portfolio/models"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`

	// Peers allowed to set X-Forwarded-For; empty trusts none.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`

	// Document store.
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DatabaseName  string `mapstructure:"DATABASE_NAME"`
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Payment gateway.
	PaymentKeySecret    string        `mapstructure:"PAYMENT_KEY_SECRET"`
	StripeKey           string        `mapstructure:"STRIPE_KEY"`
	StripeWebhookSecret string        `mapstructure:"STRIPE_WEBHOOK_SECRET"`
	GatewayTimeout      time.Duration `mapstructure:"GATEWAY_TIMEOUT"`

	// Outbound mail.
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	EmailFrom    string `mapstructure:"EMAIL_FROM"`

	// Booking and purchase policy.
	ClientURL            string        `mapstructure:"CLIENT_URL"`
	MeetingLink          string        `mapstructure:"MEETING_LINK"`
	BookingTimezone      string        `mapstructure:"BOOKING_TIMEZONE"`
	PendingBookingTTL    time.Duration `mapstructure:"PENDING_BOOKING_TTL"`
	AvailabilityCacheTTL time.Duration `mapstructure:"AVAILABILITY_CACHE_TTL"`
	DownloadLinkTTL      time.Duration `mapstructure:"DOWNLOAD_LINK_TTL"`
	PurchaseTTL          time.Duration `mapstructure:"PURCHASE_TTL"`
	MaxDownloads         int           `mapstructure:"MAX_DOWNLOADS"`

	// File delivery and owner alerts; both optional.
	CloudinaryURL       string `mapstructure:"CLOUDINARY_URL"`
	FirebaseCredentials string `mapstructure:"FIREBASE_CREDENTIALS"`
	OwnerAlertTopic     string `mapstructure:"OWNER_ALERT_TOPIC"`

	// Catalog seeds the in-memory store when STORAGE_DRIVER=memory.
	Catalog CatalogSeed `mapstructure:"catalog"`
}

// CatalogSeed is the catalog section of config.yaml.
type CatalogSeed struct {
	Services  []models.Service  `mapstructure:"services"`
	Resources []models.Resource `mapstructure:"resources"`
}

// LoadConfig reads config.yaml (if present) and the environment into a Config.
func LoadConfig() (*Config, error) {
	v := viper.New()
	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	// Automatically use environment variables where available.
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TRUSTED_PROXIES", []string{})
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "portfolio")
	v.SetDefault("STORAGE_DRIVER", "mongo")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("PAYMENT_KEY_SECRET", "")
	v.SetDefault("STRIPE_KEY", "")
	v.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	v.SetDefault("GATEWAY_TIMEOUT", "10s")
	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", "1025")
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("EMAIL_FROM", "no-reply@portfolio.local")
	v.SetDefault("CLIENT_URL", "http://localhost:5173")
	v.SetDefault("MEETING_LINK", "https://meet.google.com/new")
	v.SetDefault("BOOKING_TIMEZONE", "UTC")
	v.SetDefault("PENDING_BOOKING_TTL", "30m")
	v.SetDefault("AVAILABILITY_CACHE_TTL", "1m")
	v.SetDefault("DOWNLOAD_LINK_TTL", "24h")
	v.SetDefault("PURCHASE_TTL", "720h")
	v.SetDefault("MAX_DOWNLOADS", 5)
	v.SetDefault("CLOUDINARY_URL", "")
	v.SetDefault("FIREBASE_CREDENTIALS", "")
	v.SetDefault("OWNER_ALERT_TOPIC", "bookings")
}

// Validate rejects configurations that cannot run safely.
func (c *Config) Validate() error {
	if c.StorageDriver != "mongo" && c.StorageDriver != "memory" {
		return errors.New("STORAGE_DRIVER must be mongo or memory")
	}
	if c.MaxDownloads <= 0 {
		return errors.New("MAX_DOWNLOADS must be positive")
	}
	if _, err := time.LoadLocation(c.BookingTimezone); err != nil {
		return errors.New("BOOKING_TIMEZONE is not a known location")
	}
	if c.IsProduction() {
		if c.JWTSecret == "" {
			return errors.New("JWT_SECRET is required in production")
		}
		if c.PaymentKeySecret == "" {
			return errors.New("PAYMENT_KEY_SECRET is required in production")
		}
	}
	return nil
}

// Location returns the zone bookable wall-clock hours are expressed in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.BookingTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Email     EmailConfig     `yaml:"email"`
	JWT       JWTConfig       `yaml:"jwt"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Redis     RedisConfig     `yaml:"redis"`
	Push      PushConfig      `yaml:"push"`
	Sentry    SentryConfig    `yaml:"sentry"`
	Plugins   PluginsConfig   `yaml:"plugins"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Site      SiteConfig      `yaml:"site"`
}

// ServerConfig contains HTTP and health listener settings
type ServerConfig struct {
	Host         string        `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	HealthPort   int           `yaml:"health_port" env:"SERVER_HEALTH_PORT" env-default:"8081"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string `yaml:"host" env:"DB_HOST"`
	Port         int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User         string `yaml:"user" env:"DB_USER"`
	Password     string `yaml:"password" env:"DB_PASSWORD"`
	Database     string `yaml:"database" env:"DB_NAME"`
	SSLMode      string `yaml:"ssl_mode" env:"DB_SSL_MODE" env-default:"disable"`
	MaxOpenConns int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"20"`
}

// SMTPConfig contains email server settings
type SMTPConfig struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User     string `yaml:"user" env:"SMTP_USER"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"SMTP_FROM"`
}

// EmailConfig selects the outgoing mail provider
type EmailConfig struct {
	Provider       string `yaml:"provider" env:"EMAIL_PROVIDER" env-default:"smtp"` // "smtp", "sendgrid" or "log"
	SendGridAPIKey string `yaml:"sendgrid_api_key" env:"SENDGRID_API_KEY"`
	FromName       string `yaml:"from_name" env:"EMAIL_FROM_NAME" env-default:"Pinax"`
}

// JWTConfig contains token settings
type JWTConfig struct {
	Secret             string `yaml:"secret" env:"JWT_SECRET"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes" env:"JWT_ACCESS_EXPIRY_MINUTES" env-default:"60"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes" env:"JWT_REFRESH_EXPIRY_MINUTES" env-default:"10080"`
}

// StorageConfig contains media file storage settings
type StorageConfig struct {
	UploadDir    string   `yaml:"upload_dir" env:"UPLOAD_DIR"`
	BaseURL      string   `yaml:"base_url" env:"STORAGE_BASE_URL" env-default:"http://localhost:8080"`
	MaxFileSize  int64    `yaml:"max_file_size_mb" env:"STORAGE_MAX_FILE_SIZE_MB" env-default:"10"`
	AllowedTypes []string `yaml:"allowed_types" env:"STORAGE_ALLOWED_TYPES" env-default:"image/jpeg,image/png,image/gif"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"` // "json" or "text"
}

// RedisConfig contains the feed cache connection
type RedisConfig struct {
	Enabled        bool   `yaml:"enabled" env:"REDIS_ENABLED"`
	Address        string `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password       string `yaml:"password" env:"REDIS_PASSWORD"`
	DB             int    `yaml:"db" env:"REDIS_DB"`
	FeedTTLSeconds int    `yaml:"feed_ttl_seconds" env:"REDIS_FEED_TTL_SECONDS" env-default:"900"`
}

// PushConfig enables Firebase push delivery of notices
type PushConfig struct {
	Enabled         bool   `yaml:"enabled" env:"PUSH_ENABLED"`
	CredentialsFile string `yaml:"credentials_file" env:"PUSH_CREDENTIALS_FILE"`
}

// SentryConfig enables server error reporting
type SentryConfig struct {
	DSN         string `yaml:"dsn" env:"SENTRY_DSN"`
	Environment string `yaml:"environment" env:"SENTRY_ENVIRONMENT" env-default:"development"`
}

// PluginsConfig locates plugin manifests and templates
type PluginsConfig struct {
	ManifestDir    string   `yaml:"manifest_dir" env:"PLUGINS_MANIFEST_DIR" env-default:"apps"`
	TemplateDirs   []string `yaml:"template_dirs" env:"PLUGINS_TEMPLATE_DIRS" env-default:"templates"`
	Watch          bool     `yaml:"watch" env:"PLUGINS_WATCH"`
	DebounceMillis int      `yaml:"debounce_millis" env:"PLUGINS_DEBOUNCE_MILLIS" env-default:"500"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ExpireJoinInvitations string `yaml:"expire_join_invitations"`
	PurgeMessages         string `yaml:"purge_messages"`
	EmitNotices           string `yaml:"emit_notices"`
	RefreshFeeds          string `yaml:"refresh_feeds"`
	SyncPlugins           string `yaml:"sync_plugins"` // empty disables the job
}

// SiteConfig contains site-wide behavior settings
type SiteConfig struct {
	Name                  string `yaml:"name" env:"SITE_NAME" env-default:"Pinax"`
	BaseURL               string `yaml:"base_url" env:"SITE_BASE_URL" env-default:"http://localhost:8080"`
	InvitationExpiryDays  int    `yaml:"invitation_expiry_days" env:"SITE_INVITATION_EXPIRY_DAYS"`
	EmailConfirmationDays int    `yaml:"email_confirmation_days" env:"SITE_EMAIL_CONFIRMATION_DAYS"`
	MessagePurgeDays      int    `yaml:"message_purge_days" env:"SITE_MESSAGE_PURGE_DAYS"`
}

// Load reads configuration from a YAML file, applies environment overrides and validates it.
// A .env file in the working directory is loaded first when present.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
	} else {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks required settings and fills defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.HealthPort < 0 || c.Server.HealthPort > 65535 {
		return fmt.Errorf("invalid health port: %d", c.Server.HealthPort)
	}

	if c.Database.Host == "" {
		return errors.New("database host is required")
	}
	if c.Database.User == "" {
		return errors.New("database user is required")
	}
	if c.Database.Database == "" {
		return errors.New("database name is required")
	}

	if c.JWT.Secret == "" {
		return errors.New("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("JWT secret must be at least 32 characters")
	}

	if c.Storage.UploadDir == "" {
		return errors.New("upload directory is required")
	}

	switch c.Email.Provider {
	case "smtp":
		if c.SMTP.Host == "" {
			return errors.New("SMTP host is required for the smtp email provider")
		}
		if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
			return fmt.Errorf("invalid SMTP port: %d", c.SMTP.Port)
		}
	case "sendgrid":
		if c.Email.SendGridAPIKey == "" {
			return errors.New("sendgrid api key is required for the sendgrid email provider")
		}
	case "log":
	default:
		return fmt.Errorf("unknown email provider %q", c.Email.Provider)
	}

	if c.Push.Enabled && c.Push.CredentialsFile == "" {
		return errors.New("push credentials file is required when push is enabled")
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Site.InvitationExpiryDays == 0 {
		c.Site.InvitationExpiryDays = 14
	}
	if c.Site.EmailConfirmationDays == 0 {
		c.Site.EmailConfirmationDays = 3
	}
	if c.Site.MessagePurgeDays == 0 {
		c.Site.MessagePurgeDays = 30
	}

	if c.Scheduler.ExpireJoinInvitations == "" {
		c.Scheduler.ExpireJoinInvitations = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.PurgeMessages == "" {
		c.Scheduler.PurgeMessages = "0 30 2 * * *" // 2:30 AM UTC
	}
	if c.Scheduler.EmitNotices == "" {
		c.Scheduler.EmitNotices = "0 * * * * *" // every minute
	}
	if c.Scheduler.RefreshFeeds == "" {
		c.Scheduler.RefreshFeeds = "0 0 * * * *" // hourly
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetHealthAddress returns the gRPC health listen address
func (c *Config) GetHealthAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HealthPort)
}

// MaxUploadBytes returns the upload size limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return c.Storage.MaxFileSize * 1024 * 1024
}

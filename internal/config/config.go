// Package config loads application configuration from environment
// variables (optionally a .env file) via viper. Secrets can be overlaid
// from Azure Key Vault in non-development environments.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the root application configuration
type Config struct {
	App        AppConfig
	Server     ServerConfig
	Database   DatabaseConfig
	Logging    LoggingConfig
	CORS       CORSConfig
	Security   SecurityConfig
	RateLimit  RateLimitConfig
	Storage    StorageConfig
	Secrets    SecretsConfig
	Accounting AccountingConfig
	Jobs       JobsConfig
}

// AppConfig holds application identity settings
type AppConfig struct {
	Name        string
	Environment string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	IdleTimeout     int
	ShutdownTimeout int
}

// Addr returns the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ShutdownTimeoutDuration returns the graceful shutdown timeout
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// DatabaseConfig holds postgres connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
}

// ConnectionString builds a postgres DSN
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns the connection max lifetime
func (c *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(c.ConnMaxLifetime) * time.Second
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string
	Format string
}

// CORSConfig holds cross-origin settings
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig holds auth and response-header settings
type SecurityConfig struct {
	JWTSecret             string
	JWTIssuer             string
	TokenTTL              int
	ContentTypeNosniff    bool
	FrameOptions          string
	ReferrerPolicy        string
	ContentSecurityPolicy string
	EnableHSTS            bool
	HSTSMaxAge            int
}

// TokenTTLDuration returns the access token lifetime
func (c *SecurityConfig) TokenTTLDuration() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// RateLimitConfig holds request throttling settings
type RateLimitConfig struct {
	Enabled               bool
	RequestsPerMinute     int
	RequestsPerMinuteAuth int
	WhitelistPaths        []string
}

// StorageConfig holds file storage settings.
// Mode is "local" or "azure".
type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
}

// SecretsConfig controls where secrets are loaded from
type SecretsConfig struct {
	Source    string
	VaultName string
	CacheTTL  int
}

// AccountingConfig holds the read-only SQL Server ledger connection
type AccountingConfig struct {
	Enabled         bool
	URL             string
	User            string
	Password        string
	LedgerTable     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	QueryTimeout    int
}

// ConnMaxLifetimeDuration returns the connection max lifetime
func (c *AccountingConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(c.ConnMaxLifetime) * time.Second
}

// QueryTimeoutDuration returns the per-query timeout
func (c *AccountingConfig) QueryTimeoutDuration() time.Duration {
	return time.Duration(c.QueryTimeout) * time.Second
}

// JobsConfig holds background job schedules
type JobsConfig struct {
	OverdueSweepCron   string
	LedgerExportCron   string
	LedgerExportOnBoot bool
	JobTimeout         int
}

// JobTimeoutDuration returns the max runtime for one scheduled job run
func (c *JobsConfig) JobTimeoutDuration() time.Duration {
	return time.Duration(c.JobTimeout) * time.Second
}

// Load reads configuration from the environment. A .env file is loaded
// first if present so local development works without exported vars.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Name:        v.GetString("app.name"),
			Environment: v.GetString("app.environment"),
		},
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			ReadTimeout:     v.GetInt("server.read_timeout"),
			WriteTimeout:    v.GetInt("server.write_timeout"),
			IdleTimeout:     v.GetInt("server.idle_timeout"),
			ShutdownTimeout: v.GetInt("server.shutdown_timeout"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("db.host"),
			Port:            v.GetInt("db.port"),
			User:            v.GetString("db.user"),
			Password:        v.GetString("db.password"),
			Name:            v.GetString("db.name"),
			SSLMode:         v.GetString("db.sslmode"),
			MaxOpenConns:    v.GetInt("db.max_open_conns"),
			MaxIdleConns:    v.GetInt("db.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("db.conn_max_lifetime"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   v.GetStringSlice("cors.allowed_origins"),
			AllowedMethods:   v.GetStringSlice("cors.allowed_methods"),
			AllowedHeaders:   v.GetStringSlice("cors.allowed_headers"),
			ExposedHeaders:   v.GetStringSlice("cors.exposed_headers"),
			AllowCredentials: v.GetBool("cors.allow_credentials"),
			MaxAge:           v.GetInt("cors.max_age"),
		},
		Security: SecurityConfig{
			JWTSecret:             v.GetString("security.jwt_secret"),
			JWTIssuer:             v.GetString("security.jwt_issuer"),
			TokenTTL:              v.GetInt("security.token_ttl"),
			ContentTypeNosniff:    v.GetBool("security.content_type_nosniff"),
			FrameOptions:          v.GetString("security.frame_options"),
			ReferrerPolicy:        v.GetString("security.referrer_policy"),
			ContentSecurityPolicy: v.GetString("security.content_security_policy"),
			EnableHSTS:            v.GetBool("security.enable_hsts"),
			HSTSMaxAge:            v.GetInt("security.hsts_max_age"),
		},
		RateLimit: RateLimitConfig{
			Enabled:               v.GetBool("ratelimit.enabled"),
			RequestsPerMinute:     v.GetInt("ratelimit.requests_per_minute"),
			RequestsPerMinuteAuth: v.GetInt("ratelimit.requests_per_minute_auth"),
			WhitelistPaths:        v.GetStringSlice("ratelimit.whitelist_paths"),
		},
		Storage: StorageConfig{
			Mode:                  v.GetString("storage.mode"),
			LocalBasePath:         v.GetString("storage.local_base_path"),
			CloudConnectionString: v.GetString("storage.cloud_connection_string"),
			CloudContainer:        v.GetString("storage.cloud_container"),
		},
		Secrets: SecretsConfig{
			Source:    v.GetString("secrets.source"),
			VaultName: v.GetString("secrets.vault_name"),
			CacheTTL:  v.GetInt("secrets.cache_ttl"),
		},
		Accounting: AccountingConfig{
			Enabled:         v.GetBool("accounting.enabled"),
			URL:             v.GetString("accounting.url"),
			User:            v.GetString("accounting.user"),
			Password:        v.GetString("accounting.password"),
			LedgerTable:     v.GetString("accounting.ledger_table"),
			MaxOpenConns:    v.GetInt("accounting.max_open_conns"),
			MaxIdleConns:    v.GetInt("accounting.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("accounting.conn_max_lifetime"),
			QueryTimeout:    v.GetInt("accounting.query_timeout"),
		},
		Jobs: JobsConfig{
			OverdueSweepCron:   v.GetString("jobs.overdue_sweep_cron"),
			LedgerExportCron:   v.GetString("jobs.ledger_export_cron"),
			LedgerExportOnBoot: v.GetBool("jobs.ledger_export_on_boot"),
			JobTimeout:         v.GetInt("jobs.job_timeout"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SecretGetter fetches a named secret. Satisfied by the secrets provider.
type SecretGetter interface {
	GetSecretWithDefault(ctx context.Context, secretName, defaultValue string) string
}

// ApplySecrets overlays vault-managed values onto the config.
// Environment values win only when the vault has no entry.
func (c *Config) ApplySecrets(ctx context.Context, secrets SecretGetter) {
	c.Database.Password = secrets.GetSecretWithDefault(ctx, "db-password", c.Database.Password)
	c.Security.JWTSecret = secrets.GetSecretWithDefault(ctx, "jwt-secret", c.Security.JWTSecret)
	c.Storage.CloudConnectionString = secrets.GetSecretWithDefault(ctx, "storage-connection-string", c.Storage.CloudConnectionString)
	c.Accounting.Password = secrets.GetSecretWithDefault(ctx, "accounting-password", c.Accounting.Password)
}

func (c *Config) validate() error {
	if c.Security.JWTSecret == "" && c.App.Environment != "development" && c.App.Environment != "local" {
		return fmt.Errorf("security.jwt_secret is required outside development")
	}
	if c.Storage.Mode != "local" && c.Storage.Mode != "azure" {
		return fmt.Errorf("unsupported storage mode: %s", c.Storage.Mode)
	}
	return nil
}

// IsDevelopment reports whether the app runs in a development environment
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "local" || c.App.Environment == ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "jobtrack-api")
	v.SetDefault("app.environment", "development")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 60)
	v.SetDefault("server.shutdown_timeout", 10)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "jobtrack")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "jobtrack")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 300)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("cors.allowed_origins", []string{})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Authorization", "Content-Type"})
	v.SetDefault("cors.exposed_headers", []string{})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("security.jwt_secret", "")
	v.SetDefault("security.jwt_issuer", "jobtrack-api")
	v.SetDefault("security.token_ttl", 86400)
	v.SetDefault("security.content_type_nosniff", true)
	v.SetDefault("security.frame_options", "DENY")
	v.SetDefault("security.referrer_policy", "strict-origin-when-cross-origin")
	v.SetDefault("security.content_security_policy", "")
	v.SetDefault("security.enable_hsts", false)
	v.SetDefault("security.hsts_max_age", 31536000)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests_per_minute", 60)
	v.SetDefault("ratelimit.requests_per_minute_auth", 300)
	v.SetDefault("ratelimit.whitelist_paths", []string{"/health", "/health/*"})

	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.local_base_path", "./data/files")
	v.SetDefault("storage.cloud_connection_string", "")
	v.SetDefault("storage.cloud_container", "job-files")

	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.vault_name", "")
	v.SetDefault("secrets.cache_ttl", 300)

	v.SetDefault("accounting.enabled", false)
	v.SetDefault("accounting.url", "")
	v.SetDefault("accounting.user", "")
	v.SetDefault("accounting.password", "")
	v.SetDefault("accounting.ledger_table", "dbo.job_payment_ledger")
	v.SetDefault("accounting.max_open_conns", 5)
	v.SetDefault("accounting.max_idle_conns", 2)
	v.SetDefault("accounting.conn_max_lifetime", 300)
	v.SetDefault("accounting.query_timeout", 30)

	v.SetDefault("jobs.overdue_sweep_cron", "0 0 1 * * *")
	v.SetDefault("jobs.ledger_export_cron", "0 30 1 * * *")
	v.SetDefault("jobs.ledger_export_on_boot", false)
	v.SetDefault("jobs.job_timeout", 300)
}

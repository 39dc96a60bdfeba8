package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment driven settings for the API server.
type Config struct {
	Env            string
	Host           string
	Port           string
	AllowedOrigins []string
	LogLevel       string

	Auth     AuthConfig
	Google   GoogleConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Asana    AsanaConfig
	Iterable IterableConfig
	Naming   NamingConfig
	Jobs     JobsConfig
	Admin    AdminConfig
}

// AuthConfig contains token signing and sign-in restrictions.
type AuthConfig struct {
	JWTSecret          string
	JWTRefreshSecret   string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	AllowedEmailDomain string
}

// GoogleConfig contains the OAuth client used for Google sign-in.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether Google sign-in is configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime int // seconds
	ConnMaxIdleTime int // seconds
	RunMigrations   bool
}

// RedisConfig configures the shared cache. An empty Addr falls back to the
// in-process cache.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AsanaFieldConfig maps campaign attributes to Asana custom field gids.
type AsanaFieldConfig struct {
	CitizenGOList  string
	Scope          string
	CampaignName   string
	Topic          string
	GlobalCampaign string
	PetitionID     string
	CampaignType   string
}

// AsanaConfig contains the project-tracking integration settings.
type AsanaConfig struct {
	AccessToken   string
	ProjectID     string
	BaseURL       string
	ChatURL       string
	FieldCacheTTL time.Duration
	Fields        AsanaFieldConfig
}

// IterableConfig contains the email platform integration settings.
type IterableConfig struct {
	APIKey       string
	BaseURL      string
	TemplateID   int64
	CampaignName string
}

// NamingConfig controls how campaign names are dated.
type NamingConfig struct {
	TimeZone string
}

// Location resolves the configured time zone, falling back to local time.
func (n NamingConfig) Location() *time.Location {
	if n.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(n.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// JobsConfig controls the background scheduler.
type JobsConfig struct {
	Enabled            bool
	StaleCampaignAfter time.Duration
	Interval           time.Duration
}

// AdminConfig describes the account created on first boot.
type AdminConfig struct {
	Email    string
	Password string
	FullName string
}

// Load builds a Config from environment variables with sensible defaults.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("CNT_SERVER_ENV", "development"),
		Host:     getEnv("CNT_SERVER_HOST", "0.0.0.0"),
		Port:     getEnv("CNT_SERVER_PORT", "8080"),
		LogLevel: getEnv("CNT_LOG_LEVEL", "info"),
	}

	cfg.AllowedOrigins = splitAndTrim(os.Getenv("CNT_ALLOWED_ORIGINS"))
	cfg.Auth = loadAuthConfig()
	cfg.Google = GoogleConfig{
		ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),
	}
	cfg.Database = loadDatabaseConfig()
	cfg.Redis = RedisConfig{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       getEnvAsInt("REDIS_DB", 0),
	}
	cfg.Asana = loadAsanaConfig()
	cfg.Iterable = IterableConfig{
		APIKey:       os.Getenv("ITERABLE_API_KEY"),
		BaseURL:      getEnv("ITERABLE_BASE_URL", "https://api.eu.iterable.com/api"),
		TemplateID:   int64(getEnvAsInt("ITERABLE_TEMPLATE_ID", 319721)),
		CampaignName: getEnv("ITERABLE_CAMPAIGN_PREFIX", "CNT"),
	}
	cfg.Naming = NamingConfig{TimeZone: os.Getenv("CNT_NAMING_TIMEZONE")}
	cfg.Jobs = JobsConfig{
		Enabled:            getEnvAsBool("CNT_JOBS_ENABLED", true),
		StaleCampaignAfter: getEnvAsDuration("CNT_STALE_CAMPAIGN_AFTER", 15*time.Minute),
		Interval:           getEnvAsDuration("CNT_JOBS_INTERVAL", 5*time.Minute),
	}
	cfg.Admin = AdminConfig{
		Email:    getEnv("CNT_ADMIN_EMAIL", "admin@citizengo.net"),
		Password: os.Getenv("CNT_ADMIN_PASSWORD"),
		FullName: getEnv("CNT_ADMIN_NAME", "Campaign Admin"),
	}

	if cfg.IsProduction() && cfg.Auth.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

const (
	defaultJWTSecret        = "change-me-access-secret"
	defaultJWTRefreshSecret = "change-me-refresh-secret"
)

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:          getEnv("JWT_SECRET", defaultJWTSecret),
		JWTRefreshSecret:   getEnv("JWT_REFRESH_SECRET", defaultJWTRefreshSecret),
		AccessTokenTTL:     getEnvAsDuration("JWT_ACCESS_TTL", 24*time.Hour),
		RefreshTokenTTL:    getEnvAsDuration("JWT_REFRESH_TTL", 7*24*time.Hour),
		AllowedEmailDomain: getEnv("CNT_ALLOWED_EMAIL_DOMAIN", "@citizengo.net"),
	}
}

func loadAsanaConfig() AsanaConfig {
	return AsanaConfig{
		AccessToken:   os.Getenv("ASANA_ACCESS_TOKEN"),
		ProjectID:     os.Getenv("ASANA_PROJECT_ID"),
		BaseURL:       getEnv("ASANA_BASE_URL", "https://app.asana.com/api/1.0"),
		ChatURL:       getEnv("GOOGLE_CHAT_WEBHOOK_URL", "https://chat.google.com/spaces/AAAAi0_dDQo"),
		FieldCacheTTL: getEnvAsDuration("ASANA_FIELD_CACHE_TTL", 10*time.Minute),
		Fields: AsanaFieldConfig{
			CitizenGOList:  os.Getenv("ASANA_FIELD_CITIZENGO_LIST"),
			Scope:          os.Getenv("ASANA_FIELD_SCOPE"),
			CampaignName:   os.Getenv("ASANA_FIELD_CAMPAIGN_NAME"),
			Topic:          os.Getenv("ASANA_FIELD_TOPIC"),
			GlobalCampaign: os.Getenv("ASANA_FIELD_GLOBAL_CAMPAIGN"),
			PetitionID:     os.Getenv("ASANA_FIELD_PETITION_ID"),
			CampaignType:   os.Getenv("ASANA_FIELD_CAMPAIGN_TYPE"),
		},
	}
}

// ServerAddress joins the host and port into a listen address.
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsProduction reports whether the app is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// DSN builds a PostgreSQL DSN for gorm.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
		d.TimeZone,
	)
}

func loadDatabaseConfig() DatabaseConfig {
	cfg := DatabaseConfig{
		Host:            getEnv("CNT_DB_HOST", "127.0.0.1"),
		Port:            getEnv("CNT_DB_PORT", "5432"),
		User:            getEnv("CNT_DB_USER", "postgres"),
		Password:        os.Getenv("CNT_DB_PASSWORD"),
		Name:            getEnv("CNT_DB_NAME", "campaign_naming"),
		SSLMode:         getEnv("CNT_DB_SSLMODE", "disable"),
		TimeZone:        getEnv("CNT_DB_TIMEZONE", "UTC"),
		MaxIdleConns:    getEnvAsInt("CNT_DB_MAX_IDLE_CONNS", 5),
		MaxOpenConns:    getEnvAsInt("CNT_DB_MAX_OPEN_CONNS", 20),
		ConnMaxLifetime: getEnvAsInt("CNT_DB_CONN_MAX_LIFETIME", 1800),
		ConnMaxIdleTime: getEnvAsInt("CNT_DB_CONN_MAX_IDLE_TIME", 300),
		RunMigrations:   getEnvAsBool("CNT_DB_RUN_MIGRATIONS", true),
	}

	// DATABASE_URL wins over the individual variables when present.
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		applyDatabaseURL(&cfg, dbURL)
	}

	return cfg
}

// applyDatabaseURL overlays a postgres:// connection URL onto cfg.
func applyDatabaseURL(cfg *DatabaseConfig, raw string) {
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "postgres" && parsed.Scheme != "postgresql") {
		return
	}

	if parsed.User != nil {
		cfg.User = parsed.User.Username()
		if password, ok := parsed.User.Password(); ok {
			cfg.Password = password
		}
	}
	if host := parsed.Hostname(); host != "" {
		cfg.Host = host
	}
	if port := parsed.Port(); port != "" {
		cfg.Port = port
	}
	if name := strings.TrimPrefix(parsed.Path, "/"); name != "" {
		cfg.Name = name
	}

	query := parsed.Query()
	if sslMode := query.Get("sslmode"); sslMode != "" {
		cfg.SSLMode = sslMode
	}
	if tz := query.Get("timezone"); tz != "" {
		cfg.TimeZone = tz
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}

	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';'
	})

	var cleaned []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}

	return cleaned
}

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"galaxy-server/internal/shared/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	OAuth     OAuthConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Galaxy    GalaxyConfig
	Admin     AdminConfig
}

type RedisConfig struct {
	Enabled  bool
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

type ServerConfig struct {
	Port         string
	URL          string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsPath  string
}

type AuthConfig struct {
	JWTSecret       string
	TokenExpiration time.Duration
	CookieSecure    bool
	CookieSameSite  string
}

type OAuthConfig struct {
	GitHub GitHubOAuthConfig
}

type GitHubOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

type FrontendConfig struct {
	URL       string
	CORSDebug bool
}

type LoggingConfig struct {
	Level      string
	Format     string
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	TrustProxy        bool
}

// GalaxyConfig bounds what clients may ask the generator for and where the
// service finds its static inputs.
type GalaxyConfig struct {
	MaxCount    int
	CacheTTL    time.Duration
	PresetsFile string
	AssetsDir   string
}

type AdminConfig struct {
	Emails []string
}

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config, err := load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := config.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

func load() (*Config, error) {
	environment := utils.GetEnv("ENVIRONMENT", "development")
	serverURL := utils.GetEnv("SERVER_URL", "http://localhost:8080")
	logFormat := utils.GetEnv("LOG_FORMAT", "text")

	return &Config{
		Server: ServerConfig{
			Port:         utils.GetEnv("SERVER_PORT", "8080"),
			URL:          serverURL,
			Environment:  environment,
			ReadTimeout:  utils.GetEnvDuration("SERVER_READ_TIMEOUT_SECONDS", 15, time.Second),
			WriteTimeout: utils.GetEnvDuration("SERVER_WRITE_TIMEOUT_SECONDS", 60, time.Second),
			IdleTimeout:  utils.GetEnvDuration("SERVER_IDLE_TIMEOUT_SECONDS", 60, time.Second),
		},
		Database: DatabaseConfig{
			Host:            utils.GetEnv("DB_HOST", "localhost"),
			Port:            utils.GetEnv("DB_PORT", "5432"),
			User:            utils.GetEnv("DB_USER", "postgres"),
			Password:        utils.GetEnv("DB_PASSWORD", "postgres"),
			Name:            utils.GetEnv("DB_NAME", "galaxy"),
			SSLMode:         utils.GetEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    utils.GetEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    utils.GetEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: utils.GetEnvDuration("DB_CONN_MAX_LIFETIME_MINUTES", 5, time.Minute),
			MigrationsPath:  utils.GetEnv("DB_MIGRATIONS_PATH", "migrations"),
		},
		Redis: RedisConfig{
			Enabled:  utils.GetEnvBool("REDIS_ENABLED", true),
			URL:      utils.GetEnv("REDIS_URL", ""),
			Host:     utils.GetEnv("REDIS_HOST", "localhost"),
			Port:     utils.GetEnv("REDIS_PORT", "6379"),
			Password: utils.GetEnv("REDIS_PASSWORD", ""),
			DB:       utils.GetEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:       utils.GetEnv("JWT_SECRET", ""),
			TokenExpiration: utils.GetEnvDuration("JWT_EXPIRATION_HOURS", 24, time.Hour),
			CookieSecure:    environment == "production",
			CookieSameSite:  utils.GetEnv("COOKIE_SAME_SITE", "lax"),
		},
		OAuth: OAuthConfig{
			GitHub: GitHubOAuthConfig{
				ClientID:     utils.GetEnv("GITHUB_CLIENT_ID", ""),
				ClientSecret: utils.GetEnv("GITHUB_CLIENT_SECRET", ""),
				RedirectURL:  serverURL + "/auth/github/callback",
				Scopes:       []string{"read:user", "user:email"},
			},
		},
		Frontend: FrontendConfig{
			URL:       utils.GetEnv("FRONTEND_URL", "http://localhost:3000"),
			CORSDebug: utils.GetEnvBool("CORS_DEBUG", false),
		},
		Logging: LoggingConfig{
			Level:      utils.GetEnv("LOG_LEVEL", "debug"),
			Format:     logFormat,
			JSONFormat: environment == "production" || logFormat == "json",
		},
		RateLimit: RateLimitConfig{
			Enabled:           utils.GetEnvBool("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: utils.GetEnvFloat("RATE_LIMIT_REQUESTS_PER_SECOND", 10),
			BurstSize:         utils.GetEnvInt("RATE_LIMIT_BURST_SIZE", 20),
			TrustProxy:        utils.GetEnvBool("RATE_LIMIT_TRUST_PROXY", false),
		},
		Galaxy: GalaxyConfig{
			MaxCount:    utils.GetEnvInt("GALAXY_MAX_COUNT", 1000000),
			CacheTTL:    utils.GetEnvDuration("GALAXY_CACHE_TTL_SECONDS", 600, time.Second),
			PresetsFile: utils.GetEnv("GALAXY_PRESETS_FILE", "presets.yaml"),
			AssetsDir:   utils.GetEnv("ASSETS_DIR", "static"),
		},
		Admin: AdminConfig{
			Emails: utils.GetEnvList("ADMIN_EMAILS", ""),
		},
	}, nil
}

// validate reports every problem at once.
func (c *Config) validate() error {
	var problems []error
	require := func(ok bool, format string, args ...any) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}

	require(c.Auth.JWTSecret != "", "JWT_SECRET is required")
	require(c.Auth.JWTSecret == "" || len(c.Auth.JWTSecret) >= 32, "JWT_SECRET must be at least 32 characters long")
	require(c.Server.Port != "", "SERVER_PORT is required")
	require(c.Server.URL != "", "SERVER_URL is required")
	require(c.Database.Host != "", "DB_HOST is required")
	require(c.Database.Name != "", "DB_NAME is required")
	require(c.Galaxy.MaxCount > 0, "GALAXY_MAX_COUNT must be positive, got %d", c.Galaxy.MaxCount)
	require(!c.RateLimit.Enabled || (c.RateLimit.RequestsPerSecond > 0 && c.RateLimit.BurstSize > 0),
		"RATE_LIMIT_REQUESTS_PER_SECOND and RATE_LIMIT_BURST_SIZE must be positive")

	return errors.Join(problems...)
}

func (c *Config) GitHubOAuthConfigured() bool {
	return c.OAuth.GitHub.ClientID != "" && c.OAuth.GitHub.ClientSecret != ""
}

// IsAdminEmail reports whether the email belongs to a preset curator.
func (c *Config) IsAdminEmail(email string) bool {
	return slices.ContainsFunc(c.Admin.Emails, func(admin string) bool {
		return strings.EqualFold(admin, email)
	})
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

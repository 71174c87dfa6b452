package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	// Session Config
	SessionSecret     string
	SessionDuration   time.Duration
	SessionCookieName string
	SessionStore      string // "pgsql" or "memory"

	// Bearer API tokens for programmatic clients
	APITokenExpiryDuration time.Duration
	APITokenIssuer         string

	// Token Workflows
	ResetTokenTTL        time.Duration
	VerificationTokenTTL time.Duration

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	GitHubClientID     string `mapstructure:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `mapstructure:"GITHUB_CLIENT_SECRET"`
	GitHubRedirectURL  string `mapstructure:"GITHUB_REDIRECT_URL"`

	// OAuthLinkAllowUnverifiedEmail re-enables silent email-based account
	// linking even when the existing user's email was never verified.
	OAuthLinkAllowUnverifiedEmail bool

	FrontendBaseURL string `mapstructure:"FRONTEND_BASE_URL"`

	// Outbound mail
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("SESSION_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("SESSION_DURATION", "720h")
	viper.SetDefault("SESSION_COOKIE_NAME", "evsid")
	viper.SetDefault("SESSION_STORE", "pgsql")
	viper.SetDefault("API_TOKEN_EXPIRY_DURATION", "1h")
	viper.SetDefault("API_TOKEN_ISSUER", "echoverse-backend")
	viper.SetDefault("RESET_TOKEN_TTL", "1h")
	viper.SetDefault("VERIFICATION_TOKEN_TTL", "24h")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("GITHUB_CLIENT_ID", "")
	viper.SetDefault("GITHUB_CLIENT_SECRET", "")
	viper.SetDefault("GITHUB_REDIRECT_URL", "")
	viper.SetDefault("OAUTH_LINK_ALLOW_UNVERIFIED_EMAIL", false)
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", "587")
	viper.SetDefault("SMTP_USER", "")
	viper.SetDefault("SMTP_PASS", "")
	viper.SetDefault("MAIL_FROM", "no-reply@echoverse.app")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.SessionSecret = viper.GetString("SESSION_SECRET")
	if cfg.SessionSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: SESSION_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.SessionDuration = parseDurationOr("SESSION_DURATION", 30*24*time.Hour)
	cfg.SessionCookieName = viper.GetString("SESSION_COOKIE_NAME")
	cfg.SessionStore = viper.GetString("SESSION_STORE")

	cfg.APITokenExpiryDuration = parseDurationOr("API_TOKEN_EXPIRY_DURATION", time.Hour)
	cfg.APITokenIssuer = viper.GetString("API_TOKEN_ISSUER")

	cfg.ResetTokenTTL = parseDurationOr("RESET_TOKEN_TTL", time.Hour)
	cfg.VerificationTokenTTL = parseDurationOr("VERIFICATION_TOKEN_TTL", 24*time.Hour)

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.GitHubClientID = viper.GetString("GITHUB_CLIENT_ID")
	cfg.GitHubClientSecret = viper.GetString("GITHUB_CLIENT_SECRET")
	cfg.GitHubRedirectURL = viper.GetString("GITHUB_REDIRECT_URL")
	cfg.OAuthLinkAllowUnverifiedEmail = viper.GetBool("OAUTH_LINK_ALLOW_UNVERIFIED_EMAIL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")

	// Providers are feature-gated: missing credentials simply leave them
	// unregistered, they are not an error.
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET not set. Google login disabled.")
	}
	if cfg.GitHubClientID == "" || cfg.GitHubClientSecret == "" {
		log.Println("Warning: GITHUB_CLIENT_ID/GITHUB_CLIENT_SECRET not set. GitHub login disabled.")
	}

	cfg.SMTPHost = viper.GetString("SMTP_HOST")
	cfg.SMTPPort = viper.GetString("SMTP_PORT")
	cfg.SMTPUser = viper.GetString("SMTP_USER")
	cfg.SMTPPass = viper.GetString("SMTP_PASS")
	cfg.MailFrom = viper.GetString("MAIL_FROM")
	if cfg.SMTPHost == "" {
		log.Println("Warning: SMTP_HOST not set. Outbound mail will be logged, not delivered.")
	}

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

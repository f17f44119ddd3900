package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures everything the server reads from the environment so main
// stays lean. Absent optional values disable the feature they configure
// rather than failing startup.
type Config struct {
	Env        string
	ListenAddr string

	DatabaseURL string
	Redis       RedisConfig

	WhoxyAPIKey     string
	PageSpeedAPIKey string

	SMTP   SMTPConfig
	Twilio TwilioConfig

	JWTSigningKey string
	JWTExpiry     time.Duration

	// PooledDomains is the shared allowlist of popular domains cached
	// centrally and excluded from personal expiry notifications.
	PooledDomains []string

	RefreshHour    int           // daily cache refresh, server local time
	NotifyHour     int           // daily notification cycle
	OTPSweepPeriod time.Duration // expired pending-registration sweep
}

// RedisConfig configures the optional Redis-backed OTP store.
type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// SMTPConfig carries email channel credentials. Configured() gating keeps
// the unconfigured-credentials contract out of the send path callers.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

// TwilioConfig carries SMS channel credentials.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

func (c TwilioConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != ""
}

// FromEnv builds a Config from environment variables. A .env file in the
// working directory is loaded first when present, matching local dev usage.
func FromEnv() Config {
	_ = godotenv.Load()

	return Config{
		Env:             getenv("APP_ENV", "development"),
		ListenAddr:      getenv("LISTEN_ADDR", ":8080"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Redis:           redisFromEnv(),
		WhoxyAPIKey:     os.Getenv("WHOXY_API_KEY"),
		PageSpeedAPIKey: os.Getenv("PAGESPEED_API_KEY"),
		SMTP: SMTPConfig{
			Host:     getenv("SMTP_HOST", "smtp.zoho.com"),
			Port:     getenvInt("SMTP_PORT", 465),
			Username: os.Getenv("EMAIL_USER"),
			Password: os.Getenv("EMAIL_PASSWORD"),
			From:     getenv("EMAIL_FROM", os.Getenv("EMAIL_USER")),
			FromName: getenv("EMAIL_FROM_NAME", "Domain Dashboard"),
		},
		Twilio: TwilioConfig{
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			FromNumber: os.Getenv("TWILIO_PHONE_NUMBER"),
		},
		JWTSigningKey:  getenv("JWT_SECRET", "dev-secret-key-change-in-production"),
		JWTExpiry:      getenvDuration("JWT_EXPIRES_IN", 24*time.Hour),
		PooledDomains:  pooledDomainsFromEnv(),
		RefreshHour:    getenvInt("CACHE_REFRESH_HOUR", 8),
		NotifyHour:     getenvInt("NOTIFY_HOUR", 9),
		OTPSweepPeriod: getenvDuration("OTP_SWEEP_PERIOD", 5*time.Minute),
	}
}

func redisFromEnv() RedisConfig {
	return RedisConfig{
		URL:          os.Getenv("REDIS_URL"),
		DialTimeout:  getenvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		ReadTimeout:  getenvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		WriteTimeout: getenvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
	}
}

// pooledDomainsFromEnv returns the injectable allowlist, defaulting to the
// top-50 set when POOLED_DOMAINS is unset. The override is a comma-separated
// list; empty entries are dropped.
func pooledDomainsFromEnv() []string {
	raw := os.Getenv("POOLED_DOMAINS")
	if raw == "" {
		out := make([]string, len(DefaultPooledDomains))
		copy(out, DefaultPooledDomains)
		return out
	}
	var out []string
	for _, d := range strings.Split(raw, ",") {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			out = append(out, d)
		}
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.Atoi(v); err == nil {
			return out
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if out, err := time.ParseDuration(v); err == nil {
			return out
		}
	}
	return def
}

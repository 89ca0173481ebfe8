package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// DB
	DatabaseURL string

	// Tokens
	Issuer        string
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	ResetTokenTTL time.Duration

	// Outbound mail
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	// Public app identity (used in outbound mail)
	AppName     string
	FrontendURL string

	// HTTP
	Addr        string
	CORSOrigins string
}

func Load() Config {
	return Config{
		DatabaseURL: must("DATABASE_URL"),

		Issuer:        getenv("ISSUER", "account-auth"),
		AccessSecret:  must("JWT_ACCESS_SECRET"),
		RefreshSecret: must("JWT_REFRESH_SECRET"),
		AccessTTL:     getdur("ACCESS_TTL", 15*time.Minute),
		RefreshTTL:    getdur("REFRESH_TTL", 7*24*time.Hour),
		ResetTokenTTL: getdur("RESET_TOKEN_TTL", time.Hour),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getint("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		MailFrom:     getenv("MAIL_FROM", "no-reply@localhost"),

		AppName:     getenv("APP_NAME", "Accounts"),
		FrontendURL: getenv("FRONTEND_URL", "http://localhost:3000"),

		Addr:        getenv("ADDR", ":8080"),
		CORSOrigins: getenv("CORS_ORIGINS", ""),
	}
}

// SMTPConfigured reports whether outbound mail can actually be sent.
func (c Config) SMTPConfigured() bool { return c.SMTPHost != "" }

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		slog.Warn("invalid integer, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		slog.Warn("invalid duration, using default", "key", k, "value", v, "default", def)
	}
	return def
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		slog.Error("missing required env", "key", k)
		os.Exit(1)
	}
	return v
}

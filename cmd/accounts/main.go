package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"account-auth/internal/config"
	"account-auth/internal/mail"
	"account-auth/internal/observability/logging"
	"account-auth/internal/observability/metrics"
	"account-auth/internal/service"
	impl "account-auth/internal/service/impl"
	"account-auth/internal/store"
	httpx "account-auth/internal/transport/http"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, relying on existing environment")
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "accounts",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})
	slog.SetDefault(logger)

	cfg := config.Load()
	metrics.MustRegister("accounts")

	gdb, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}
	st := store.New(gdb)
	if err := st.Migrate(); err != nil {
		logger.Error("migrate", "error", err)
		os.Exit(1)
	}

	var mailer service.MailService
	if cfg.SMTPConfigured() {
		mailer = mail.NewSMTPMailer(mail.SMTPConfig{
			Host:        cfg.SMTPHost,
			Port:        cfg.SMTPPort,
			User:        cfg.SMTPUser,
			Password:    cfg.SMTPPassword,
			From:        cfg.MailFrom,
			AppName:     cfg.AppName,
			FrontendURL: cfg.FrontendURL,
		})
	} else {
		logger.Warn("SMTP_HOST not set, outbound mail is logged only")
		mailer = mail.LogMailer{}
	}

	pw := impl.NewPasswordServiceArgon2id()
	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:        cfg.Issuer,
		AccessSecret:  []byte(cfg.AccessSecret),
		RefreshSecret: []byte(cfg.RefreshSecret),
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	})
	as := impl.NewAuthServiceImpl(st, pw, ts, mailer, cfg.ResetTokenTTL)
	us := impl.NewUserServiceImpl(st)

	guard := httpx.NewAccessGuard(ts, st.Users())
	router := httpx.NewRouter(
		httpx.RouterConfig{CORSOrigins: cfg.CORSOrigins},
		httpx.NewAuthHandler(as, ts),
		httpx.NewUsersHandler(us),
		guard,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("accounts service listening", "addr", srv.Addr, "issuer", cfg.Issuer)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", "error", err)
	}
}

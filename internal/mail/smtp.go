package mail

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"net/url"
)

type SMTPConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	From        string
	AppName     string
	FrontendURL string
}

// SMTPMailer sends transactional HTML mail over plain SMTP.
type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	link := m.link("/verify-email", token)
	body, err := render(verificationTemplate, templateData{
		AppName: m.cfg.AppName,
		Name:    name,
		Link:    link,
	})
	if err != nil {
		return err
	}
	return m.send(to, "Please verify your email address", body)
}

func (m *SMTPMailer) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	link := m.link("/reset-password", token)
	body, err := render(passwordResetTemplate, templateData{
		AppName: m.cfg.AppName,
		Name:    name,
		Link:    link,
	})
	if err != nil {
		return err
	}
	return m.send(to, "Password Reset Request", body)
}

func (m *SMTPMailer) SendWelcomeEmail(ctx context.Context, to, name string) error {
	body, err := render(welcomeTemplate, templateData{
		AppName: m.cfg.AppName,
		Name:    name,
	})
	if err != nil {
		return err
	}
	return m.send(to, "Welcome!", body)
}

func (m *SMTPMailer) link(path, token string) string {
	return fmt.Sprintf("%s%s?token=%s", m.cfg.FrontendURL, path, url.QueryEscape(token))
}

func (m *SMTPMailer) send(to, subject string, htmlBody []byte) error {
	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %q <%s>\r\n", m.cfg.AppName, m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(htmlBody)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	slog.Info("email sent", "to", to, "subject", subject)
	return nil
}

// LogMailer is used when no SMTP transport is configured; it records what
// would have been sent instead of failing every flow that dispatches mail.
type LogMailer struct{}

func (LogMailer) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	slog.Info("mail transport not configured, skipping verification email", "to", to)
	return nil
}

func (LogMailer) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	slog.Info("mail transport not configured, skipping password reset email", "to", to)
	return nil
}

func (LogMailer) SendWelcomeEmail(ctx context.Context, to, name string) error {
	slog.Info("mail transport not configured, skipping welcome email", "to", to)
	return nil
}

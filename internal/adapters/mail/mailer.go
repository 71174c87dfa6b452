package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	portssvc "github.com/echoverse/echoverse_backend/internal/core/ports/services"
	"github.com/echoverse/echoverse_backend/internal/platform/config"
)

// smtpMailer implements MailerSvc by composing plain-text messages with links
// into the frontend and handing them to the SMTP transport.
type smtpMailer struct {
	transport *Transport
	from      string
	baseURL   string
}

// NewSMTPMailer creates the production mailer.
func NewSMTPMailer(cfg *config.Config) portssvc.MailerSvc {
	return &smtpMailer{
		transport: NewTransport(cfg),
		from:      cfg.MailFrom,
		baseURL:   strings.TrimRight(cfg.FrontendBaseURL, "/"),
	}
}

func (m *smtpMailer) SendVerificationEmail(ctx context.Context, toEmail, token string) error {
	link := m.baseURL + "/verify-email?token=" + url.QueryEscape(token)
	body := fmt.Sprintf("Welcome to Echoverse!\r\n\r\nPlease confirm your email address by opening this link:\r\n\r\n%s\r\n\r\nIf you did not create an account, you can ignore this message.\r\n", link)
	return m.transport.Send(toEmail, compose(m.from, toEmail, "Verify your Echoverse email", body))
}

func (m *smtpMailer) SendPasswordResetEmail(ctx context.Context, toEmail, token string) error {
	link := m.baseURL + "/reset-password?token=" + url.QueryEscape(token)
	body := fmt.Sprintf("We received a request to reset your Echoverse password.\r\n\r\nOpen this link within one hour to choose a new password:\r\n\r\n%s\r\n\r\nIf you did not request a reset, you can ignore this message.\r\n", link)
	return m.transport.Send(toEmail, compose(m.from, toEmail, "Reset your Echoverse password", body))
}

func compose(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// logMailer is the no-SMTP fallback: it logs the mail instead of sending it,
// token included, so local flows stay testable end to end.
type logMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a mailer that only logs. Used when SMTP_HOST is unset.
func NewLogMailer(logger *slog.Logger) portssvc.MailerSvc {
	return &logMailer{logger: logger}
}

func (m *logMailer) SendVerificationEmail(ctx context.Context, toEmail, token string) error {
	m.logger.InfoContext(ctx, "Verification mail (SMTP disabled)",
		slog.String("to", toEmail), slog.String("token", token))
	return nil
}

func (m *logMailer) SendPasswordResetEmail(ctx context.Context, toEmail, token string) error {
	m.logger.InfoContext(ctx, "Password reset mail (SMTP disabled)",
		slog.String("to", toEmail), slog.String("token", token))
	return nil
}

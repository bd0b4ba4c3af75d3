package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Prateekyadav17/ElectricHelp/internal/config"
)

// Mailer delivers password-reset mail over SMTP with STARTTLS. When the
// transport is not configured, Send is never called and the reset flow echoes
// the token back for local testing instead.
type Mailer struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewMailer builds a mailer from config.
func NewMailer(cfg config.MailConfig, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// Configured reports whether a real SMTP transport is set up.
func (m *Mailer) Configured() bool {
	return m.cfg.Configured()
}

// SendResetMail delivers the reset link to the address. Callers treat failure
// as non-fatal; the reset-request flow reports success either way.
func (m *Mailer) SendResetMail(ctx context.Context, toEmail, token string) error {
	link := fmt.Sprintf("%s/reset?token=%s", strings.TrimRight(m.cfg.AppURL, "/"), token)

	body := strings.Join([]string{
		"Dear user,",
		"",
		"Use the following link to reset your password (valid for 15 minutes):",
		link,
		"",
		"If you did not request this, you can ignore this email.",
	}, "\r\n")

	msg := strings.Join([]string{
		fmt.Sprintf("From: ElectricHelp <%s>", m.cfg.From),
		fmt.Sprintf("To: %s", toEmail),
		"Subject: ElectricHelp Password Reset",
		"MIME-Version: 1.0",
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		body,
	}, "\r\n")

	return m.send(ctx, toEmail, []byte(msg))
}

func (m *Mailer) send(ctx context.Context, to string, msg []byte) error {
	dialer := net.Dialer{Timeout: 15 * time.Second}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 {
			dialer.Timeout = remaining
		}
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("mail: dial %s: %w", addr, err)
	}
	_ = conn.SetDeadline(time.Now().Add(dialer.Timeout))

	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("mail: smtp client: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return fmt.Errorf("mail: starttls: %w", err)
		}
	}

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("mail: auth: %w", err)
	}
	if err := client.Mail(m.cfg.From); err != nil {
		return fmt.Errorf("mail: from: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("mail: rcpt: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("mail: data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("mail: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("mail: close: %w", err)
	}
	return client.Quit()
}

package notify

import (
	"context"
	"crypto/tls"
	"log/slog"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"github.com/edgard/checkinbot/internal/config"
	errs "github.com/edgard/checkinbot/internal/errors"
	"github.com/edgard/checkinbot/internal/text"
)

const smtpDialTimeout = 30 * time.Second

// Mailer sends plain-text reports over an implicit-TLS SMTP relay
// (smtp.gmail.com:465 by default). A missing sender identity or recipient
// makes Send a logged no-op.
type Mailer struct {
	cfg config.MailConfig
	log *slog.Logger
}

// NewMailer creates the mailer from the process-wide mail configuration.
func NewMailer(cfg config.MailConfig, log *slog.Logger) *Mailer {
	return &Mailer{
		cfg: cfg,
		log: log.With("component", "mailer"),
	}
}

// Send delivers one UTF-8 plain-text message. The body is cleaned of
// invisible characters and subject/display names are Q-encoded so non-ASCII
// content survives header transport. Every failure is logged with a
// distinguishing label and returned as a NotifyError; callers swallow it.
func (m *Mailer) Send(ctx context.Context, subject, body, to string) error {
	if m.cfg.SenderEmail == "" || m.cfg.SenderPassword == "" || to == "" {
		m.log.Info("mail sender identity or recipient not configured, skipping email")
		return nil
	}

	msg := buildMessage(m.cfg.SenderEmail, to, subject, body)
	addr := m.cfg.SMTPAddr
	log := m.log.With("smtp_addr", addr, "to", to)

	dialer := &tls.Dialer{NetDialer: &net.Dialer{Timeout: smtpDialTimeout}}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		log.Error("smtp tls dial failed", "error", err)
		return errs.NewNotifyError("smtp tls dial failed", err)
	}

	c, err := smtp.NewClient(conn, smtpHost(addr))
	if err != nil {
		conn.Close()
		log.Error("smtp client failed", "error", err)
		return errs.NewNotifyError("smtp client failed", err)
	}
	defer func() { _ = c.Close() }()

	auth := smtp.PlainAuth("", m.cfg.SenderEmail, m.cfg.SenderPassword, smtpHost(addr))
	if ok, _ := c.Extension("AUTH"); ok {
		if err := c.Auth(auth); err != nil {
			log.Error("smtp auth failed", "error", err)
			return errs.NewNotifyError("smtp auth failed", err)
		}
	}

	if err := c.Mail(m.cfg.SenderEmail); err != nil {
		log.Error("smtp MAIL FROM failed", "error", err)
		return errs.NewNotifyError("smtp MAIL FROM failed", err)
	}
	if err := c.Rcpt(to); err != nil {
		log.Error("smtp RCPT TO failed", "error", err)
		return errs.NewNotifyError("smtp RCPT TO failed", err)
	}

	w, err := c.Data()
	if err != nil {
		log.Error("smtp DATA failed", "error", err)
		return errs.NewNotifyError("smtp DATA failed", err)
	}
	if _, err = w.Write([]byte(msg)); err != nil {
		log.Error("smtp write failed", "error", err)
		return errs.NewNotifyError("smtp write failed", err)
	}
	if err := w.Close(); err != nil {
		log.Error("smtp close failed", "error", err)
		return errs.NewNotifyError("smtp close failed", err)
	}

	_ = c.Quit()

	log.Info("email sent", "subject", subject)
	return nil
}

// buildMessage assembles the RFC 5322 message. Display names default to the
// local part of the address, Q-encoded for non-ASCII safety, matching how
// the panel's users see the reports today.
func buildMessage(from, to, subject, body string) string {
	fromAddr := (&mail.Address{Name: localPart(from), Address: from}).String()
	toAddr := (&mail.Address{Name: localPart(to), Address: to}).String()
	subj := mime.QEncoding.Encode("utf-8", text.Clean(subject))

	var b strings.Builder
	b.WriteString("From: " + fromAddr + "\r\n")
	b.WriteString("To: " + toAddr + "\r\n")
	b.WriteString("Subject: " + subj + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(text.Clean(body))
	b.WriteString("\r\n")

	return b.String()
}

func localPart(addr string) string {
	if i := strings.Index(addr, "@"); i >= 0 {
		return addr[:i]
	}
	return addr
}

func smtpHost(addr string) string {
	if i := strings.Index(addr, ":"); i >= 0 {
		return addr[:i]
	}
	return addr
}

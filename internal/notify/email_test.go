package notify

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/edgard/checkinbot/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMailerSkippedWhenUnconfigured(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.MailConfig
		to   string
	}{
		{
			name: "No sender identity",
			cfg:  config.MailConfig{SMTPAddr: "smtp.gmail.com:465"},
			to:   "inbox@example.com",
		},
		{
			name: "No sender password",
			cfg: config.MailConfig{
				SenderEmail: "sender@gmail.com",
				SMTPAddr:    "smtp.gmail.com:465",
			},
			to: "inbox@example.com",
		},
		{
			name: "No recipient",
			cfg: config.MailConfig{
				SenderEmail:    "sender@gmail.com",
				SenderPassword: "app-password",
				SMTPAddr:       "smtp.gmail.com:465",
			},
			to: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewMailer(tt.cfg, discardLogger())
			if err := m.Send(context.Background(), "subject", "body", tt.to); err != nil {
				t.Errorf("Send() should be a no-op, got error %v", err)
			}
		})
	}
}

func TestBuildMessageHeaders(t *testing.T) {
	t.Parallel()

	msg := buildMessage("sender@gmail.com", "inbox@example.com", "69云签到结果 - 账号 1 (alice)", "地址: https://example.com")

	headerEnd := strings.Index(msg, "\r\n\r\n")
	if headerEnd < 0 {
		t.Fatal("message has no header/body separator")
	}
	headers := msg[:headerEnd]

	if !strings.Contains(headers, `From: "sender" <sender@gmail.com>`) {
		t.Errorf("From header wrong:\n%s", headers)
	}
	if !strings.Contains(headers, `To: "inbox" <inbox@example.com>`) {
		t.Errorf("To header wrong:\n%s", headers)
	}
	// Non-ASCII subject must be Q-encoded for header transport.
	if !strings.Contains(headers, "Subject: =?utf-8?q?") {
		t.Errorf("Subject not Q-encoded:\n%s", headers)
	}
	if !strings.Contains(headers, "Content-Type: text/plain; charset=utf-8") {
		t.Errorf("Content-Type header missing:\n%s", headers)
	}
}

func TestBuildMessageCleansBody(t *testing.T) {
	t.Parallel()

	msg := buildMessage("sender@gmail.com", "inbox@example.com", "subject",
		"剩余流量: 88.5​GB\ufeff")

	for _, bad := range []string{" ", "​", "\ufeff"} {
		if strings.Contains(msg, bad) {
			t.Errorf("message still contains %q", bad)
		}
	}
	if !strings.Contains(msg, "剩余流量: 88.5GB") {
		t.Errorf("cleaned body wrong:\n%s", msg)
	}
}

func TestBuildMessageASCIISubjectStaysReadable(t *testing.T) {
	t.Parallel()

	msg := buildMessage("sender@gmail.com", "inbox@example.com", "daily report", "body")

	if !strings.Contains(msg, "Subject: daily report\r\n") {
		t.Errorf("plain ASCII subject should not be encoded:\n%s", msg)
	}
}

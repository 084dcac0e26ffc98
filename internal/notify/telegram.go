// Package notify delivers check-in reports over Telegram and email. Both
// notifiers degrade to logged no-ops when unconfigured and their failures
// never abort the account pipeline.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	errs "github.com/edgard/checkinbot/internal/errors"
)

// Report messages carry a wall-clock line in the panel's timezone (UTC+8),
// independent of where the process runs.
const (
	displayTimeOffset = 8 * time.Hour
	displayTimeLayout = "2006-01-02 15:04:05"

	keyboardButtonText = "一休交流群"
	keyboardButtonURL  = "https://t.me/yxjsjl"
)

// Telegram posts messages to one chat via the Bot API. With an empty token
// or chat id it stays constructible and every Send is a logged no-op.
type Telegram struct {
	chatID string
	bot    *bot.Bot
	log    *slog.Logger
	now    func() time.Time
}

// NewTelegram creates the notifier. Extra options are passed through to the
// underlying bot, which tests use to point it at a local server.
func NewTelegram(token, chatID string, log *slog.Logger, opts ...bot.Option) (*Telegram, error) {
	t := &Telegram{
		chatID: chatID,
		log:    log.With("component", "telegram"),
		now:    time.Now,
	}

	if token == "" || chatID == "" {
		return t, nil
	}

	// This process only ever sends; skipping the getMe round-trip removes a
	// startup failure mode and keeps construction offline.
	opts = append([]bot.Option{bot.WithSkipGetMe()}, opts...)

	b, err := bot.New(token, opts...)
	if err != nil {
		return nil, errs.NewNotifyError("failed to create telegram bot", err)
	}
	t.bot = b

	return t, nil
}

// WithClock returns a copy of the notifier using now as its time source.
// Used by tests to pin the timestamp line.
func (t *Telegram) WithClock(now func() time.Time) *Telegram {
	if now == nil {
		return t
	}
	cp := *t
	cp.now = now
	return &cp
}

// Send posts msg to the configured chat with a UTC+8 timestamp line
// prepended, HTML parse mode, and the fixed one-button inline keyboard.
// Unconfigured credentials make it a no-op; a delivery failure is logged and
// returned as a NotifyError for the caller to swallow.
func (t *Telegram) Send(ctx context.Context, msg string) error {
	if t.bot == nil {
		t.log.Info("telegram token or chat id not configured, skipping message")
		return nil
	}

	stamp := t.now().UTC().Add(displayTimeOffset).Format(displayTimeLayout)

	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    t.chatID,
		Text:      "执行时间: " + stamp + "\n" + msg,
		ParseMode: models.ParseModeHTML,
		ReplyMarkup: models.InlineKeyboardMarkup{
			InlineKeyboard: [][]models.InlineKeyboardButton{
				{
					{Text: keyboardButtonText, URL: keyboardButtonURL},
				},
			},
		},
	})
	if err != nil {
		t.log.Error("telegram message send failed", "error", err)
		return errs.NewNotifyError("telegram send failed", err)
	}

	t.log.Info("telegram message sent", "chat_id", t.chatID)
	return nil
}

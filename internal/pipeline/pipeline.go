// Package pipeline orchestrates the per-account check-in workflow: login,
// check-in, status scrape, then chat and email notification. Accounts are
// processed strictly in order and a failure in one never leaks into the next.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/edgard/checkinbot/internal/config"
	errs "github.com/edgard/checkinbot/internal/errors"
	"github.com/edgard/checkinbot/internal/panel"
	"github.com/edgard/checkinbot/internal/text"
)

// PanelClient is the subset of the panel client the pipeline drives.
type PanelClient interface {
	Login(ctx context.Context, username, password string) ([]*http.Cookie, error)
	Checkin(ctx context.Context, cookies []*http.Cookie) (panel.CheckinResult, error)
	FetchUserInfo(ctx context.Context, cookies []*http.Cookie) string
}

// ChatNotifier posts a report message to the chat channel.
type ChatNotifier interface {
	Send(ctx context.Context, message string) error
}

// Mailer sends a report email.
type Mailer interface {
	Send(ctx context.Context, subject, body, to string) error
}

// Runner processes all configured accounts, one at a time, to completion.
type Runner struct {
	cfg    *config.Config
	panel  PanelClient
	chat   ChatNotifier
	mail   Mailer
	log    *slog.Logger
	settle time.Duration
}

// New creates a Runner with all its collaborators.
func New(cfg *config.Config, panelClient PanelClient, chat ChatNotifier, mail Mailer, log *slog.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		panel:  panelClient,
		chat:   chat,
		mail:   mail,
		log:    log.With("component", "pipeline"),
		settle: panel.SessionSettleDelay,
	}
}

// WithSettleDelay returns a copy of the Runner using d as the post-login
// pause. Used by tests.
func (r *Runner) WithSettleDelay(d time.Duration) *Runner {
	cp := *r
	cp.settle = d
	return &cp
}

// Run processes every configured account in order. Login and check-in
// failures are reported through the chat notifier and skip the email for
// that account only; notification failures are logged and swallowed. Run
// itself never fails: the process exit code stays 0 regardless of outcomes.
func (r *Runner) Run(ctx context.Context) {
	if len(r.cfg.Accounts) == 0 {
		r.log.Info("no accounts configured, nothing to do")
		return
	}

	for i, account := range r.cfg.Accounts {
		log := r.log.With("account", i+1, "user", account.Username)
		log.Info("processing account")

		body, recipient, err := r.processAccount(ctx, account)
		if err != nil {
			log.Warn("account pipeline failed, no email will be sent", "error", err, "code", errs.Code(err))
			continue
		}

		subject := fmt.Sprintf("69云签到结果 - 账号 %d (%s)", i+1, text.Clean(account.Username))
		if err := r.mail.Send(ctx, subject, body, recipient); err != nil {
			log.Error("email notification failed", "error", err)
		}

		log.Info("account done")
	}
}

// processAccount runs one account through the
// logging_in → checking_in → scraping → notifying stages. On success it
// returns the email body and resolved recipient; any login/check-in failure
// is reported to the chat channel and returned, and that account sends no
// email. The "already checked in" and "unknown" check-in answers are normal
// completions, not failures.
func (r *Runner) processAccount(ctx context.Context, account config.Account) (string, string, error) {
	domain := r.cfg.Domain
	user := account.Username

	log := r.log.With("user", user)

	if domain == "" || user == "" || account.Password == "" {
		err := errs.NewConfigError("必需的配置参数缺失 (域名/用户名/密码)。", nil)
		r.reportFailure(ctx, user, err)
		return "", "", err
	}

	log.Debug("stage", "stage", "logging_in")
	cookies, err := r.panel.Login(ctx, user, account.Password)
	if err != nil {
		r.reportFailure(ctx, user, err)
		return "", "", err
	}

	// The session store needs a beat before the cookie works.
	select {
	case <-ctx.Done():
		return "", "", ctx.Err()
	case <-time.After(r.settle):
	}

	log.Debug("stage", "stage", "checking_in")
	result, err := r.panel.Checkin(ctx, cookies)
	if err != nil {
		r.reportFailure(ctx, user, err)
		return "", "", err
	}

	log.Debug("stage", "stage", "scraping")
	info := r.panel.FetchUserInfo(ctx, cookies)

	log.Debug("stage", "stage", "notifying", "checkin_status", result.Status)

	checkinLine := "🎉 签到结果 🎉\n " + text.Clean(result.Message)

	chatMessage := fmt.Sprintf("地址: %s\n账号: %s\n密码: <tg-spoiler>%s</tg-spoiler>\n\n%s\n\n%s",
		text.Clean(domain), text.Clean(user), text.Clean(account.Password), info, checkinLine)

	// The email variant never carries the password.
	emailBody := fmt.Sprintf("地址: %s\n账号: %s\n\n%s\n\n%s",
		text.Clean(domain), text.Clean(user), info, checkinLine)

	if err := r.chat.Send(ctx, chatMessage); err != nil {
		log.Error("chat notification failed", "error", err)
	}

	recipient := account.Email
	if recipient == "" {
		recipient = r.cfg.Mail.ReceiverEmail
	}

	return emailBody, recipient, nil
}

// reportFailure sends the sanitized error text to the chat channel. Chat
// delivery failure on this path is logged and dropped; there is nowhere
// left to report it.
func (r *Runner) reportFailure(ctx context.Context, user string, cause error) {
	msg := fmt.Sprintf("%s账号签到异常: %s", text.Clean(user), text.Clean(cause.Error()))
	r.log.Warn("account checkin failed", "user", user, "error", cause)

	if err := r.chat.Send(ctx, msg); err != nil {
		r.log.Error("failed to report account failure to chat", "user", user, "error", err)
	}
}

// Package main contains the entrypoint for the check-in bot. The binary is
// meant to be run by an external periodic trigger (cron, CI schedule); one
// invocation processes every configured account once and exits.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/edgard/checkinbot/internal/config"
	"github.com/edgard/checkinbot/internal/logger"
	"github.com/edgard/checkinbot/internal/notify"
	"github.com/edgard/checkinbot/internal/panel"
	"github.com/edgard/checkinbot/internal/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop() // Ensure context cancellation is signaled before exit
	os.Exit(exitCode)
}

// run wires configuration, the panel client and both notifiers, then
// processes all accounts. Per-account failures are reported through the
// notification channels and never change the exit code; the only fatal path
// is configuration that cannot be loaded at all.
func run(ctx context.Context) int {
	// Optional .env for local runs; the deployed environment injects
	// variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Log.Level, cfg.Log.JSON)
	log.Info("configuration loaded",
		"domain", cfg.Domain,
		"accounts", len(cfg.Accounts),
		"chat_notifications", cfg.BotToken != "" && cfg.ChatID != "",
		"email_notifications", cfg.Mail.SenderEmail != "")

	chat, err := notify.NewTelegram(cfg.BotToken, cfg.ChatID, log)
	if err != nil {
		log.Error("Failed to create telegram notifier", "error", err)
		return 1
	}

	client := panel.New(cfg.Domain, cfg.HTTPTimeout, log)
	mailer := notify.NewMailer(cfg.Mail, log)

	runner := pipeline.New(cfg, client, chat, mailer, log)
	runner.Run(ctx)

	log.Info("run complete")
	return 0
}

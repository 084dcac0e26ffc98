// Package config manages application configuration from environment
// variables, an optional config.yaml, and default values.
package config

import "time"

// Default configuration values.
const (
	DefaultDomain      = "https://69yun69.com"
	DefaultSMTPAddr    = "smtp.gmail.com:465"
	DefaultHTTPTimeout = 30 * time.Second
	DefaultLogLevel    = "info"
	DefaultLogJSON     = true
)

// Account holds one set of panel credentials. Email, when set, overrides the
// process-wide mail recipient for this account's report.
type Account struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Email    string `mapstructure:"email" validate:"omitempty,email"`
}

// MailConfig holds the sender identity and relay address for email reports.
// An empty sender identity disables email notifications.
type MailConfig struct {
	SenderEmail    string `mapstructure:"sender_email"    validate:"omitempty,email"`
	SenderPassword string `mapstructure:"sender_password"`
	ReceiverEmail  string `mapstructure:"receiver_email"  validate:"omitempty,email"`
	SMTPAddr       string `mapstructure:"smtp_addr"       validate:"required,hostname_port"`
}

// LogConfig controls log verbosity and output format.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// Config defines the application configuration. BOT_TOKEN and CHAT_ID both
// empty means chat notifications are skipped; zero accounts means the run
// processes nothing. Neither is an error.
type Config struct {
	Domain      string        `mapstructure:"domain"       validate:"required,url"`
	BotToken    string        `mapstructure:"bot_token"`
	ChatID      string        `mapstructure:"chat_id"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout" validate:"required,min=1s,max=5m"`

	Accounts []Account `mapstructure:"accounts" validate:"dive"`

	Mail MailConfig `mapstructure:"mail"`
	Log  LogConfig  `mapstructure:"log"`
}

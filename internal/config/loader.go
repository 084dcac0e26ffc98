package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	errs "github.com/edgard/checkinbot/internal/errors"
)

// Load loads and validates configuration from:
// 1. Default values
// 2. An optional config.yaml in the working directory
// 3. Environment variables (DOMAIN, BOT_TOKEN, CHAT_ID, GMAIL_*, USER{n}/PASS{n}/C_EMAIL{n})
//
// Environment values win over the config file. Accounts discovered from the
// environment replace any account list given in the file.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The deployment environment predates this tool; its variable names do
	// not follow the key structure, so they are bound explicitly.
	bindings := map[string]string{
		"domain":               "DOMAIN",
		"bot_token":            "BOT_TOKEN",
		"chat_id":              "CHAT_ID",
		"mail.sender_email":    "GMAIL_SENDER_EMAIL",
		"mail.sender_password": "GMAIL_SENDER_PASSWORD",
		"mail.receiver_email":  "GMAIL_RECEIVER_EMAIL",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errs.NewConfigError(fmt.Sprintf("failed to bind %s", env), err)
		}
	}

	// Allow missing config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errs.NewConfigError("failed to read config file", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errs.NewConfigError("failed to parse config", err)
	}

	if accounts := discoverAccounts(v); len(accounts) > 0 {
		cfg.Accounts = accounts
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errs.NewConfigError("config validation failed", err)
	}

	return cfg, nil
}

// discoverAccounts enumerates USER{n}/PASS{n}/C_EMAIL{n} starting at n=1.
// Enumeration ends at the first n whose USER or PASS is missing, so a gap in
// the numbering hides everything after it. That termination rule is part of
// the deployment contract and must not be "fixed" to skip gaps.
func discoverAccounts(v *viper.Viper) []Account {
	var accounts []Account

	for index := 1; ; index++ {
		username := v.GetString(fmt.Sprintf("user%d", index))
		password := v.GetString(fmt.Sprintf("pass%d", index))

		if username == "" || password == "" {
			break
		}

		accounts = append(accounts, Account{
			Username: username,
			Password: password,
			Email:    v.GetString(fmt.Sprintf("c_email%d", index)),
		})
	}

	return accounts
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("domain", DefaultDomain)
	v.SetDefault("bot_token", "")
	v.SetDefault("chat_id", "")
	v.SetDefault("http_timeout", DefaultHTTPTimeout)

	v.SetDefault("mail.smtp_addr", DefaultSMTPAddr)

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)
}

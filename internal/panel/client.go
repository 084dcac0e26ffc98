// Package panel implements the HTTP client for the subscription panel:
// login, the daily check-in call, and the user-page status scrape.
package panel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	errs "github.com/edgard/checkinbot/internal/errors"
)

// SessionSettleDelay is how long callers should wait between a successful
// login and the first authenticated request. The panel's session store is
// eventually consistent; an immediate check-in can land before the session
// exists server-side.
const SessionSettleDelay = time.Second

// The panel rejects requests that don't look like they come from its own
// web frontend.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/129.0.0.0 Safari/537.36"

// CheckinStatus classifies the panel's answer to a check-in request.
type CheckinStatus int

const (
	// StatusSuccess means the check-in was accepted and rewarded.
	StatusSuccess CheckinStatus = iota
	// StatusAlready means the account already checked in this period.
	// Informational, not an error.
	StatusAlready
	// StatusUnknown means the panel answered with an unrecognized code.
	StatusUnknown
)

// CheckinResult carries the classified status and the panel's display message.
type CheckinResult struct {
	Status  CheckinStatus
	Message string
}

// Client talks to one panel instance. It holds no session state; cookies
// returned by Login are passed explicitly to the authenticated calls.
type Client struct {
	domain string
	http   *resty.Client
	log    *slog.Logger
}

// New creates a panel client for the given base URL.
func New(domain string, timeout time.Duration, log *slog.Logger) *Client {
	client := resty.New().
		SetTimeout(timeout).
		SetHeaders(map[string]string{
			"User-Agent": userAgent,
			"Accept":     "application/json, text/plain, */*",
		})

	return &Client{
		domain: strings.TrimRight(domain, "/"),
		http:   client,
		log:    log.With("component", "panel"),
	}
}

type apiResponse struct {
	Ret int    `json:"ret"`
	Msg string `json:"msg"`
}

// Login authenticates one account against {domain}/auth/login and returns
// the session cookies. The returned errors distinguish transport failures
// (NetworkError) from logical rejections (AuthError); a success response
// that carries no cookies is treated as a rejection.
func (c *Client) Login(ctx context.Context, username, password string) ([]*http.Cookie, error) {
	result := &apiResponse{}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			"Content-Type": "application/json",
			"Origin":       c.domain,
			"Referer":      c.domain + "/auth/login",
		}).
		SetBody(map[string]string{
			"email":       username,
			"passwd":      password,
			"remember_me": "on",
			"code":        "",
		}).
		SetResult(result).
		Post(c.domain + "/auth/login")
	if err != nil {
		return nil, errs.NewNetworkError("login request failed", err)
	}

	c.log.Debug("login response", "user", username, "status", resp.StatusCode())

	if !resp.IsSuccess() {
		return nil, errs.NewNetworkError(fmt.Sprintf("login returned HTTP %d", resp.StatusCode()), nil)
	}

	if result.Ret != 1 {
		msg := result.Msg
		if msg == "" {
			msg = "未知错误"
		}
		return nil, errs.NewAuthError("登录失败: " + msg)
	}

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return nil, errs.NewAuthError("登录成功但未收到Cookie。")
	}

	return cookies, nil
}

// Checkin performs the check-in POST with the given session cookies and
// classifies the result. ret==0 ("already checked in") is reported as a
// normal outcome, not an error.
func (c *Client) Checkin(ctx context.Context, cookies []*http.Cookie) (CheckinResult, error) {
	result := &apiResponse{}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeaders(map[string]string{
			"Content-Type":     "application/json",
			"Origin":           c.domain,
			"Referer":          c.domain + "/user/panel",
			"X-Requested-With": "XMLHttpRequest",
		}).
		SetCookies(cookies).
		SetResult(result).
		Post(c.domain + "/user/checkin")
	if err != nil {
		return CheckinResult{}, errs.NewNetworkError("checkin request failed", err)
	}

	c.log.Debug("checkin response", "status", resp.StatusCode(), "ret", result.Ret)

	if !resp.IsSuccess() {
		return CheckinResult{}, errs.NewNetworkError(fmt.Sprintf("checkin returned HTTP %d", resp.StatusCode()), nil)
	}

	switch result.Ret {
	case 1:
		return CheckinResult{Status: StatusSuccess, Message: messageOr(result.Msg, "签到成功")}, nil
	case 0:
		return CheckinResult{Status: StatusAlready, Message: messageOr(result.Msg, "签到失败")}, nil
	default:
		return CheckinResult{Status: StatusUnknown, Message: messageOr(result.Msg, "签到结果未知")}, nil
	}
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

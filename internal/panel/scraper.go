package panel

import (
	"bytes"
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/edgard/checkinbot/internal/text"
)

// The user page embeds account data inside inline scripts rather than
// markup: the Chatra support-widget integration carries the expiry and
// traffic fields, and a one-click-import helper carries the subscription
// token. Both are located by marker string and mined by regex. Markup drift
// upstream must degrade the report, never crash the run, so every miss maps
// to a fixed placeholder.
const (
	chatraMarker = "window.ChatraIntegration"
	importMarker = "index.oneclickImport"

	fetchFailedFallback = "无法获取用户信息或订阅链接。"
	noMarkerFallback    = "未识别到用户信息或订阅链接。"
	noUserInfoNote      = "用户信息 (到期时间/剩余流量) 未找到。"
	noSubLinkNote       = "订阅链接未找到。"
)

var (
	classExpireRegex   = regexp.MustCompile(`'Class_Expire': '(.*?)'`)
	unusedTrafficRegex = regexp.MustCompile(`'Unused_Traffic': '(.*?)'`)
	subTokenRegex      = regexp.MustCompile(`'https://checkhere\.top/link/(.*?)\?sub=1'`)
)

// FetchUserInfo scrapes {domain}/user for expiry date, remaining traffic and
// the two subscription links, returning them as a newline-joined block. It
// never fails: any network, parse or extraction miss degrades to a fixed
// fallback or placeholder line. This data is secondary to the check-in
// result and must not abort the pipeline.
func (c *Client) FetchUserInfo(ctx context.Context, cookies []*http.Cookie) string {
	resp, err := c.http.R().
		SetContext(ctx).
		SetCookies(cookies).
		SetHeader("Referer", c.domain+"/user/panel").
		Get(c.domain + "/user")
	if err != nil {
		c.log.Warn("user page fetch failed", "error", err)
		return fetchFailedFallback
	}
	if !resp.IsSuccess() {
		c.log.Warn("user page returned non-success status", "status", resp.StatusCode())
		return fetchFailedFallback
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		c.log.Warn("user page parse failed", "error", err)
		return fetchFailedFallback
	}

	var scripts []string
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		scripts = append(scripts, s.Text())
	})

	chatraScript := ""
	for _, script := range scripts {
		if strings.Contains(script, chatraMarker) {
			chatraScript = script
			break
		}
	}
	if chatraScript == "" {
		c.log.Warn("user info script not recognized on user page")
		return noMarkerFallback
	}

	var parts []string

	expire := classExpireRegex.FindStringSubmatch(chatraScript)
	traffic := unusedTrafficRegex.FindStringSubmatch(chatraScript)
	if expire != nil && traffic != nil {
		parts = append(parts,
			"到期时间: "+text.Clean(expire[1]),
			"剩余流量: "+text.Clean(traffic[1]))
	} else {
		parts = append(parts, noUserInfoNote)
	}

	parts = append(parts, subscriptionLinks(scripts)...)

	return strings.Join(parts, "\n")
}

// subscriptionLinks extracts the subscription token from the one-click
// import helper and derives the two client-format URLs from it.
func subscriptionLinks(scripts []string) []string {
	for _, script := range scripts {
		if !strings.Contains(script, importMarker) || !strings.Contains(script, "clash") {
			continue
		}

		match := subTokenRegex.FindStringSubmatch(script)
		if match == nil {
			continue
		}

		token := text.Clean(match[1])
		return []string{
			"Clash 订阅链接: https://checkhere.top/link/" + token + "?clash=1",
			"v2ray 订阅链接: https://checkhere.top/link/" + token + "?sub=3",
		}
	}

	return []string{noSubLinkNote}
}

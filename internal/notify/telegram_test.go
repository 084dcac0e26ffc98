package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-telegram/bot"

	"github.com/edgard/checkinbot/internal/notify"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendSkippedWithoutCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		token  string
		chatID string
	}{
		{name: "Both empty", token: "", chatID: ""},
		{name: "Token only", token: "123:abc", chatID: ""},
		{name: "Chat id only", token: "", chatID: "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int64
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				io.WriteString(w, `{"ok":true,"result":{}}`)
			}))
			t.Cleanup(server.Close)

			tg, err := notify.NewTelegram(tt.token, tt.chatID, testLogger(), bot.WithServerURL(server.URL))
			if err != nil {
				t.Fatalf("NewTelegram() error = %v", err)
			}

			if err := tg.Send(context.Background(), "hello"); err != nil {
				t.Errorf("Send() should be a no-op, got error %v", err)
			}
			if calls.Load() != 0 {
				t.Errorf("Send() performed %d HTTP calls, want 0", calls.Load())
			}
		})
	}
}

func TestSendMessageContent(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		} else {
			gotBody = make(map[string]any, len(r.MultipartForm.Value))
			for key, values := range r.MultipartForm.Value {
				gotBody[key] = values[0]
			}
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":1,"chat":{"id":42,"type":"private"}}}`)
	}))
	t.Cleanup(server.Close)

	tg, err := notify.NewTelegram("123:abc", "42", testLogger(), bot.WithServerURL(server.URL))
	if err != nil {
		t.Fatalf("NewTelegram() error = %v", err)
	}
	tg = tg.WithClock(func() time.Time {
		return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	})

	if err := tg.Send(context.Background(), "签到完成"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if !strings.HasSuffix(gotPath, "/sendMessage") {
		t.Errorf("request path = %q, want a sendMessage call", gotPath)
	}

	textField, _ := gotBody["text"].(string)
	// UTC 03:04:05 displayed as UTC+8.
	if !strings.HasPrefix(textField, "执行时间: 2026-01-02 11:04:05\n") {
		t.Errorf("text should start with the UTC+8 timestamp line, got %q", textField)
	}
	if !strings.Contains(textField, "签到完成") {
		t.Errorf("text should contain the message body, got %q", textField)
	}

	if parseMode, _ := gotBody["parse_mode"].(string); parseMode != "HTML" {
		t.Errorf("parse_mode = %q, want HTML", parseMode)
	}

	markup, err := json.Marshal(gotBody["reply_markup"])
	if err != nil {
		t.Fatalf("failed to re-marshal reply_markup: %v", err)
	}
	for _, want := range []string{"一休交流群", "https://t.me/yxjsjl"} {
		if !strings.Contains(string(markup), want) {
			t.Errorf("reply_markup missing %q: %s", want, markup)
		}
	}
}

func TestSendFailureReturnsNotifyError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`)
	}))
	t.Cleanup(server.Close)

	tg, err := notify.NewTelegram("123:abc", "42", testLogger(), bot.WithServerURL(server.URL))
	if err != nil {
		t.Fatalf("NewTelegram() error = %v", err)
	}

	if err := tg.Send(context.Background(), "hello"); err == nil {
		t.Error("Send() should surface the delivery failure")
	}
}

package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestDiscordSender_PostsBoldedAlert(t *testing.T) {
	var got discordMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewDiscordSender(srv.URL)
	if err := s.Send(context.Background(), "New bet", "alice bet 0.50 SOL YES"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if got.Username != "clawdash" {
		t.Errorf("username = %q", got.Username)
	}
	if !strings.HasPrefix(got.Content, "**New bet**\n") || !strings.Contains(got.Content, "0.50 SOL YES") {
		t.Errorf("content = %q", got.Content)
	}
}

func TestDiscordSender_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited by discord", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := NewDiscordSender(srv.URL)
	err := s.Send(context.Background(), "t", "m")
	if err == nil {
		t.Fatal("Send succeeded on 429 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error missing status: %v", err)
	}
}

func TestTelegramSender_PostsToChatWithMarkdown(t *testing.T) {
	var gotPath string
	var got telegramMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	s := NewTelegramSender("123:abc", "-100200300")
	s.baseURL = srv.URL
	if err := s.Send(context.Background(), "New market", `carol created "BTC above 100k?"`); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotPath != "/bot123:abc/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if got.ChatID != "-100200300" || got.ParseMode != "Markdown" {
		t.Errorf("payload = %+v", got)
	}
	if !strings.HasPrefix(got.Text, "*New market*\n") {
		t.Errorf("text = %q", got.Text)
	}
}

func TestNotifier_OneFailingSenderDoesNotBlockOthers(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer failing.Close()

	ok := &captureSender{}
	n := NewNotifier([]Sender{NewDiscordSender(failing.URL), ok}, nil, discardLogger())

	err := n.NotifyAll(context.Background(), "title", "body")
	if err == nil {
		t.Fatal("NotifyAll hid the failing sender")
	}
	if !strings.Contains(err.Error(), "discord") {
		t.Errorf("error missing sender name: %v", err)
	}
	if len(ok.titles) != 1 {
		t.Errorf("healthy sender got %d alerts, want 1", len(ok.titles))
	}
}

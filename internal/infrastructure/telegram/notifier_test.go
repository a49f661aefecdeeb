package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPublishDigest(t *testing.T) {
	t.Parallel()

	type request struct{ path, chat, text string }
	requests := make(chan request, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		requests <- request{path: r.URL.Path, chat: r.PostForm.Get("chat_id"), text: r.PostForm.Get("text")}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewNotifier("token", "42").WithBaseURL(srv.URL + "/")
	if err := n.PublishDigest(context.Background(), "run ok"); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got := <-requests
	if got.path != "/bottoken/sendMessage" {
		t.Fatalf("unexpected path %q", got.path)
	}
	if got.chat != "42" || got.text != "run ok" {
		t.Fatalf("unexpected form chat=%q text=%q", got.chat, got.text)
	}
}

func TestPublishDigestSurfacesAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	err := NewNotifier("token", "42").WithBaseURL(srv.URL).PublishDigest(context.Background(), "x")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("expected API description in error, got %v", err)
	}
}

func TestPublishDigestMisconfigured(t *testing.T) {
	t.Parallel()

	if err := NewNotifier("", "42").PublishDigest(context.Background(), "x"); err == nil {
		t.Fatal("expected error without bot token")
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", maxMessageLength+10)
	got := truncate(long, maxMessageLength)
	if n := utf8.RuneCountInString(got); n != maxMessageLength {
		t.Fatalf("expected %d runes, got %d", maxMessageLength, n)
	}
	if truncate("short", maxMessageLength) != "short" {
		t.Fatal("short messages must be unchanged")
	}
}

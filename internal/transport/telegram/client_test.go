package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"TrenchScan/internal/domain/repository"
)

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotBody SendMessageRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":42,"chat":{"id":100,"type":"private"}}}`))
	}))
	defer srv.Close()

	c := NewClient("TESTTOKEN", srv.URL)
	msg, err := c.SendMessage(context.Background(), SendMessageRequest{
		ChatID:    100,
		Text:      "hello",
		ParseMode: ParseModeMarkdown,
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.MessageID != 42 {
		t.Fatalf("message_id = %d, want 42", msg.MessageID)
	}
	if gotPath != "/botTESTTOKEN/sendMessage" {
		t.Fatalf("request path = %q", gotPath)
	}
	if gotBody.ChatID != 100 || gotBody.Text != "hello" || gotBody.ParseMode != ParseModeMarkdown {
		t.Fatalf("request body = %+v", gotBody)
	}
}

func TestRetriesRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"ok":false,"error_code":429,"description":"Too Many Requests","parameters":{"retry_after":0}}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"chat":{"id":1,"type":"private"}}}`))
	}))
	defer srv.Close()

	c := NewClient("t", srv.URL)
	msg, err := c.SendMessage(context.Background(), SendMessageRequest{ChatID: 1, Text: "x"})
	if err != nil {
		t.Fatalf("SendMessage after 429: %v", err)
	}
	if msg.MessageID != 7 {
		t.Fatalf("message_id = %d, want 7", msg.MessageID)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("calls = %d, want 2", got)
	}
}

func TestAPIErrorTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	c := NewClient("t", srv.URL)
	_, err := c.SendMessage(context.Background(), SendMessageRequest{ChatID: 1, Text: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Code != 400 || !strings.Contains(apiErr.Description, "chat not found") {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
	if apiErr.IsNotModified() {
		t.Fatal("chat not found must not read as not-modified")
	}
}

func TestErrorDoesNotLeakToken(t *testing.T) {
	c := NewClient("SECRET-TOKEN", "http://127.0.0.1:1", WithRequestTimeout(50*time.Millisecond))
	_, err := c.GetMe(context.Background())
	if err == nil {
		t.Fatal("expected connection error")
	}
	if strings.Contains(err.Error(), "SECRET-TOKEN") {
		t.Fatalf("error leaks bot token: %v", err)
	}
}

func TestTransportEditNotModified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: message is not modified"}`))
	}))
	defer srv.Close()

	tr := NewTransport(NewClient("t", srv.URL))
	err := tr.Edit(context.Background(), repository.MessageRef{ChatID: 1, MessageID: 2}, "same text")
	if !errors.Is(err, repository.ErrNotModified) {
		t.Fatalf("err = %v, want ErrNotModified", err)
	}
}

func TestTransportSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.ParseMode != ParseModeMarkdown {
			t.Fatalf("parse_mode = %q, want Markdown", req.ParseMode)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":9,"chat":{"id":5,"type":"private"}}}`))
	}))
	defer srv.Close()

	tr := NewTransport(NewClient("t", srv.URL))
	ref, err := tr.Send(context.Background(), 5, "text")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if ref.ChatID != 5 || ref.MessageID != 9 {
		t.Fatalf("ref = %+v", ref)
	}
}

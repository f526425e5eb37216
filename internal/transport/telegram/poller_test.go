package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	applogger "TrenchScan/pkg/logger"
)

type recordingHandler struct {
	mu       sync.Mutex
	messages []string
	chats    []int64
	received chan struct{}
}

func newRecordingHandler(expect int) *recordingHandler {
	return &recordingHandler{received: make(chan struct{}, expect)}
}

func (h *recordingHandler) HandleMessage(_ context.Context, chatID int64, text string) {
	h.mu.Lock()
	h.messages = append(h.messages, text)
	h.chats = append(h.chats, chatID)
	h.mu.Unlock()
	h.received <- struct{}{}
}

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestPollerDispatchesAndAdvancesOffset(t *testing.T) {
	var polls int32
	var offsets []int
	var mu sync.Mutex

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/bott/getMe":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"scan","username":"trenchscan_bot"}}`))
		case r.URL.Path == "/bott/getUpdates":
			var req GetUpdatesRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			mu.Lock()
			offsets = append(offsets, req.Offset)
			mu.Unlock()

			if atomic.AddInt32(&polls, 1) == 1 {
				_, _ = w.Write([]byte(`{"ok":true,"result":[
					{"update_id":10,"message":{"message_id":1,"chat":{"id":77,"type":"private"},"text":"/start"}},
					{"update_id":11,"message":{"message_id":2,"chat":{"id":77,"type":"private"},"text":"hello"}},
					{"update_id":12}
				]}`))
				return
			}
			_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	handler := newRecordingHandler(2)
	p := NewPoller(NewClient("t", srv.URL), handler, time.Second, testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	for i := 0; i < 2; i++ {
		select {
		case <-handler.received:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for messages")
		}
	}
	// Wait for the second poll to reach the server before stopping, so the
	// acknowledged offset is observable.
	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n := len(offsets)
		mu.Unlock()
		if n >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for second poll")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	handler.mu.Lock()
	defer handler.mu.Unlock()
	if len(handler.messages) != 2 {
		t.Fatalf("dispatched %d messages, want 2", len(handler.messages))
	}
	if handler.chats[0] != 77 {
		t.Fatalf("chat id = %d, want 77", handler.chats[0])
	}

	mu.Lock()
	defer mu.Unlock()
	// Second poll must acknowledge past the highest update, including the
	// text-less update 12.
	if len(offsets) < 2 || offsets[1] != 13 {
		t.Fatalf("offsets = %v, want second offset 13", offsets)
	}
}

func TestPollerStopsOnCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/bott/getMe" {
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"scan"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
	}))
	defer srv.Close()

	p := NewPoller(NewClient("t", srv.URL), newRecordingHandler(0), time.Second, testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}

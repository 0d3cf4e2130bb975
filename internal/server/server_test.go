// ABOUTME: Tests for server lifecycle, stats and TUI rendering
// ABOUTME: Starts and stops a real listener and renders the status view
package server

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestStartStop(t *testing.T) {
	s := newTestServer(t, echoGenerator(), Config{Host: "127.0.0.1", Port: 0, Name: "test"})

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start()
	}()

	time.Sleep(50 * time.Millisecond)
	s.Stop()
	s.Stop() // safe to call twice

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("expected clean shutdown, got %v", err)
		}
	case <-time.After(6 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestStartListenError(t *testing.T) {
	s := newTestServer(t, echoGenerator(), Config{Host: "256.0.0.1", Port: 5000})

	if err := s.Start(); err == nil {
		t.Fatal("expected listen error, got nil")
	}
}

func TestNewDefaults(t *testing.T) {
	s := newTestServer(t, echoGenerator(), Config{Host: "0.0.0.0", Port: 5000})

	if s.config.MaxUploadBytes != DefaultMaxUploadBytes {
		t.Errorf("expected default upload limit, got %d", s.config.MaxUploadBytes)
	}
	if s.serverID == "" {
		t.Error("expected server ID")
	}
	if s.Addr() != "0.0.0.0:5000" {
		t.Errorf("unexpected addr %s", s.Addr())
	}
}

func TestStats(t *testing.T) {
	var stats Stats

	stats.Record(100, 20*time.Millisecond, nil)
	stats.Record(50, 10*time.Millisecond, errors.New("boom"))

	snap := stats.Snapshot()
	if snap.Requests != 2 || snap.Succeeded != 1 || snap.Failed != 1 {
		t.Errorf("unexpected counts: %+v", snap)
	}
	if snap.BytesIn != 150 {
		t.Errorf("expected 150 bytes, got %d", snap.BytesIn)
	}
	if snap.LastLatency != 10*time.Millisecond {
		t.Errorf("expected last latency 10ms, got %v", snap.LastLatency)
	}
	if snap.LastError != "boom" {
		t.Errorf("expected last error boom, got %q", snap.LastError)
	}
}

func TestTUIView(t *testing.T) {
	m := tuiModel{startTime: time.Now(), quitChan: make(chan struct{}, 1)}

	updated, _ := m.Update(statusMsg(ServerStatus{
		Name:  "kitchen",
		Addr:  "0.0.0.0:5000",
		Model: "gemini-2.0-flash-exp",
		Stats: StatsSnapshot{Requests: 3, Succeeded: 2, Failed: 1, BytesIn: 2048, LastError: "decode failed"},
	}))

	view := updated.View()
	for _, want := range []string{"kitchen", "0.0.0.0:5000", "gemini-2.0-flash-exp", "Requests (3)", "2.0 KiB", "decode failed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	empty := tuiModel{startTime: time.Now()}.View()
	if !strings.Contains(empty, "No uploads yet") {
		t.Errorf("expected empty state, got:\n%s", empty)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n        int64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}

	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.expected {
			t.Errorf("formatBytes(%d): expected %q, got %q", tt.n, tt.expected, got)
		}
	}
}

// ABOUTME: Tests for the bridge HTTP and WebSocket handlers
// ABOUTME: Drives a real bridge service with fake generators through httptest
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/harperreed/sts-bridge/internal/bridge"
	"github.com/harperreed/sts-bridge/pkg/audio"
	"github.com/harperreed/sts-bridge/pkg/audio/decode"
	"github.com/harperreed/sts-bridge/pkg/audio/encode"
	"github.com/harperreed/sts-bridge/pkg/generate"
	"github.com/harperreed/sts-bridge/pkg/protocol"
)

func echoGenerator() generate.Generator {
	return generate.GeneratorFunc(func(ctx context.Context, req generate.Request) (generate.Result, error) {
		buf := req.Audio
		return generate.Result{Audio: &buf}, nil
	})
}

func silentGenerator() generate.Generator {
	return generate.GeneratorFunc(func(ctx context.Context, req generate.Request) (generate.Result, error) {
		return generate.Result{}, nil
	})
}

func newTestServer(t *testing.T, gen generate.Generator, config Config) *Server {
	t.Helper()
	svc, err := bridge.New(gen, bridge.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to create bridge: %v", err)
	}
	return New(config, svc)
}

func testWAV(t *testing.T, rate, channels int, samples []float32) []byte {
	t.Helper()
	encoder, err := encode.NewWAV(rate, 16)
	if err != nil {
		t.Fatalf("failed to create encoder: %v", err)
	}
	data, err := encoder.Encode(audio.Buffer{Samples: samples, Format: audio.Format{SampleRate: rate, Channels: channels}})
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	return data
}

func do(t *testing.T, s *Server, method, path string, body []byte) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var fields map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &fields); err != nil {
			t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
		}
	}
	return rec, fields
}

func TestIndex(t *testing.T) {
	s := newTestServer(t, echoGenerator(), Config{})

	rec, fields := do(t, s, http.MethodGet, "/", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if fields["message"] != "Gemini STS Bridge Server is running" {
		t.Errorf("unexpected message: %v", fields["message"])
	}
	if fields["usage"] == nil {
		t.Error("expected usage field")
	}
}

func TestUnknownPath(t *testing.T) {
	s := newTestServer(t, echoGenerator(), Config{})

	rec, _ := do(t, s, http.MethodGet, "/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, echoGenerator(), Config{})

	rec, _ := do(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("expected 200 ok, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestUploadSuccess(t *testing.T) {
	s := newTestServer(t, echoGenerator(), Config{})

	stereo := []float32{0.5, 0.25, -0.5, -0.25, 0.1, 0.3}
	rec, fields := do(t, s, http.MethodPost, "/upload", testWAV(t, 16000, 2, stereo))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if fields["status"] != "ok" || fields["mime"] != "audio/wav" {
		t.Errorf("unexpected fields: %v", fields)
	}
	if _, ok := fields["error"]; ok {
		t.Error("success response must not carry error")
	}

	resp := protocol.UploadResponse{WAVB64: fields["wav_b64"].(string)}
	wav, err := resp.WAV()
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	buf, err := decode.NewWAV().Decode(wav)
	if err != nil {
		t.Fatalf("wav_b64 is not a WAV file: %v", err)
	}
	if buf.Format.SampleRate != 22050 {
		t.Errorf("expected 22050 Hz, got %d", buf.Format.SampleRate)
	}
	if buf.Format.Channels != 1 {
		t.Errorf("expected mono reply, got %d channels", buf.Format.Channels)
	}
}

func TestUploadErrors(t *testing.T) {
	tests := []struct {
		name        string
		gen         generate.Generator
		body        []byte
		status      int
		wantMessage string
	}{
		{"empty body", echoGenerator(), nil, http.StatusBadRequest, "No audio data received"},
		{"malformed body", echoGenerator(), []byte("this is not a wav file"), http.StatusInternalServerError, ""},
		{"no audio", silentGenerator(), nil, http.StatusInternalServerError, "Model returned no audio"},
		{
			"generator failure",
			generate.GeneratorFunc(func(ctx context.Context, req generate.Request) (generate.Result, error) {
				return generate.Result{}, errors.New("upstream unavailable")
			}),
			nil, http.StatusInternalServerError, "upstream unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := tt.body
			if body == nil && tt.status != http.StatusBadRequest {
				body = testWAV(t, 16000, 1, []float32{0.1, 0.2})
			}

			s := newTestServer(t, tt.gen, Config{})
			rec, fields := do(t, s, http.MethodPost, "/upload", body)

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, rec.Code, rec.Body.String())
			}
			msg, _ := fields["error"].(string)
			if msg == "" {
				t.Fatalf("expected non-empty error, got %v", fields)
			}
			if tt.wantMessage != "" && !strings.Contains(msg, tt.wantMessage) {
				t.Errorf("expected error %q, got %q", tt.wantMessage, msg)
			}
			if _, ok := fields["wav_b64"]; ok {
				t.Error("error response must not carry wav_b64")
			}
		})
	}
}

func TestUploadEmptyBodyExact(t *testing.T) {
	s := newTestServer(t, echoGenerator(), Config{})

	rec, _ := do(t, s, http.MethodPost, "/upload", nil)

	if strings.TrimSpace(rec.Body.String()) != `{"error":"No audio data received"}` {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestUploadTooLarge(t *testing.T) {
	s := newTestServer(t, echoGenerator(), Config{MaxUploadBytes: 64})

	rec, fields := do(t, s, http.MethodPost, "/upload", make([]byte, 65))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
	if fields["error"] == nil {
		t.Error("expected error field")
	}
}

func TestUploadWrongMethod(t *testing.T) {
	s := newTestServer(t, echoGenerator(), Config{})

	rec, _ := do(t, s, http.MethodGet, "/upload", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestStatsRecorded(t *testing.T) {
	s := newTestServer(t, echoGenerator(), Config{})

	do(t, s, http.MethodPost, "/upload", testWAV(t, 16000, 1, []float32{0.1}))
	do(t, s, http.MethodPost, "/upload", nil)

	snap := s.Stats().Snapshot()
	if snap.Requests != 2 || snap.Succeeded != 1 || snap.Failed != 1 {
		t.Errorf("unexpected stats: %+v", snap)
	}
	if snap.LastError == "" {
		t.Error("expected last error to be recorded")
	}
}

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind     bridge.Kind
		expected int
	}{
		{bridge.KindEmptyInput, http.StatusBadRequest},
		{bridge.KindDecode, http.StatusInternalServerError},
		{bridge.KindDownmix, http.StatusInternalServerError},
		{bridge.KindGenerate, http.StatusInternalServerError},
		{bridge.KindNoAudio, http.StatusInternalServerError},
		{bridge.KindEncode, http.StatusInternalServerError},
		{bridge.KindUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusForKind(tt.kind); got != tt.expected {
			t.Errorf("%v: expected %d, got %d", tt.kind, tt.expected, got)
		}
	}
}

func wsServer(t *testing.T, gen generate.Generator, config Config) *protocol.Client {
	t.Helper()
	s := newTestServer(t, gen, config)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return protocol.NewClient(protocol.Config{ServerAddr: ts.URL})
}

func TestWebSocketUpload(t *testing.T) {
	client := wsServer(t, echoGenerator(), Config{EnableWebSocket: true})

	resp, err := client.UploadWS(context.Background(), testWAV(t, 16000, 1, []float32{0.1, 0.2}))
	if err != nil {
		t.Fatalf("ws upload failed: %v", err)
	}
	if resp.Status != protocol.StatusOK {
		t.Errorf("expected ok, got %q", resp.Status)
	}
	if _, err := resp.WAV(); err != nil {
		t.Errorf("invalid audio: %v", err)
	}
}

func TestWebSocketNoAudio(t *testing.T) {
	client := wsServer(t, silentGenerator(), Config{EnableWebSocket: true})

	_, err := client.UploadWS(context.Background(), testWAV(t, 16000, 1, []float32{0.1}))

	var serverErr *protocol.ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if serverErr.Message != protocol.MsgNoAudioReturned {
		t.Errorf("unexpected message %q", serverErr.Message)
	}
}

func TestWebSocketTextFrameRejected(t *testing.T) {
	s := newTestServer(t, echoGenerator(), Config{EnableWebSocket: true})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("hello")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var reply protocol.ErrorResponse
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if reply.Error == "" {
		t.Error("expected an error reply for a text frame")
	}
}

func TestWebSocketDisabled(t *testing.T) {
	s := newTestServer(t, echoGenerator(), Config{EnableWebSocket: false})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/ws")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

// ABOUTME: Client for the STS bridge
// ABOUTME: Uploads audio over HTTP or WebSocket and parses the replies
package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

const (
	// UploadPath is the HTTP upload endpoint
	UploadPath = "/upload"

	// WebSocketPath is the streaming upload endpoint
	WebSocketPath = "/ws"
)

// Config holds client configuration
type Config struct {
	ServerAddr string       // host:port
	HTTPClient *http.Client // Optional, defaults to http.DefaultClient
	Debug      bool
}

// Client talks to a bridge server
type Client struct {
	config Config
	http   *http.Client
}

// ServerError is a non-success reply from the bridge
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// NewClient creates a new bridge client
func NewClient(config Config) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		config: config,
		http:   httpClient,
	}
}

func (c *Client) baseURL(scheme, path string) string {
	addr := c.config.ServerAddr
	// Accept full URLs as well as host:port
	if i := strings.Index(addr, "://"); i >= 0 {
		addr = addr[i+3:]
	}
	u := url.URL{Scheme: scheme, Host: strings.TrimSuffix(addr, "/"), Path: path}
	return u.String()
}

// Describe fetches the server descriptor
func (c *Client) Describe(ctx context.Context) (*Descriptor, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL("http", "/"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readServerError(resp)
	}

	var desc Descriptor
	if err := json.NewDecoder(resp.Body).Decode(&desc); err != nil {
		return nil, fmt.Errorf("failed to parse descriptor: %w", err)
	}
	return &desc, nil
}

// Upload posts audio to /upload and returns the reply
func (c *Client) Upload(ctx context.Context, audio []byte) (*UploadResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL("http", UploadPath), bytes.NewReader(audio))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	if c.config.Debug {
		log.Printf("[DEBUG] Uploading %d bytes to %s", len(audio), req.URL)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readServerError(resp)
	}

	var upload UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&upload); err != nil {
		return nil, fmt.Errorf("failed to parse upload response: %w", err)
	}
	return &upload, nil
}

// UploadWS sends audio as one binary frame on /ws and waits for the reply frame
func (c *Client) UploadWS(ctx context.Context, audio []byte) (*UploadResponse, error) {
	u := c.baseURL("ws", WebSocketPath)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial failed (%d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("dial failed: %w", err)
	}
	defer conn.Close()

	// Unblock the read if the caller gives up
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := conn.WriteMessage(websocket.BinaryMessage, audio); err != nil {
		return nil, fmt.Errorf("failed to send audio: %w", err)
	}

	var reply wsReply
	if err := conn.ReadJSON(&reply); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to read reply: %w", err)
	}

	// Best effort close handshake
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	if reply.Error != "" {
		return nil, &ServerError{Message: reply.Error}
	}
	return &reply.UploadResponse, nil
}

// readServerError turns a non-200 response into a ServerError
func readServerError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return &ServerError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	var errResp ErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
		return &ServerError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}
	return &ServerError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}

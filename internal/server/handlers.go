// ABOUTME: HTTP and WebSocket handlers for the bridge
// ABOUTME: Maps pipeline results and error kinds onto JSON responses
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/harperreed/sts-bridge/internal/bridge"
	"github.com/harperreed/sts-bridge/pkg/protocol"
)

const (
	// DefaultMaxUploadBytes bounds request bodies and WebSocket frames
	DefaultMaxUploadBytes = 32 << 20

	descriptorMessage = "Gemini STS Bridge Server is running"
	descriptorUsage   = "POST raw WAV data to /upload"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, protocol.Descriptor{
		Message: descriptorMessage,
		Usage:   descriptorUsage,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok")
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Printf("Rejected upload from %s: body exceeds %d bytes", r.RemoteAddr, tooLarge.Limit)
			writeJSON(w, http.StatusRequestEntityTooLarge, protocol.ErrorResponse{
				Error: fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit),
			})
			return
		}
		writeJSON(w, http.StatusBadRequest, protocol.ErrorResponse{Error: fmt.Sprintf("failed to read body: %v", err)})
		return
	}

	status, payload := s.process(r.Context(), body, "http")
	writeJSON(w, status, payload)
}

// process runs one upload and returns the HTTP status and JSON body
func (s *Server) process(ctx context.Context, body []byte, transport string) (int, any) {
	requestID := uuid.NewString()
	start := time.Now()

	result, err := s.processor.Process(ctx, body)
	latency := time.Since(start)
	s.stats.Record(len(body), latency, err)

	if err != nil {
		kind := bridge.KindOf(err)
		status := statusForKind(kind)
		log.Printf("Request %s (%s): %d bytes failed (%s) in %v: %v",
			requestID, transport, len(body), kind, latency.Round(time.Millisecond), err)
		return status, protocol.ErrorResponse{Error: errorMessage(kind, err)}
	}

	log.Printf("Request %s (%s): %d bytes %s %d Hz/%dch -> %d bytes WAV (%v audio) in %v",
		requestID, transport, len(body), result.InputCodec, result.InputRate, result.InputChannels,
		len(result.WAV), result.Duration.Round(time.Millisecond), latency.Round(time.Millisecond))
	if s.config.Debug {
		log.Printf("[DEBUG] Request %s: model audio at %d Hz, reply at %d Hz", requestID, result.ModelRate, result.SampleRate)
	}

	return http.StatusOK, protocol.NewUploadResponse(result.WAV)
}

// statusForKind maps pipeline failures to HTTP status codes
func statusForKind(kind bridge.Kind) int {
	if kind == bridge.KindEmptyInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// errorMessage returns the client-facing text for a failure
func errorMessage(kind bridge.Kind, err error) string {
	switch kind {
	case bridge.KindEmptyInput:
		return protocol.MsgNoAudioData
	case bridge.KindNoAudio:
		return protocol.MsgNoAudioReturned
	default:
		return err.Error()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

// handleWebSocket treats every binary frame as one upload and answers with one JSON text frame
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	if !s.addSession(conn) {
		log.Printf("Rejecting connection during shutdown")
		return
	}
	defer s.removeSession(conn)

	log.Printf("New WebSocket connection from %s", r.RemoteAddr)
	conn.SetReadLimit(s.config.MaxUploadBytes)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var reply any
		if msgType != websocket.BinaryMessage {
			reply = protocol.ErrorResponse{Error: "expected a binary audio frame"}
		} else {
			_, reply = s.process(r.Context(), data, "ws")
		}

		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("WebSocket write error: %v", err)
			break
		}
	}

	if s.config.Debug {
		log.Printf("[DEBUG] WebSocket connection from %s closed", r.RemoteAddr)
	}
}

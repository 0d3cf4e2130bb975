// ABOUTME: Bridge wire payloads
// ABOUTME: JSON bodies exchanged over /, /upload and /ws
package protocol

import (
	"encoding/base64"
	"fmt"
)

const (
	// StatusOK is the status field of a successful upload
	StatusOK = "ok"

	// MIMEWAV is the MIME type of returned audio
	MIMEWAV = "audio/wav"

	// MsgNoAudioData is returned when an upload has an empty body
	MsgNoAudioData = "No audio data received"

	// MsgNoAudioReturned is returned when the model produced no audio
	MsgNoAudioReturned = "Model returned no audio"
)

// Descriptor is the GET / response
type Descriptor struct {
	Message string `json:"message"`
	Usage   string `json:"usage"`
}

// UploadResponse is a successful upload reply
type UploadResponse struct {
	Status string `json:"status"`
	MIME   string `json:"mime"`
	WAVB64 string `json:"wav_b64"`
}

// NewUploadResponse builds a success reply around encoded WAV bytes
func NewUploadResponse(wav []byte) UploadResponse {
	return UploadResponse{
		Status: StatusOK,
		MIME:   MIMEWAV,
		WAVB64: base64.StdEncoding.EncodeToString(wav),
	}
}

// WAV decodes the base64 audio payload
func (r UploadResponse) WAV() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(r.WAVB64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode wav_b64: %w", err)
	}
	return data, nil
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// wsReply is the superset read from a /ws text frame; exactly one of
// Error or WAVB64 is set.
type wsReply struct {
	UploadResponse
	Error string `json:"error,omitempty"`
}

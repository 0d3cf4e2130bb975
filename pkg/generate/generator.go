// ABOUTME: Generation collaborator contract
// ABOUTME: Defines requests, results and the Generator interface for speech models
package generate

import (
	"context"

	"github.com/harperreed/sts-bridge/pkg/audio"
)

// Modality is a response type requested from the model
type Modality string

const (
	// ModalityAudio requests spoken audio output
	ModalityAudio Modality = "AUDIO"

	// MIMETypeWAV tags request audio as a WAV file
	MIMETypeWAV = "audio/wav"
)

// Request is a single speech-to-speech generation call
type Request struct {
	Audio      audio.Buffer // Mono float samples
	MIMEType   string
	Modalities []Modality
}

// NewAudioRequest builds the standard request for a mono buffer:
// tagged audio/wav and asking for audio output
func NewAudioRequest(mono audio.Buffer) Request {
	return Request{
		Audio:      mono,
		MIMEType:   MIMETypeWAV,
		Modalities: []Modality{ModalityAudio},
	}
}

// Result is the model's reply. A nil or empty Audio means the model produced no audio.
type Result struct {
	Audio *audio.Buffer
}

// HasAudio reports whether the result carries any samples
func (r Result) HasAudio() bool {
	return r.Audio != nil && !r.Audio.IsEmpty()
}

// Generator produces audio from audio
type Generator interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// GeneratorFunc adapts a function to the Generator interface
type GeneratorFunc func(ctx context.Context, req Request) (Result, error)

// Generate calls f(ctx, req)
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (Result, error) {
	return f(ctx, req)
}

// ABOUTME: Gemini-backed Generator implementation
// ABOUTME: Sends mono WAV audio to a Gemini model and extracts the audio reply
package generate

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/harperreed/sts-bridge/pkg/audio"
	"github.com/harperreed/sts-bridge/pkg/audio/decode"
	"github.com/harperreed/sts-bridge/pkg/audio/encode"
	"google.golang.org/genai"
)

const (
	// DefaultModel is the model used when none is configured
	DefaultModel = "gemini-2.0-flash-exp"

	// Gemini returns raw 16-bit PCM at 24kHz unless the MIME type says otherwise
	defaultPCMRate = 24000
)

// contentGenerator is the subset of genai.Models used by Gemini
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig holds Gemini client configuration
type GeminiConfig struct {
	APIKey     string
	Model      string
	HTTPClient *http.Client // Optional
	Debug      bool
}

// Gemini generates speech with the Gemini API
type Gemini struct {
	models contentGenerator
	model  string
	debug  bool
}

// NewGemini creates a Gemini generator. The client is created once and shared by all requests.
func NewGemini(ctx context.Context, config GeminiConfig) (*Gemini, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: config.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Gemini{
		models: client.Models,
		model:  config.Model,
		debug:  config.Debug,
	}, nil
}

// Model returns the configured model identifier
func (g *Gemini) Model() string {
	return g.model
}

// Generate sends the request audio to the model and returns its audio reply
func (g *Gemini) Generate(ctx context.Context, req Request) (Result, error) {
	payload, err := requestPayload(req)
	if err != nil {
		return Result{}, err
	}

	modalities := make([]string, 0, len(req.Modalities))
	for _, m := range req.Modalities {
		modalities = append(modalities, string(m))
	}

	contents := []*genai.Content{
		genai.NewContentFromBytes(payload, req.MIMEType, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{
		ResponseModalities: modalities,
	}

	if g.debug {
		log.Printf("[DEBUG] Gemini request: model=%s, mime=%s, bytes=%d, modalities=%v",
			g.model, req.MIMEType, len(payload), modalities)
	}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return Result{}, fmt.Errorf("gemini generate failed: %w", err)
	}

	buf, err := audioFromResponse(resp)
	if err != nil {
		return Result{}, err
	}

	return Result{Audio: buf}, nil
}

// requestPayload serializes the request audio for transport
func requestPayload(req Request) ([]byte, error) {
	switch req.MIMEType {
	case MIMETypeWAV:
		encoder, err := encode.NewWAV(req.Audio.Format.SampleRate, 16)
		if err != nil {
			return nil, fmt.Errorf("failed to create request encoder: %w", err)
		}
		data, err := encoder.Encode(req.Audio)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request audio: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported request MIME type: %s", req.MIMEType)
	}
}

// audioFromResponse returns the first inline audio part of the first candidate.
// A response without audio yields a nil buffer and no error.
func audioFromResponse(resp *genai.GenerateContentResponse) (*audio.Buffer, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, nil
	}

	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return nil, nil
	}

	for _, part := range candidate.Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		blob := part.InlineData
		if !strings.HasPrefix(strings.ToLower(blob.MIMEType), "audio/") {
			continue
		}

		buf, err := decodeBlob(blob.MIMEType, blob.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode model audio (%s): %w", blob.MIMEType, err)
		}
		return &buf, nil
	}

	return nil, nil
}

// decodeBlob decodes model audio: WAV payloads as WAV, everything else as 16-bit mono PCM
func decodeBlob(mimeType string, data []byte) (audio.Buffer, error) {
	if isWAV(mimeType, data) {
		return decode.NewWAV().Decode(data)
	}

	decoder, err := decode.NewPCM(audio.Format{
		Codec:      audio.CodecPCM,
		SampleRate: pcmRate(mimeType),
		Channels:   1,
		BitDepth:   16,
	})
	if err != nil {
		return audio.Buffer{}, err
	}
	return decoder.Decode(data)
}

func isWAV(mimeType string, data []byte) bool {
	mediaType, _, _ := mime.ParseMediaType(mimeType)
	switch mediaType {
	case "audio/wav", "audio/x-wav", "audio/wave":
		return true
	}
	return len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE"))
}

// pcmRate reads the rate parameter of a MIME type such as "audio/L16;codec=pcm;rate=24000"
func pcmRate(mimeType string) int {
	_, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return defaultPCMRate
	}
	rate, err := strconv.Atoi(params["rate"])
	if err != nil || rate <= 0 {
		return defaultPCMRate
	}
	return rate
}

// ABOUTME: Speech generation package
// ABOUTME: Defines the Generator contract and its Gemini implementation
// Package generate talks to the generative speech model.
//
// The model is an opaque collaborator: it receives a mono buffer tagged
// audio/wav with a request for audio output, and returns either an audio
// buffer or nothing.
//
// Example:
//
//	gen, err := generate.NewGemini(ctx, generate.GeminiConfig{
//	    APIKey: key,
//	    Model:  "gemini-2.0-flash-exp",
//	})
//	res, err := gen.Generate(ctx, generate.NewAudioRequest(mono))
//	if !res.HasAudio() {
//	    // model returned no audio
//	}
package generate

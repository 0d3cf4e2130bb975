// ABOUTME: Audio encoder package for encoding PCM to wire formats
// ABOUTME: Provides Encoder interface and implementations for WAV and raw PCM
// Package encode provides audio encoders.
//
// Supports: WAV (16-bit and 24-bit integer PCM), raw PCM (16-bit and 24-bit)
//
// All encoders accept an audio.Buffer of normalized float32 samples.
// The WAV encoder always labels its output with the sample rate it was
// created with.
//
// Example:
//
//	encoder, err := encode.NewWAV(22050, 16)
//	data, err := encoder.Encode(buf)
package encode

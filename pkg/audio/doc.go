// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Buffer types, channel downmixing and sample conversion
// Package audio provides fundamental audio types and utilities for the bridge.
//
// This package defines core types used throughout sts-bridge:
//   - Format: Describes audio stream format (codec, sample rate, channels, bit depth)
//   - Buffer: Decoded PCM audio as interleaved, normalized float32 samples
//
// It also provides:
//   - Downmix: multi-channel to mono by sample-wise averaging
//   - int16/24-bit/arbitrary bit depth ↔ float conversions with clipping
//
// Example:
//
//	buf := audio.Buffer{
//	    Samples: []float32{0.5, -0.5, 0.25, 0.75},
//	    Format:  audio.Format{Codec: "wav", SampleRate: 44100, Channels: 2, BitDepth: 16},
//	}
//
//	mono, err := audio.Downmix(buf) // Samples: {0, 0.5}
package audio

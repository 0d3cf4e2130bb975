// ABOUTME: Audio decoder package for multiple container support
// ABOUTME: Provides Decoder interface and implementations for WAV, PCM, MP3, FLAC, Opus
// Package decode provides audio decoders for uploaded and generated audio.
//
// Supports: WAV (integer PCM), raw PCM (16-bit and 24-bit), MP3, FLAC, Ogg Opus
//
// All decoders take a complete payload and return an audio.Buffer of
// interleaved float32 samples normalized to [-1, 1].
//
// Example:
//
//	buf, codec, err := decode.Decode(uploadBytes)
//
//	pcm, err := decode.NewPCM(audio.Format{Codec: "pcm", SampleRate: 24000, Channels: 1, BitDepth: 16})
//	buf, err := pcm.Decode(raw)
package decode

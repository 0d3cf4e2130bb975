// ABOUTME: Audio type definitions
// ABOUTME: Defines audio formats, decoded float buffers and sample conversions
package audio

import (
	"math"
	"time"
)

const (
	// 16-bit audio range constants
	Max16Bit = 32767
	Min16Bit = -32768

	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// Codec names used in Format.Codec
const (
	CodecPCM  = "pcm"
	CodecWAV  = "wav"
	CodecMP3  = "mp3"
	CodecFLAC = "flac"
	CodecOpus = "opus"
)

// Format describes audio stream format
type Format struct {
	Codec      string
	SampleRate int
	Channels   int
	BitDepth   int // Source bit depth before conversion to float
}

// Buffer represents decoded PCM audio.
// Samples are interleaved float32 values normalized to [-1, 1].
type Buffer struct {
	Samples []float32
	Format  Format
}

// Frames returns the number of sample frames (samples per channel)
func (b Buffer) Frames() int {
	if b.Format.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Format.Channels
}

// Duration returns the playback length of the buffer
func (b Buffer) Duration() time.Duration {
	if b.Format.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.Format.SampleRate)
}

// IsEmpty reports whether the buffer carries no samples
func (b Buffer) IsEmpty() bool {
	return len(b.Samples) == 0
}

// SampleFromInt16 converts an int16 sample to a normalized float
func SampleFromInt16(sample int16) float32 {
	return float32(sample) / 32768.0
}

// SampleToInt16 converts a normalized float to int16 with clipping
func SampleToInt16(sample float32) int16 {
	return int16(scaleClamp(sample, Max16Bit, Min16Bit))
}

// SampleFromInt converts a signed integer sample of the given bit depth to a normalized float.
// 8-bit samples are treated as unsigned, matching the WAV convention.
func SampleFromInt(sample int, bitDepth int) float32 {
	switch {
	case bitDepth == 8:
		return float32(sample-128) / 128.0
	case bitDepth <= 0 || bitDepth > 32:
		return 0
	default:
		return float32(float64(sample) / float64(int64(1)<<(bitDepth-1)))
	}
}

// SampleToInt converts a normalized float to a signed integer of the given bit depth with clipping
func SampleToInt(sample float32, bitDepth int) int {
	switch bitDepth {
	case 8:
		return int(scaleClamp(sample, 127, -128)) + 128
	case 16:
		return int(scaleClamp(sample, Max16Bit, Min16Bit))
	case 24:
		return int(scaleClamp(sample, Max24Bit, Min24Bit))
	case 32:
		return int(scaleClamp(sample, math.MaxInt32, math.MinInt32))
	default:
		return 0
	}
}

// SampleFrom24Bit converts 24-bit packed bytes (little-endian) to a normalized float
func SampleFrom24Bit(b [3]byte) float32 {
	// Reconstruct 24-bit value and sign-extend to 32-bit
	val := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	if val&0x800000 != 0 {
		val |= ^0xFFFFFF
	}
	return float32(val) / 8388608.0
}

// scaleClamp scales a normalized sample to the integer range and clips it to [min, max]
func scaleClamp(sample float32, max, min int64) int64 {
	scaled := math.Round(float64(sample) * (float64(max) + 1))
	if scaled > float64(max) {
		return max
	}
	if scaled < float64(min) {
		return min
	}
	return int64(scaled)
}

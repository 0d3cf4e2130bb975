// ABOUTME: PCM audio decoder
// ABOUTME: Decodes raw 16-bit and 24-bit little-endian PCM to float samples
package decode

import (
	"encoding/binary"
	"fmt"

	"github.com/harperreed/sts-bridge/pkg/audio"
)

// PCMDecoder decodes headerless PCM audio
type PCMDecoder struct {
	format audio.Format
}

// NewPCM creates a new PCM decoder
func NewPCM(format audio.Format) (Decoder, error) {
	if format.Codec != audio.CodecPCM {
		return nil, fmt.Errorf("invalid codec for PCM decoder: %s", format.Codec)
	}

	if format.BitDepth != 16 && format.BitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", format.BitDepth)
	}

	if format.Channels <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", format.Channels)
	}

	return &PCMDecoder{
		format: format,
	}, nil
}

// Decode converts PCM bytes to float samples
func (d *PCMDecoder) Decode(data []byte) (audio.Buffer, error) {
	var samples []float32
	if d.format.BitDepth == 24 {
		// 24-bit PCM: 3 bytes per sample
		numSamples := len(data) / 3
		samples = make([]float32, numSamples)
		for i := 0; i < numSamples; i++ {
			b := [3]byte{data[i*3], data[i*3+1], data[i*3+2]}
			samples[i] = audio.SampleFrom24Bit(b)
		}
	} else {
		// 16-bit PCM: 2 bytes per sample
		numSamples := len(data) / 2
		samples = make([]float32, numSamples)
		for i := 0; i < numSamples; i++ {
			sample16 := int16(binary.LittleEndian.Uint16(data[i*2:]))
			samples[i] = audio.SampleFromInt16(sample16)
		}
	}

	// Drop a trailing partial frame
	if extra := len(samples) % d.format.Channels; extra != 0 {
		samples = samples[:len(samples)-extra]
	}

	return audio.Buffer{Samples: samples, Format: d.format}, nil
}

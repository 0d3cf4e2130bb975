// ABOUTME: Channel reduction for decoded audio
// ABOUTME: Averages interleaved channels sample-wise into a mono buffer
package audio

import "fmt"

// Downmix collapses a multi-channel buffer to mono by averaging the channels
// of every frame. Mono buffers are returned unchanged.
func Downmix(b Buffer) (Buffer, error) {
	channels := b.Format.Channels
	if channels <= 0 {
		return Buffer{}, fmt.Errorf("invalid channel count: %d", channels)
	}
	if channels == 1 {
		return b, nil
	}
	if len(b.Samples)%channels != 0 {
		return Buffer{}, fmt.Errorf("sample count %d is not a multiple of %d channels", len(b.Samples), channels)
	}

	frames := len(b.Samples) / channels
	mono := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += float64(b.Samples[i*channels+ch])
		}
		mono[i] = float32(sum / float64(channels))
	}

	format := b.Format
	format.Channels = 1
	return Buffer{Samples: mono, Format: format}, nil
}

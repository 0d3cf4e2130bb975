// ABOUTME: Audio output interface definition
// ABOUTME: Common interface for audio playback backends
package output

import (
	"fmt"

	"github.com/harperreed/sts-bridge/pkg/audio"
)

// Output represents an audio output device
type Output interface {
	// Open initializes the output device
	Open(sampleRate, channels int) error

	// Write outputs audio samples (blocks until written)
	Write(samples []float32) error

	// Drain blocks until all written audio has played
	Drain() error

	// Close releases output resources
	Close() error
}

// Play opens out with the buffer's format, plays the whole buffer and waits for it to finish
func Play(out Output, buf audio.Buffer) error {
	if buf.Format.SampleRate <= 0 || buf.Format.Channels <= 0 {
		return fmt.Errorf("invalid playback format: %d Hz, %d channels", buf.Format.SampleRate, buf.Format.Channels)
	}

	if err := out.Open(buf.Format.SampleRate, buf.Format.Channels); err != nil {
		return err
	}
	if err := out.Write(buf.Samples); err != nil {
		return err
	}
	return out.Drain()
}

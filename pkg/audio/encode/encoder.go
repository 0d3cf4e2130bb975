// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for all audio encoders
package encode

import "github.com/harperreed/sts-bridge/pkg/audio"

// Encoder encodes float PCM buffers to wire formats
type Encoder interface {
	// Encode converts a PCM buffer to encoded audio data
	Encode(buf audio.Buffer) ([]byte, error)
}

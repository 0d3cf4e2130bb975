// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for all audio decoders plus codec lookup
package decode

import (
	"fmt"

	"github.com/harperreed/sts-bridge/pkg/audio"
)

// Decoder decodes a complete encoded payload into normalized float PCM
type Decoder interface {
	// Decode converts encoded audio data to a PCM buffer
	Decode(data []byte) (audio.Buffer, error)
}

// New returns the container decoder for a codec name.
// Raw PCM needs an explicit format and is created with NewPCM.
func New(codec string) (Decoder, error) {
	switch codec {
	case audio.CodecWAV:
		return NewWAV(), nil
	case audio.CodecMP3:
		return NewMP3(), nil
	case audio.CodecFLAC:
		return NewFLAC(), nil
	case audio.CodecOpus:
		return NewOpus(), nil
	default:
		return nil, fmt.Errorf("unsupported codec: %s", codec)
	}
}

// Decode sniffs the container of data and decodes it.
// It returns the detected codec alongside the buffer so callers can report it.
func Decode(data []byte) (audio.Buffer, string, error) {
	codec := Sniff(data)

	decoder, err := New(codec)
	if err != nil {
		return audio.Buffer{}, codec, err
	}

	buf, err := decoder.Decode(data)
	if err != nil {
		return audio.Buffer{}, codec, err
	}
	return buf, codec, nil
}

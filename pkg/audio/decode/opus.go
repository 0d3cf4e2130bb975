// ABOUTME: Ogg Opus audio decoder
// ABOUTME: Decodes Ogg-encapsulated Opus files to float samples via libopusfile
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/harperreed/sts-bridge/pkg/audio"
	"gopkg.in/hraban/opus.v2"
)

const (
	// Opus always decodes at 48kHz
	opusSampleRate = 48000

	// Max frame size per channel (120ms at 48kHz)
	opusMaxFrame = 5760
)

// OpusDecoder decodes Ogg Opus audio
type OpusDecoder struct{}

// NewOpus creates a new Opus decoder
func NewOpus() Decoder {
	return &OpusDecoder{}
}

// Decode converts an Ogg Opus file to float samples
func (d *OpusDecoder) Decode(data []byte) (audio.Buffer, error) {
	channels, err := opusChannels(data)
	if err != nil {
		return audio.Buffer{}, err
	}

	stream, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("failed to open opus stream: %w", err)
	}
	defer stream.Close()

	pcm16 := make([]int16, opusMaxFrame*channels)
	var samples []float32
	for {
		n, err := stream.Read(pcm16)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return audio.Buffer{}, fmt.Errorf("opus decode failed: %w", err)
		}
		// n is samples per channel
		for i := 0; i < n*channels; i++ {
			samples = append(samples, audio.SampleFromInt16(pcm16[i]))
		}
	}

	return audio.Buffer{
		Samples: samples,
		Format: audio.Format{
			Codec:      audio.CodecOpus,
			SampleRate: opusSampleRate,
			Channels:   channels,
			BitDepth:   16,
		},
	}, nil
}

// opusChannels reads the channel count from the OpusHead identification header
func opusChannels(data []byte) (int, error) {
	idx := opusHeadIndex(data)
	// "OpusHead" + version byte + channel count byte
	if idx < 0 || idx+9 >= len(data) {
		return 0, fmt.Errorf("missing OpusHead header")
	}
	channels := int(data[idx+9])
	if channels == 0 {
		return 0, fmt.Errorf("invalid opus channel count: 0")
	}
	return channels, nil
}

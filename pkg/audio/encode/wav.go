// ABOUTME: WAV audio encoder
// ABOUTME: Writes float buffers as integer PCM WAV files via go-audio/wav
package encode

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/harperreed/sts-bridge/pkg/audio"
)

const wavFormatPCM = 1

// WAVEncoder encodes WAV files at a fixed sample rate.
// The buffer's own sample rate is not consulted: the output is always
// labelled with the encoder's rate.
type WAVEncoder struct {
	sampleRate int
	bitDepth   int
}

// NewWAV creates a new WAV encoder
func NewWAV(sampleRate, bitDepth int) (Encoder, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate: %d", sampleRate)
	}

	if bitDepth != 16 && bitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 16, 24)", bitDepth)
	}

	return &WAVEncoder{
		sampleRate: sampleRate,
		bitDepth:   bitDepth,
	}, nil
}

// Encode converts float samples to a complete WAV file
func (e *WAVEncoder) Encode(buf audio.Buffer) ([]byte, error) {
	channels := buf.Format.Channels
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count: %d", channels)
	}

	data := make([]int, len(buf.Samples))
	for i, s := range buf.Samples {
		data[i] = audio.SampleToInt(s, e.bitDepth)
	}

	out := &writeSeekBuffer{}
	enc := wav.NewEncoder(out, e.sampleRate, e.bitDepth, channels, wavFormatPCM)

	intBuf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  e.sampleRate,
		},
		Data:           data,
		SourceBitDepth: e.bitDepth,
	}

	if err := enc.Write(intBuf); err != nil {
		return nil, fmt.Errorf("failed to write WAV samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize WAV: %w", err)
	}

	return out.Bytes(), nil
}

// writeSeekBuffer is an in-memory io.WriteSeeker.
// The WAV encoder seeks back to patch chunk sizes once all samples are written.
type writeSeekBuffer struct {
	buf []byte
	pos int
}

func (w *writeSeekBuffer) Write(p []byte) (int, error) {
	end := w.pos + len(p)
	if end > len(w.buf) {
		grown := make([]byte, end)
		copy(grown, w.buf)
		w.buf = grown
	}
	copy(w.buf[w.pos:], p)
	w.pos = end
	return len(p), nil
}

func (w *writeSeekBuffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.pos) + offset
	case io.SeekEnd:
		abs = int64(len(w.buf)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("negative position")
	}
	w.pos = int(abs)
	return abs, nil
}

// Bytes returns the written contents
func (w *writeSeekBuffer) Bytes() []byte {
	return w.buf
}

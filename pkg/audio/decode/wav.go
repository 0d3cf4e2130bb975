// ABOUTME: WAV audio decoder
// ABOUTME: Decodes integer PCM and IEEE float WAV files to normalized float samples
package decode

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/riff"
	"github.com/go-audio/wav"
	"github.com/harperreed/sts-bridge/pkg/audio"
)

const (
	wavFormatPCM        = 1
	wavFormatFloat      = 3
	wavFormatExtensible = 0xFFFE
)

// Trailing 14 bytes shared by the KSDATAFORMAT_SUBTYPE_* GUIDs. The first two
// bytes of the GUID carry the plain format tag.
var wavSubformatSuffix = []byte{
	0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71,
}

// WAVDecoder decodes RIFF/WAVE files
type WAVDecoder struct{}

// NewWAV creates a new WAV decoder
func NewWAV() Decoder {
	return &WAVDecoder{}
}

// Decode parses a complete WAV file
func (d *WAVDecoder) Decode(data []byte) (audio.Buffer, error) {
	info, err := scanWAV(data)
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("invalid WAV file: %w", err)
	}

	encoding, err := info.encoding()
	if err != nil {
		return audio.Buffer{}, err
	}

	switch encoding {
	case wavFormatPCM:
		return decodeIntWAV(data)
	case wavFormatFloat:
		return info.decodeFloat()
	default:
		return audio.Buffer{}, fmt.Errorf("unsupported WAV encoding: format %d (supported: integer PCM, IEEE float)", encoding)
	}
}

// wavInfo is the raw fmt and data chunks of a WAV file
type wavInfo struct {
	formatTag  uint16
	channels   int
	sampleRate int
	bitDepth   int
	extension  []byte // fmt bytes past the 16-byte base header
	samples    []byte
}

// scanWAV walks the RIFF chunks and keeps the fmt and data payloads
func scanWAV(data []byte) (*wavInfo, error) {
	parser := riff.New(bytes.NewReader(data))
	if err := parser.ParseHeaders(); err != nil {
		return nil, err
	}
	if parser.Format != riff.WavFormatID {
		return nil, fmt.Errorf("not a WAVE file: %q", parser.Format[:])
	}

	var info *wavInfo
	for {
		chunk, err := parser.NextChunk()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, errors.New("missing data chunk")
			}
			return nil, err
		}

		switch chunk.ID {
		case riff.FmtID:
			raw := make([]byte, chunk.Size)
			if _, err := io.ReadFull(chunk, raw); err != nil {
				return nil, fmt.Errorf("read fmt chunk: %w", err)
			}
			if info, err = parseFmt(raw); err != nil {
				return nil, err
			}
		case riff.DataFormatID:
			if info == nil {
				return nil, errors.New("data chunk before fmt chunk")
			}
			// Streaming writers leave the size unset, so take what is there.
			samples, err := io.ReadAll(io.LimitReader(chunk, int64(chunk.Size)))
			if err != nil {
				return nil, fmt.Errorf("read data chunk: %w", err)
			}
			info.samples = samples
			return info, nil
		default:
			chunk.Drain()
		}
	}
}

func parseFmt(raw []byte) (*wavInfo, error) {
	if len(raw) < 16 {
		return nil, fmt.Errorf("fmt chunk too short: %d bytes", len(raw))
	}
	return &wavInfo{
		formatTag:  binary.LittleEndian.Uint16(raw[0:2]),
		channels:   int(binary.LittleEndian.Uint16(raw[2:4])),
		sampleRate: int(binary.LittleEndian.Uint32(raw[4:8])),
		bitDepth:   int(binary.LittleEndian.Uint16(raw[14:16])),
		extension:  raw[16:],
	}, nil
}

// encoding resolves WAVE_FORMAT_EXTENSIBLE to the tag inside its subformat GUID
func (w *wavInfo) encoding() (uint16, error) {
	if w.formatTag != wavFormatExtensible {
		return w.formatTag, nil
	}
	// cbSize(2) validBits(2) channelMask(4) subformat(16)
	if len(w.extension) < 24 {
		return 0, errors.New("unsupported WAV encoding: extensible format without subformat")
	}
	guid := w.extension[8:24]
	tag := binary.LittleEndian.Uint16(guid[0:2])
	if !bytes.Equal(guid[2:], wavSubformatSuffix) || (tag != wavFormatPCM && tag != wavFormatFloat) {
		return 0, fmt.Errorf("unsupported WAV extensible subformat: %x", guid)
	}
	return tag, nil
}

func (w *wavInfo) decodeFloat() (audio.Buffer, error) {
	if w.channels <= 0 {
		return audio.Buffer{}, fmt.Errorf("invalid WAV channel count: %d", w.channels)
	}
	if w.bitDepth != 32 && w.bitDepth != 64 {
		return audio.Buffer{}, fmt.Errorf("unsupported float bit depth: %d (supported: 32, 64)", w.bitDepth)
	}

	width := w.bitDepth / 8
	frameSize := width * w.channels
	count := len(w.samples) / frameSize * w.channels

	samples := make([]float32, count)
	for i := range samples {
		b := w.samples[i*width:]
		if width == 4 {
			samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(b))
		} else {
			samples[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(b)))
		}
	}

	return audio.Buffer{
		Samples: samples,
		Format: audio.Format{
			Codec:      audio.CodecWAV,
			SampleRate: w.sampleRate,
			Channels:   w.channels,
			BitDepth:   w.bitDepth,
		},
	}, nil
}

func decodeIntWAV(data []byte) (audio.Buffer, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return audio.Buffer{}, fmt.Errorf("invalid WAV file: %w", err)
		}
		return audio.Buffer{}, fmt.Errorf("invalid WAV file")
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return audio.Buffer{}, fmt.Errorf("failed to read WAV samples: %w", err)
	}

	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	if channels <= 0 {
		return audio.Buffer{}, fmt.Errorf("invalid WAV channel count: %d", channels)
	}
	if bitDepth != 8 && bitDepth != 16 && bitDepth != 24 && bitDepth != 32 {
		return audio.Buffer{}, fmt.Errorf("unsupported bit depth: %d (supported: 8, 16, 24, 32)", bitDepth)
	}

	samples := make([]float32, len(pcm.Data))
	for i, v := range pcm.Data {
		samples[i] = audio.SampleFromInt(v, bitDepth)
	}

	return audio.Buffer{
		Samples: samples,
		Format: audio.Format{
			Codec:      audio.CodecWAV,
			SampleRate: int(dec.SampleRate),
			Channels:   channels,
			BitDepth:   bitDepth,
		},
	}, nil
}

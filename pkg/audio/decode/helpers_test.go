// ABOUTME: Shared helpers for decoder tests
// ABOUTME: Builds minimal RIFF/WAVE payloads in memory
package decode

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// makeWAV builds a 16-bit PCM WAV file from interleaved samples
func makeWAV(t *testing.T, sampleRate, channels int, samples []int16) []byte {
	t.Helper()

	var buf bytes.Buffer
	dataSize := len(samples) * 2
	blockAlign := channels * 2

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	for _, s := range samples {
		_ = binary.Write(&buf, binary.LittleEndian, s)
	}

	return buf.Bytes()
}

// makeFloatWAV builds a 32-bit IEEE float WAV, optionally as WAVE_FORMAT_EXTENSIBLE
func makeFloatWAV(t *testing.T, sampleRate, channels int, extensible bool, samples []float32) []byte {
	t.Helper()

	var payload bytes.Buffer
	for _, s := range samples {
		_ = binary.Write(&payload, binary.LittleEndian, s)
	}
	if extensible {
		return makeExtensibleWAV(t, sampleRate, channels, 32, 3, payload.Bytes())
	}
	return makeRawWAV(t, 3, sampleRate, channels, 32, nil, payload.Bytes())
}

// makeExtensibleWAV builds a WAVE_FORMAT_EXTENSIBLE file whose subformat GUID
// starts with the given format tag
func makeExtensibleWAV(t *testing.T, sampleRate, channels, bitDepth int, subformat uint16, payload []byte) []byte {
	t.Helper()

	var ext bytes.Buffer
	_ = binary.Write(&ext, binary.LittleEndian, uint16(22)) // cbSize
	_ = binary.Write(&ext, binary.LittleEndian, uint16(bitDepth))
	_ = binary.Write(&ext, binary.LittleEndian, uint32(0)) // channel mask
	_ = binary.Write(&ext, binary.LittleEndian, subformat)
	ext.Write([]byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71})

	return makeRawWAV(t, 0xFFFE, sampleRate, channels, bitDepth, ext.Bytes(), payload)
}

// makeRawWAV assembles a WAV file from a format tag, fmt extension and data payload
func makeRawWAV(t *testing.T, tag uint16, sampleRate, channels, bitDepth int, ext, payload []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	blockAlign := channels * bitDepth / 8
	fmtSize := 16 + len(ext)

	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(4+8+fmtSize+8+len(payload)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(fmtSize))
	_ = binary.Write(&buf, binary.LittleEndian, tag)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bitDepth))
	buf.Write(ext)

	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(payload)))
	buf.Write(payload)

	return buf.Bytes()
}

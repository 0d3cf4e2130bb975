// ABOUTME: Container detection from magic bytes
// ABOUTME: Identifies WAV, FLAC, Ogg Opus and MP3 payloads
package decode

import (
	"bytes"

	"github.com/harperreed/sts-bridge/pkg/audio"
)

// opusHeadSearchLimit bounds the search for the OpusHead packet in the first Ogg page
const opusHeadSearchLimit = 512

// Sniff returns the codec name for data based on its leading bytes.
// Anything unrecognized is reported as WAV so that malformed uploads
// surface as WAV decode errors.
func Sniff(data []byte) string {
	switch {
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE")):
		return audio.CodecWAV
	case bytes.HasPrefix(data, []byte("fLaC")):
		return audio.CodecFLAC
	case bytes.HasPrefix(data, []byte("OggS")) && opusHeadIndex(data) >= 0:
		return audio.CodecOpus
	case bytes.HasPrefix(data, []byte("ID3")):
		return audio.CodecMP3
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		// MPEG audio frame sync
		return audio.CodecMP3
	default:
		return audio.CodecWAV
	}
}

// opusHeadIndex returns the offset of the OpusHead packet, or -1
func opusHeadIndex(data []byte) int {
	limit := len(data)
	if limit > opusHeadSearchLimit {
		limit = opusHeadSearchLimit
	}
	return bytes.Index(data[:limit], []byte("OpusHead"))
}

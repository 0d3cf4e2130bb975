// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides Output interface and oto implementation
// Package output provides audio playback interfaces.
//
// Currently supports oto for cross-platform audio output. The bridge
// client uses it to play generated replies locally.
//
// Example:
//
//	out := output.NewOto()
//	defer out.Close()
//	err := output.Play(out, buf)
package output

// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts audio between different sample rates
// Package resample provides audio sample rate conversion.
//
// Uses linear interpolation for converting between sample rates.
// Handles both upsampling and downsampling of whole buffers.
//
// Example:
//
//	r := resample.New(24000, 22050, 1)
//	out := r.Resample(samples)
//
//	// or, on an audio.Buffer
//	buf = resample.Buffer(buf, 22050)
package resample

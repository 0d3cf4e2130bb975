// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Used to convert generated speech to the bridge's output rate
package resample

import "github.com/harperreed/sts-bridge/pkg/audio"

// Resampler performs linear interpolation to convert between sample rates
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample converts a complete interleaved input to the output sample rate
// using linear interpolation. The final input frame is held for any output
// positions that fall past it.
func (r *Resampler) Resample(input []float32) []float32 {
	inputFrames := len(input) / r.channels
	if inputFrames == 0 {
		return []float32{}
	}

	outputFrames := r.OutputSamplesNeeded(len(input)) / r.channels
	output := make([]float32, outputFrames*r.channels)

	for outIdx := 0; outIdx < outputFrames; outIdx++ {
		// Calculate which input frame we need
		inputPos := float64(outIdx) * r.ratio
		inputIdx := int(inputPos)

		if inputIdx >= inputFrames-1 {
			last := (inputFrames - 1) * r.channels
			copy(output[outIdx*r.channels:(outIdx+1)*r.channels], input[last:last+r.channels])
			continue
		}

		// Linear interpolation factor
		frac := inputPos - float64(inputIdx)

		for ch := 0; ch < r.channels; ch++ {
			sample1 := float64(input[inputIdx*r.channels+ch])
			sample2 := float64(input[(inputIdx+1)*r.channels+ch])
			output[outIdx*r.channels+ch] = float32(sample1*(1.0-frac) + sample2*frac)
		}
	}

	return output
}

// OutputSamplesNeeded calculates how many output samples will be produced from input samples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples / r.channels
	outputFrames := int(int64(inputFrames) * int64(r.outputRate) / int64(r.inputRate))
	return outputFrames * r.channels
}

// Buffer resamples buf to rate. Buffers already at rate, or without a
// known rate or channel layout, are returned unchanged.
func Buffer(buf audio.Buffer, rate int) audio.Buffer {
	if rate <= 0 || buf.Format.SampleRate <= 0 || buf.Format.Channels <= 0 || buf.Format.SampleRate == rate {
		return buf
	}

	r := New(buf.Format.SampleRate, rate, buf.Format.Channels)
	format := buf.Format
	format.SampleRate = rate
	return audio.Buffer{Samples: r.Resample(buf.Samples), Format: format}
}

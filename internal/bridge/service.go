// ABOUTME: Bridge service core
// ABOUTME: Turns an uploaded audio file into the model's spoken reply as WAV
package bridge

import (
	"context"
	"log"
	"time"

	"github.com/harperreed/sts-bridge/pkg/audio"
	"github.com/harperreed/sts-bridge/pkg/audio/decode"
	"github.com/harperreed/sts-bridge/pkg/audio/encode"
	"github.com/harperreed/sts-bridge/pkg/audio/resample"
	"github.com/harperreed/sts-bridge/pkg/generate"
)

const (
	// OutputSampleRate is the rate every reply WAV is written at, whatever the
	// rate of the upload or the model audio
	OutputSampleRate = 22050

	// DefaultOutputBitDepth is the sample size of reply WAVs
	DefaultOutputBitDepth = 16

	// MIMEWAV is the MIME type of the encoded reply
	MIMEWAV = "audio/wav"
)

// Options configures a Service
type Options struct {
	OutputBitDepth int

	// Resample converts model audio to OutputSampleRate before encoding. When
	// false the model's samples are written unchanged and only labelled with
	// OutputSampleRate, so audio at another rate plays back at the wrong speed.
	Resample bool

	GenerateTimeout time.Duration // Zero means no timeout
	Debug           bool
}

// DefaultOptions returns the standard output settings
func DefaultOptions() Options {
	return Options{
		OutputBitDepth: DefaultOutputBitDepth,
	}
}

// Result is an encoded reply and a summary of how it was produced
type Result struct {
	WAV        []byte
	MIME       string
	SampleRate int
	Channels   int

	InputCodec    string
	InputRate     int
	InputChannels int
	ModelRate     int
	Duration      time.Duration // Length of the reply audio
}

// Service runs the speech-to-speech pipeline. It holds no per-request state
// and is safe for concurrent use.
type Service struct {
	gen     generate.Generator
	opts    Options
	encoder encode.Encoder
}

// New creates a Service around a generator
func New(gen generate.Generator, opts Options) (*Service, error) {
	if opts.OutputBitDepth == 0 {
		opts.OutputBitDepth = DefaultOutputBitDepth
	}

	encoder, err := encode.NewWAV(OutputSampleRate, opts.OutputBitDepth)
	if err != nil {
		return nil, err
	}

	return &Service{
		gen:     gen,
		opts:    opts,
		encoder: encoder,
	}, nil
}

// Options returns the effective options
func (s *Service) Options() Options {
	return s.opts
}

// Process decodes body, downmixes it to mono, asks the generator for a reply
// and encodes that reply as WAV. Every failure is an *Error.
func (s *Service) Process(ctx context.Context, body []byte) (*Result, error) {
	if len(body) == 0 {
		return nil, newError(KindEmptyInput, ErrEmptyInput)
	}

	input, codec, err := s.decode(body)
	if err != nil {
		return nil, err
	}

	mono, err := s.downmix(input)
	if err != nil {
		return nil, err
	}

	reply, err := s.generate(ctx, mono)
	if err != nil {
		return nil, err
	}

	wav, out, err := s.encode(reply)
	if err != nil {
		return nil, err
	}

	return &Result{
		WAV:           wav,
		MIME:          MIMEWAV,
		SampleRate:    OutputSampleRate,
		Channels:      out.Format.Channels,
		InputCodec:    codec,
		InputRate:     input.Format.SampleRate,
		InputChannels: input.Format.Channels,
		ModelRate:     reply.Format.SampleRate,
		Duration:      time.Duration(out.Frames()) * time.Second / time.Duration(OutputSampleRate),
	}, nil
}

func (s *Service) decode(body []byte) (audio.Buffer, string, error) {
	buf, codec, err := decode.Decode(body)
	if err != nil {
		return audio.Buffer{}, codec, newError(KindDecode, err)
	}

	if s.opts.Debug {
		log.Printf("[DEBUG] Decoded %s: %d Hz, %d channels, %d frames",
			codec, buf.Format.SampleRate, buf.Format.Channels, buf.Frames())
	}
	return buf, codec, nil
}

func (s *Service) downmix(buf audio.Buffer) (audio.Buffer, error) {
	mono, err := audio.Downmix(buf)
	if err != nil {
		return audio.Buffer{}, newError(KindDownmix, err)
	}
	return mono, nil
}

func (s *Service) generate(ctx context.Context, mono audio.Buffer) (audio.Buffer, error) {
	if s.opts.GenerateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.GenerateTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := s.gen.Generate(ctx, generate.NewAudioRequest(mono))
	if err != nil {
		return audio.Buffer{}, newError(KindGenerate, err)
	}
	if !res.HasAudio() {
		return audio.Buffer{}, newError(KindNoAudio, ErrNoAudio)
	}

	if s.opts.Debug {
		log.Printf("[DEBUG] Generated %d samples at %d Hz in %v",
			len(res.Audio.Samples), res.Audio.Format.SampleRate, time.Since(start))
	}
	return *res.Audio, nil
}

func (s *Service) encode(reply audio.Buffer) ([]byte, audio.Buffer, error) {
	if reply.Format.Channels <= 0 {
		reply.Format.Channels = 1
	}
	if len(reply.Samples)%reply.Format.Channels != 0 {
		return nil, audio.Buffer{}, errorf(KindEncode, "sample count %d is not a multiple of %d channels",
			len(reply.Samples), reply.Format.Channels)
	}

	if s.opts.Resample {
		reply = resample.Buffer(reply, OutputSampleRate)
	}

	wav, err := s.encoder.Encode(reply)
	if err != nil {
		return nil, audio.Buffer{}, newError(KindEncode, err)
	}
	return wav, reply, nil
}

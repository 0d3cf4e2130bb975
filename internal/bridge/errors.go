// ABOUTME: Kind-tagged errors for the bridge pipeline
// ABOUTME: Each pipeline step reports failures with its own Kind
package bridge

import (
	"errors"
	"fmt"
)

// Kind identifies the pipeline step that failed
type Kind int

const (
	KindUnknown Kind = iota
	KindEmptyInput
	KindDecode
	KindDownmix
	KindGenerate
	KindNoAudio
	KindEncode
)

func (k Kind) String() string {
	switch k {
	case KindEmptyInput:
		return "empty_input"
	case KindDecode:
		return "decode"
	case KindDownmix:
		return "downmix"
	case KindGenerate:
		return "generate"
	case KindNoAudio:
		return "no_audio"
	case KindEncode:
		return "encode"
	default:
		return "unknown"
	}
}

var (
	// ErrEmptyInput is reported when the upload body is empty
	ErrEmptyInput = errors.New("no audio data received")

	// ErrNoAudio is reported when the model reply carries no audio
	ErrNoAudio = errors.New("model returned no audio")
)

// Error is a pipeline failure. Its text is the underlying error's text.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of err, or KindUnknown for errors not raised by the pipeline
func KindOf(err error) Kind {
	var bridgeErr *Error
	if errors.As(err, &bridgeErr) {
		return bridgeErr.Kind
	}
	return KindUnknown
}

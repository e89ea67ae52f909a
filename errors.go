package qoi

import (
	"fmt"

	"github.com/pkg/errors"
)

// HeaderErrorKind enumerates the distinct ways a 14-byte QOI header can
// fail validation. Each kind gets a stable, non-aliasing message.
type HeaderErrorKind int

const (
	BadMagic HeaderErrorKind = iota
	InvalidChannels
	InvalidColorspace
	EmptyImage
	ImageTooLarge
)

func (k HeaderErrorKind) String() string {
	switch k {
	case BadMagic:
		return "bad magic"
	case InvalidChannels:
		return "invalid channels"
	case InvalidColorspace:
		return "invalid colorspace"
	case EmptyImage:
		return "empty image"
	case ImageTooLarge:
		return "image too large"
	default:
		return "unknown header error"
	}
}

// HeaderError reports a header validation failure. It is returned before
// any pixel is read or written.
type HeaderError struct {
	Kind HeaderErrorKind
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("qoi: header error: %s", e.Kind)
}

func newHeaderError(kind HeaderErrorKind) error {
	return &HeaderError{Kind: kind}
}

// Sentinel errors for the buffer/stream-shape taxonomy. Callers compare
// against these with errors.Is; they are never wrapped so identity survives.
var (
	// ErrInputBufferSize is returned when an encode caller's pixel buffer
	// length does not equal width*height*channels.
	ErrInputBufferSize = errors.New("qoi: input buffer size mismatch")

	// ErrOutputTooShort is returned when a caller-provided destination has
	// the wrong size: by EncodeToSlice when dst is shorter than
	// EncodedSizeLimit, and by DecodeFromSlice/DecodeFromSource when the
	// pixel buffer length is not exactly width*height*channels. The heap
	// wrappers Encode and Decode size their own buffers and never raise this.
	ErrOutputTooShort = errors.New("qoi: output slice too short")

	// ErrUnexpectedEOF is returned when the byte source runs out before
	// width*height pixels have been produced.
	ErrUnexpectedEOF = errors.New("qoi: unexpected end of stream")

	// ErrRunOverflow is returned when a decoded RUN chunk would emit more
	// pixels than remain in the image's pixel budget.
	ErrRunOverflow = errors.New("qoi: run chunk exceeds remaining pixel budget")

	// ErrTrailingJunk is returned, when DecodeOptions.VerifyTrailer is set,
	// if the bytes immediately following the last pixel are not the
	// 8-byte end marker.
	ErrTrailingJunk = errors.New("qoi: trailing bytes are not the end marker")
)

// SourceError wraps a failure reported by a streaming byte Source.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("qoi: source error: %v", e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func newSourceError(err error) error {
	return &SourceError{Err: errors.Wrap(err, "qoi source read failed")}
}

// SinkError wraps a failure reported by a streaming byte Sink.
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string {
	return fmt.Sprintf("qoi: sink error: %v", e.Err)
}

func (e *SinkError) Unwrap() error {
	return e.Err
}

func newSinkError(err error) error {
	return &SinkError{Err: errors.Wrap(err, "qoi sink write failed")}
}

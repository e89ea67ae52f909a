package qoi

import "io"

// Sink is a push-style byte consumer: write-slice, nothing more. It is the
// capability-level abstraction the streaming encoder writes through.
type Sink interface {
	Write(p []byte) (int, error)
}

// Source is a pull-style byte producer: read-exact-N-bytes, advance. It is
// the capability-level abstraction the streaming decoder reads through.
type Source interface {
	// ReadExact fills p entirely or returns an error. Short reads are not
	// a valid outcome: the source must either satisfy the whole request
	// or fail, matching the engine's one-shot chunk-at-a-time reads.
	ReadExact(p []byte) error
}

// readerSource adapts an io.Reader into a Source using io.ReadFull, giving
// every caller the same read-exact discipline regardless of transport.
type readerSource struct {
	r io.Reader
}

// NewSourceFromReader wraps a standard io.Reader as a Source.
func NewSourceFromReader(r io.Reader) Source {
	return &readerSource{r: r}
}

func (s *readerSource) ReadExact(p []byte) error {
	_, err := io.ReadFull(s.r, p)
	return err
}

// writerSink adapts an io.Writer into a Sink. Each Write passes straight
// through; the encoder's writeAll loop is what repeats short writes.
type writerSink struct {
	w io.Writer
}

// NewSinkFromWriter wraps a standard io.Writer as a Sink.
func NewSinkFromWriter(w io.Writer) Sink {
	return &writerSink{w: w}
}

func (s *writerSink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

// EncodedSizeLimit returns the worst-case encoded byte length for an image
// of the given dimensions and channel count: every pixel spells out as the
// widest chunk (RGB or RGBA), plus header and end marker. Callers can size
// a destination slice to this and never see ErrOutputTooShort.
func EncodedSizeLimit(width, height uint32, channels uint8) uint64 {
	pixels := uint64(width) * uint64(height)
	return uint64(HeaderSize) + pixels*uint64(channels+1) + uint64(EndMarkerSize)
}

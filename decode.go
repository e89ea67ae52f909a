package qoi

import "io"

// DecodeOptions tunes decoder behaviour. The zero value silently tolerates
// trailing bytes after the last pixel, matching the reference decoder's
// traditional default.
type DecodeOptions struct {
	// VerifyTrailer, when set, checks that the bytes immediately following
	// the last decoded pixel are the 8-byte end marker and returns
	// ErrTrailingJunk if not. Off by default: tolerating trailing bytes is
	// the conservative, backward-compatible choice.
	VerifyTrailer bool

	// Channels overrides the output pixel buffer's channel width. Zero
	// means "use the header's channels field". A 4-channel stream decoded
	// with Channels=3 discards alpha; a 3-channel stream decoded with
	// Channels=4 gets the reconstructed alpha, which is 255 (the start
	// pixel's) unless an RGBA chunk or an INDEX chunk naming a never-written
	// slot sets another value. This package's encoder emits neither for
	// 3-channel input.
	Channels uint8
}

func (o DecodeOptions) outChannels(h Header) int {
	if o.Channels == 0 {
		return int(h.Channels)
	}
	return int(o.Channels)
}

// decoderState mirrors encoderState without the run-length register: the
// decoder derives run length from the chunk tag instead of accumulating it.
type decoderState struct {
	prev Pixel
	idx  index
}

func newDecoderState() decoderState {
	return decoderState{prev: startPixel}
}

// DecodeFromSlice parses a complete QOI byte stream from src and writes the
// reconstructed pixels into pixels, whose length must equal
// header.Width*Height times opts.Channels (or the header's Channels when
// opts.Channels is zero). No allocation
// beyond the returned Header occurs.
func DecodeFromSlice(src []byte, pixels []byte, opts DecodeOptions) (Header, error) {
	header, err := decodeHeader(src)
	if err != nil {
		return Header{}, err
	}
	channels := opts.outChannels(header)
	pixelCount := int(header.PixelCount())
	if len(pixels) != pixelCount*channels {
		return Header{}, ErrOutputTooShort
	}

	st := newDecoderState()
	idx := HeaderSize
	written := 0

	for written < pixelCount {
		if idx >= len(src) {
			return Header{}, ErrUnexpectedEOF
		}
		tag := src[idx]

		switch {
		case tag == 0xFF:
			if idx+5 > len(src) {
				return Header{}, ErrUnexpectedEOF
			}
			cur := NewPixelRGBA(src[idx+1], src[idx+2], src[idx+3], src[idx+4])
			st.idx.set(cur)
			writePixel(pixels, written, channels, cur)
			st.prev = cur
			idx += 5
			written++

		case tag == 0xFE:
			if idx+4 > len(src) {
				return Header{}, ErrUnexpectedEOF
			}
			cur := Pixel{R: src[idx+1], G: src[idx+2], B: src[idx+3], A: st.prev.A}
			st.idx.set(cur)
			writePixel(pixels, written, channels, cur)
			st.prev = cur
			idx += 4
			written++

		case tag>>6 == 0b00:
			cur := st.idx.get(tag & 0x3f)
			writePixel(pixels, written, channels, cur)
			st.prev = cur
			idx++
			written++

		case tag>>6 == 0b01:
			dr := int8((tag>>4)&0x3) - 2
			dg := int8((tag>>2)&0x3) - 2
			db := int8(tag&0x3) - 2
			cur := Pixel{
				R: st.prev.R + uint8(dr),
				G: st.prev.G + uint8(dg),
				B: st.prev.B + uint8(db),
				A: st.prev.A,
			}
			st.idx.set(cur)
			writePixel(pixels, written, channels, cur)
			st.prev = cur
			idx++
			written++

		case tag>>6 == 0b10:
			if idx+2 > len(src) {
				return Header{}, ErrUnexpectedEOF
			}
			dg := int8(tag&0x3f) - 32
			rb := src[idx+1]
			drDg := int8((rb>>4)&0xf) - 8
			dbDg := int8(rb&0xf) - 8
			dr := dg + drDg
			db := dg + dbDg
			cur := Pixel{
				R: st.prev.R + uint8(dr),
				G: st.prev.G + uint8(dg),
				B: st.prev.B + uint8(db),
				A: st.prev.A,
			}
			st.idx.set(cur)
			writePixel(pixels, written, channels, cur)
			st.prev = cur
			idx += 2
			written++

		default: // tag>>6 == 0b11, RUN
			runLen := int(tag&0x3f) + 1
			if written+runLen > pixelCount {
				return Header{}, ErrRunOverflow
			}
			for k := 0; k < runLen; k++ {
				writePixel(pixels, written, channels, st.prev)
				written++
			}
			idx++
		}
	}

	if opts.VerifyTrailer {
		if len(src)-idx < EndMarkerSize || string(src[idx:idx+EndMarkerSize]) != string(endMarker[:]) {
			return Header{}, ErrTrailingJunk
		}
	}

	return header, nil
}

// writePixel stores cur into pixels at logical index i, discarding alpha
// when channels == 3 and synthesizing alpha == 255 when channels == 4 and
// the source chunk didn't carry one explicitly (cur already carries the
// correct alpha by construction, so this is a plain channel-width copy).
func writePixel(pixels []byte, i, channels int, cur Pixel) {
	off := i * channels
	dst := pixels[off : off+channels]
	dst[0] = cur.R
	dst[1] = cur.G
	dst[2] = cur.B
	if channels == 4 {
		dst[3] = cur.A
	}
}

// Decode is the heap convenience wrapper: it decodes the header, allocates
// an exact-size pixel buffer, and decodes into it.
func Decode(src []byte, opts DecodeOptions) (Header, []byte, error) {
	header, err := decodeHeader(src)
	if err != nil {
		return Header{}, nil, err
	}
	pixels := make([]byte, int(header.PixelCount())*opts.outChannels(header))
	if _, err := DecodeFromSlice(src, pixels, opts); err != nil {
		return Header{}, nil, err
	}
	return header, pixels, nil
}

// DecodeFromSource streams a QOI byte stream from source, reading exactly
// as many bytes as each chunk needs, and writes reconstructed pixels into
// pixels (length must equal header.Width*Height times opts.Channels, or the
// header's Channels when opts.Channels is zero).
func DecodeFromSource(source Source, pixels []byte, opts DecodeOptions) (Header, error) {
	var hdr [HeaderSize]byte
	if err := source.ReadExact(hdr[:]); err != nil {
		return Header{}, wrapSourceEOF(err)
	}
	header, err := decodeHeader(hdr[:])
	if err != nil {
		return Header{}, err
	}
	channels := opts.outChannels(header)
	pixelCount := int(header.PixelCount())
	if len(pixels) != pixelCount*channels {
		return Header{}, ErrOutputTooShort
	}

	st := newDecoderState()
	if err := decodeBody(source, header, pixels, &st, opts); err != nil {
		return Header{}, err
	}
	return header, nil
}

// decodeBody runs the chunk-dispatch loop against an already-validated
// header, an already-seeded decoderState, and a correctly-sized pixels
// buffer. It is shared by DecodeFromSource and the image.Image adapters so
// they never duplicate chunk logic.
func decodeBody(source Source, header Header, pixels []byte, st *decoderState, opts DecodeOptions) error {
	channels := opts.outChannels(header)
	pixelCount := int(header.PixelCount())
	written := 0
	var tagBuf [1]byte
	var extra [4]byte

	for written < pixelCount {
		if err := source.ReadExact(tagBuf[:]); err != nil {
			return wrapSourceEOF(err)
		}
		tag := tagBuf[0]

		switch {
		case tag == 0xFF:
			if err := source.ReadExact(extra[:4]); err != nil {
				return wrapSourceEOF(err)
			}
			cur := NewPixelRGBA(extra[0], extra[1], extra[2], extra[3])
			st.idx.set(cur)
			writePixel(pixels, written, channels, cur)
			st.prev = cur
			written++

		case tag == 0xFE:
			if err := source.ReadExact(extra[:3]); err != nil {
				return wrapSourceEOF(err)
			}
			cur := Pixel{R: extra[0], G: extra[1], B: extra[2], A: st.prev.A}
			st.idx.set(cur)
			writePixel(pixels, written, channels, cur)
			st.prev = cur
			written++

		case tag>>6 == 0b00:
			cur := st.idx.get(tag & 0x3f)
			writePixel(pixels, written, channels, cur)
			st.prev = cur
			written++

		case tag>>6 == 0b01:
			dr := int8((tag>>4)&0x3) - 2
			dg := int8((tag>>2)&0x3) - 2
			db := int8(tag&0x3) - 2
			cur := Pixel{
				R: st.prev.R + uint8(dr),
				G: st.prev.G + uint8(dg),
				B: st.prev.B + uint8(db),
				A: st.prev.A,
			}
			st.idx.set(cur)
			writePixel(pixels, written, channels, cur)
			st.prev = cur
			written++

		case tag>>6 == 0b10:
			if err := source.ReadExact(extra[:1]); err != nil {
				return wrapSourceEOF(err)
			}
			dg := int8(tag&0x3f) - 32
			rb := extra[0]
			drDg := int8((rb>>4)&0xf) - 8
			dbDg := int8(rb&0xf) - 8
			dr := dg + drDg
			db := dg + dbDg
			cur := Pixel{
				R: st.prev.R + uint8(dr),
				G: st.prev.G + uint8(dg),
				B: st.prev.B + uint8(db),
				A: st.prev.A,
			}
			st.idx.set(cur)
			writePixel(pixels, written, channels, cur)
			st.prev = cur
			written++

		default:
			runLen := int(tag&0x3f) + 1
			if written+runLen > pixelCount {
				return ErrRunOverflow
			}
			for k := 0; k < runLen; k++ {
				writePixel(pixels, written, channels, st.prev)
				written++
			}
		}
	}

	if opts.VerifyTrailer {
		var trailer [EndMarkerSize]byte
		if err := source.ReadExact(trailer[:]); err != nil {
			return wrapSourceEOF(err)
		}
		if string(trailer[:]) != string(endMarker[:]) {
			return ErrTrailingJunk
		}
	}

	return nil
}

// wrapSourceEOF turns the source running out of bytes into the
// stream-shape ErrUnexpectedEOF sentinel; any other adapter failure is
// wrapped as a SourceError so the caller can recover the underlying cause.
func wrapSourceEOF(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return ErrUnexpectedEOF
	}
	return newSourceError(err)
}

package qoi

import "io"

// EncodeOptions tunes encoder behaviour. The zero value is the fast,
// non-reference mode.
type EncodeOptions struct {
	// Reference disables the DIFF and LUMA chunks: every pixel that is not
	// part of a run or an index hit is written as RGB or RGBA. Both modes are
	// always round-trip-correct; reference-mode output is larger and is not
	// byte-identical to the canonical C encoder's output.
	Reference bool
}

// encoderState is the running state threaded through one encode call: the
// last emitted pixel, the 64-entry index cache, and the in-progress run
// length. It never outlives the call it was created for.
type encoderState struct {
	prev Pixel
	idx  index
	run  int
}

func newEncoderState() encoderState {
	return encoderState{prev: startPixel}
}

// EncodeToSlice writes the QOI encoding of pixels (length must equal
// header.Width*Height*Channels) into dst, returning the number of bytes
// written. dst must be at least EncodedSizeLimit(header.Width,
// header.Height, header.Channels) bytes long or ErrOutputTooShort is
// returned. No allocation occurs.
func EncodeToSlice(header Header, pixels []byte, dst []byte, opts EncodeOptions) (int, error) {
	if err := header.validate(); err != nil {
		return 0, err
	}
	channels := int(header.Channels)
	wantLen := int(header.PixelCount()) * channels
	if len(pixels) != wantLen {
		return 0, ErrInputBufferSize
	}
	limit := EncodedSizeLimit(header.Width, header.Height, header.Channels)
	if uint64(len(dst)) < limit {
		return 0, ErrOutputTooShort
	}

	if err := encodeHeaderInto(dst[:HeaderSize], header); err != nil {
		return 0, err
	}
	n := HeaderSize

	st := newEncoderState()
	pixelCount := int(header.PixelCount())

	for i := 0; i < pixelCount; i++ {
		off := i * channels
		var cur Pixel
		if channels == 4 {
			cur = NewPixelRGBA(pixels[off], pixels[off+1], pixels[off+2], pixels[off+3])
		} else {
			cur = NewPixelRGB(pixels[off], pixels[off+1], pixels[off+2])
		}

		if cur.Equal(st.prev) {
			st.run++
			if st.run == 62 {
				n += writeRun(dst[n:n+1], st.run)
				st.run = 0
			}
			continue
		}

		if st.run > 0 {
			n += writeRun(dst[n:n+1], st.run)
			st.run = 0
		}

		n += encodePixel(dst[n:n+5], cur, &st, opts)
		st.prev = cur
	}

	if st.run > 0 {
		n += writeRun(dst[n:n+1], st.run)
	}

	n += copy(dst[n:n+EndMarkerSize], endMarker[:])
	return n, nil
}

// writeRun writes a single QOI_OP_RUN chunk encoding a run of the given
// length (1..62) into dst[0] and returns the number of bytes written
// (always 1).
func writeRun(dst []byte, run int) int {
	dst[0] = 0b11000000 | byte(run-1)
	return 1
}

// encodePixel emits the index/diff/luma/rgb/rgba chunk for cur against the
// running state into dst (which must have room for the widest chunk, 5
// bytes), updates the index cache, and returns the byte count written.
// Callers are responsible for prev/run bookkeeping around it.
func encodePixel(dst []byte, cur Pixel, st *encoderState, opts EncodeOptions) int {
	h := cur.Hash()
	if st.idx.get(h).Equal(cur) {
		dst[0] = h & 0x3f
		return 1
	}

	st.idx.set(cur)

	if cur.A == st.prev.A {
		dr, dg, db := cur.Sub(st.prev)
		if !opts.Reference && inRange(dr, -2, 1) && inRange(dg, -2, 1) && inRange(db, -2, 1) {
			dst[0] = 0b01000000 |
				byte(dr+2)<<4 |
				byte(dg+2)<<2 |
				byte(db+2)
			return 1
		}

		drDg := dr - dg
		dbDg := db - dg
		if !opts.Reference && inRange(dg, -32, 31) && inRange(drDg, -8, 7) && inRange(dbDg, -8, 7) {
			dst[0] = 0b10000000 | byte(dg+32)
			dst[1] = byte(drDg+8)<<4 | byte(dbDg+8)
			return 2
		}

		dst[0] = 0xFE
		dst[1] = cur.R
		dst[2] = cur.G
		dst[3] = cur.B
		return 4
	}

	dst[0] = 0xFF
	dst[1] = cur.R
	dst[2] = cur.G
	dst[3] = cur.B
	dst[4] = cur.A
	return 5
}

func inRange(v int8, lo, hi int8) bool {
	return v >= lo && v <= hi
}

// Encode is the heap convenience wrapper: it allocates a worst-case buffer,
// encodes into it, and returns the exact-length result.
func Encode(header Header, pixels []byte, opts EncodeOptions) ([]byte, error) {
	limit := EncodedSizeLimit(header.Width, header.Height, header.Channels)
	dst := make([]byte, limit)
	n, err := EncodeToSlice(header, pixels, dst, opts)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// EncodeToSink streams the QOI encoding of pixels to sink, writing each
// produced chunk as it is generated. The slice-mode path above is the
// zero-allocation alternative; this one allocates only the fixed 5-byte
// per-chunk scratch space, not the whole output.
func EncodeToSink(header Header, pixels []byte, sink Sink, opts EncodeOptions) (int, error) {
	if err := header.validate(); err != nil {
		return 0, err
	}
	channels := int(header.Channels)
	wantLen := int(header.PixelCount()) * channels
	if len(pixels) != wantLen {
		return 0, ErrInputBufferSize
	}

	var hdr [HeaderSize]byte
	if err := encodeHeaderInto(hdr[:], header); err != nil {
		return 0, err
	}
	total := 0
	if err := writeAll(sink, hdr[:]); err != nil {
		return total, err
	}
	total += HeaderSize

	st := newEncoderState()
	pixelCount := int(header.PixelCount())
	var scratch [5]byte

	for i := 0; i < pixelCount; i++ {
		off := i * channels
		var cur Pixel
		if channels == 4 {
			cur = NewPixelRGBA(pixels[off], pixels[off+1], pixels[off+2], pixels[off+3])
		} else {
			cur = NewPixelRGB(pixels[off], pixels[off+1], pixels[off+2])
		}

		if cur.Equal(st.prev) {
			st.run++
			if st.run == 62 {
				n := writeRun(scratch[:1], st.run)
				if err := writeAll(sink, scratch[:n]); err != nil {
					return total, err
				}
				total += n
				st.run = 0
			}
			continue
		}

		if st.run > 0 {
			n := writeRun(scratch[:1], st.run)
			if err := writeAll(sink, scratch[:n]); err != nil {
				return total, err
			}
			total += n
			st.run = 0
		}

		n := encodePixel(scratch[:5], cur, &st, opts)
		if err := writeAll(sink, scratch[:n]); err != nil {
			return total, err
		}
		total += n
		st.prev = cur
	}

	if st.run > 0 {
		n := writeRun(scratch[:1], st.run)
		if err := writeAll(sink, scratch[:n]); err != nil {
			return total, err
		}
		total += n
	}

	if err := writeAll(sink, endMarker[:]); err != nil {
		return total, err
	}
	total += EndMarkerSize

	return total, nil
}

func writeAll(sink Sink, p []byte) error {
	for len(p) > 0 {
		n, err := sink.Write(p)
		if err != nil {
			return newSinkError(err)
		}
		if n == 0 {
			return newSinkError(io.ErrShortWrite)
		}
		p = p[n:]
	}
	return nil
}

package qoi

import "encoding/binary"

// Magic is the 4-byte ASCII marker every QOI stream starts with.
const Magic = "qoif"

// HeaderSize is the fixed width of an encoded QOI header in bytes.
const HeaderSize = 14

// EndMarkerSize is the fixed width of the trailing end-of-stream marker.
const EndMarkerSize = 8

// endMarker terminates every encoded chunk stream.
var endMarker = [EndMarkerSize]byte{0, 0, 0, 0, 0, 0, 0, 1}

// maxPixels bounds width*height so the product stays representable.
const maxPixels = 400_000_000

// Header is the five-field QOI file header (magic excluded from the
// struct since it is a fixed constant on encode and validated on decode).
type Header struct {
	Width      uint32
	Height     uint32
	Channels   uint8
	Colorspace uint8
}

// PixelCount returns width*height, the number of pixels this header describes.
func (h Header) PixelCount() uint64 {
	return uint64(h.Width) * uint64(h.Height)
}

func (h Header) validate() error {
	switch {
	case h.Channels != 3 && h.Channels != 4:
		return newHeaderError(InvalidChannels)
	case h.Colorspace != 0 && h.Colorspace != 1:
		return newHeaderError(InvalidColorspace)
	case h.Width == 0 || h.Height == 0:
		return newHeaderError(EmptyImage)
	case h.PixelCount() > maxPixels:
		return newHeaderError(ImageTooLarge)
	}
	return nil
}

// encodeHeaderInto writes the 14-byte header encoding into dst, which must
// be at least HeaderSize bytes long.
func encodeHeaderInto(dst []byte, h Header) error {
	if err := h.validate(); err != nil {
		return err
	}
	dst = dst[:HeaderSize]
	copy(dst[0:4], Magic)
	binary.BigEndian.PutUint32(dst[4:8], h.Width)
	binary.BigEndian.PutUint32(dst[8:12], h.Height)
	dst[12] = h.Channels
	dst[13] = h.Colorspace
	return nil
}

// decodeHeader parses and validates the first HeaderSize bytes of buf.
// Magic is checked before any other field so a non-QOI stream fails fast.
func decodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, newHeaderError(BadMagic)
	}
	if string(buf[0:4]) != Magic {
		return Header{}, newHeaderError(BadMagic)
	}
	h := Header{
		Width:      binary.BigEndian.Uint32(buf[4:8]),
		Height:     binary.BigEndian.Uint32(buf[8:12]),
		Channels:   buf[12],
		Colorspace: buf[13],
	}
	if err := h.validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}

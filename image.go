package qoi

import (
	"image"
	"image/color"
	"image/draw"
	"io"
)

// ImageDecode decodes a QOI stream from r into a standard library
// image.Image, built on the same decodeBody loop as DecodeFromSource. It always produces
// *image.NRGBA, regardless of the stream's channel count.
func ImageDecode(r io.Reader) (image.Image, error) {
	source := NewSourceFromReader(r)
	var hdr [HeaderSize]byte
	if err := source.ReadExact(hdr[:]); err != nil {
		return nil, wrapSourceEOF(err)
	}
	header, err := decodeHeader(hdr[:])
	if err != nil {
		return nil, err
	}

	pixels := make([]byte, int(header.PixelCount())*int(header.Channels))
	st := newDecoderState()
	if err := decodeBody(source, header, pixels, &st, DecodeOptions{}); err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(header.Width), int(header.Height)))
	channels := int(header.Channels)
	for i := 0; i < int(header.PixelCount()); i++ {
		off := i * channels
		a := uint8(255)
		if channels == 4 {
			a = pixels[off+3]
		}
		x := i % int(header.Width)
		y := i / int(header.Width)
		img.Set(x, y, color.NRGBA{R: pixels[off], G: pixels[off+1], B: pixels[off+2], A: a})
	}
	return img, nil
}

// DecodeConfig reads just the QOI header off r and reports the image's
// dimensions and color model, without decoding any pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var buf [HeaderSize]byte
	if err := NewSourceFromReader(r).ReadExact(buf[:]); err != nil {
		return image.Config{}, wrapSourceEOF(err)
	}
	header, err := decodeHeader(buf[:])
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		Width:      int(header.Width),
		Height:     int(header.Height),
		ColorModel: color.NRGBAModel,
	}, nil
}

// ImageEncode encodes m as QOI and writes it to w. Non-*image.NRGBA sources
// are converted first via draw.Draw.
func ImageEncode(w io.Writer, m image.Image) error {
	return ImageEncodeWithOptions(w, m, EncodeOptions{})
}

// ImageEncodeWithOptions is ImageEncode with explicit EncodeOptions, so
// callers can request reference-mode encoding through the image.Image path.
func ImageEncodeWithOptions(w io.Writer, m image.Image, opts EncodeOptions) error {
	nrgba, ok := m.(*image.NRGBA)
	if !ok {
		nrgba = toNRGBA(m)
	}
	bounds := nrgba.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	pixels := nrgba.Pix
	if nrgba.Stride != width*4 {
		pixels = make([]byte, width*height*4)
		for y := 0; y < height; y++ {
			srcOff := nrgba.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(pixels[y*width*4:(y+1)*width*4], nrgba.Pix[srcOff:srcOff+width*4])
		}
	}

	header := Header{Width: uint32(width), Height: uint32(height), Channels: 4, Colorspace: 0}
	data, err := Encode(header, pixels, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func toNRGBA(src image.Image) *image.NRGBA {
	dst := image.NewNRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

func init() {
	image.RegisterFormat("qoi", Magic, ImageDecode, DecodeConfig)
}

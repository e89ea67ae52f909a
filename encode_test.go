package qoi_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kflorence/qoi"
)

func header(w, h uint32, channels uint8) qoi.Header {
	return qoi.Header{Width: w, Height: h, Channels: channels, Colorspace: 0}
}

// TestEncode1x1OpaqueBlack is the textbook single-opaque-black-pixel case.
func TestEncode1x1OpaqueBlack(t *testing.T) {
	pixels := []byte{0, 0, 0, 255}
	data, err := qoi.Encode(header(1, 1, 4), pixels, qoi.EncodeOptions{})
	require.NoError(t, err)

	want := append([]byte{}, "qoif"...)
	want = append(want, 0, 0, 0, 1) // width
	want = append(want, 0, 0, 0, 1) // height
	want = append(want, 4, 0)       // channels, colorspace
	want = append(want, 0xC0)       // RUN(1)
	want = append(want, 0, 0, 0, 0, 0, 0, 0, 1)

	require.Equal(t, 23, len(data))
	require.Equal(t, want, data)
}

// TestEncode2x1RunOfTwo is the textbook run-of-two case.
func TestEncode2x1RunOfTwo(t *testing.T) {
	pixels := []byte{0, 0, 0, 255, 0, 0, 0, 255}
	data, err := qoi.Encode(header(2, 1, 4), pixels, qoi.EncodeOptions{})
	require.NoError(t, err)

	want := append([]byte{}, "qoif"...)
	want = append(want, 0, 0, 0, 2)
	want = append(want, 0, 0, 0, 1)
	want = append(want, 4, 0)
	want = append(want, 0xC1) // RUN(2)
	want = append(want, 0, 0, 0, 0, 0, 0, 0, 1)

	require.Equal(t, 23, len(data))
	require.Equal(t, want, data)
}

// TestEncodeIndexHit is the textbook index-cache-hit case.
func TestEncodeIndexHit(t *testing.T) {
	p1 := qoi.NewPixelRGBA(10, 20, 30, 255)
	pixels := []byte{
		10, 20, 30, 255,
		40, 50, 60, 255,
		10, 20, 30, 255,
	}
	data, err := qoi.Encode(header(3, 1, 4), pixels, qoi.EncodeOptions{})
	require.NoError(t, err)

	body := data[qoi.HeaderSize : len(data)-qoi.EndMarkerSize]
	want := []byte{
		0xFE, 10, 20, 30, // RGB p1
		0xBE, 0x88, // LUMA p2: dr=dg=db=+30 relative to p1
		p1.Hash(), // INDEX hit on p1's slot
	}
	require.Equal(t, want, body)
}

// TestEncodeDiffBoundary covers the second pixel's
// deltas (-1,+1,-2) relative to the first are all in [-2,1].
func TestEncodeDiffBoundary(t *testing.T) {
	pixels := []byte{
		100, 100, 100, 255,
		99, 101, 98, 255,
	}
	data, err := qoi.Encode(header(2, 1, 4), pixels, qoi.EncodeOptions{})
	require.NoError(t, err)

	body := data[qoi.HeaderSize : len(data)-qoi.EndMarkerSize]
	// first pixel is far from the (0,0,0,255) start state: RGB chunk.
	require.Equal(t, []byte{0xFE, 100, 100, 100, 0x5C}, body)
}

// TestEncodeLumaBoundary covers the first pixel, relative
// to the encoder's (0,0,0,255) initial state, differs by dg=10, dr-dg=-3,
// db-dg=+4 (alpha unchanged).
func TestEncodeLumaBoundary(t *testing.T) {
	dg := int8(10)
	drDg := int8(-3)
	dbDg := int8(4)
	cur := qoi.NewPixelRGBA(
		byte(dg+drDg),
		byte(dg),
		byte(dg+dbDg),
		255,
	)
	pixels := []byte{cur.R, cur.G, cur.B, cur.A}
	data, err := qoi.Encode(header(1, 1, 4), pixels, qoi.EncodeOptions{})
	require.NoError(t, err)

	body := data[qoi.HeaderSize : len(data)-qoi.EndMarkerSize]
	require.Equal(t, []byte{0xAA, 0x5C}, body)
}

// TestEncodeAlphaChangeForcesRGBA covers an alpha-only
// change must emit RGBA even though RGB would otherwise look shorter.
func TestEncodeAlphaChangeForcesRGBA(t *testing.T) {
	pixels := []byte{
		10, 20, 30, 255,
		10, 20, 30, 200,
	}
	data, err := qoi.Encode(header(2, 1, 4), pixels, qoi.EncodeOptions{})
	require.NoError(t, err)

	body := data[qoi.HeaderSize : len(data)-qoi.EndMarkerSize]
	require.Equal(t, []byte{0xFE, 10, 20, 30, 0xFF, 10, 20, 30, 200}, body)
}

// TestEncodeMaxRunSplitsAt62 is the textbook max-run-split case.
func TestEncodeMaxRunSplitsAt62(t *testing.T) {
	pixels := make([]byte, 63*4)
	for i := 0; i < 63; i++ {
		pixels[i*4+3] = 255
	}
	data, err := qoi.Encode(header(63, 1, 4), pixels, qoi.EncodeOptions{})
	require.NoError(t, err)

	body := data[qoi.HeaderSize : len(data)-qoi.EndMarkerSize]
	require.Equal(t, []byte{0b11000000 | 61, 0b11000000 | 0}, body)
}

func TestEncodeInputBufferSizeMismatch(t *testing.T) {
	_, err := qoi.Encode(header(2, 2, 4), []byte{0, 0, 0, 255}, qoi.EncodeOptions{})
	require.ErrorIs(t, err, qoi.ErrInputBufferSize)
}

func TestEncodeToSliceOutputTooShort(t *testing.T) {
	pixels := []byte{0, 0, 0, 255}
	dst := make([]byte, 5)
	_, err := qoi.EncodeToSlice(header(1, 1, 4), pixels, dst, qoi.EncodeOptions{})
	require.ErrorIs(t, err, qoi.ErrOutputTooShort)
}

func TestEncodedSizeLimitNeverTooShort(t *testing.T) {
	for _, dims := range [][2]uint32{{1, 1}, {7, 3}, {64, 64}, {200, 1}} {
		for _, channels := range []uint8{3, 4} {
			h := header(dims[0], dims[1], channels)
			pixels := make([]byte, int(h.PixelCount())*int(channels))
			for i := range pixels {
				pixels[i] = byte(i * 37)
			}
			limit := qoi.EncodedSizeLimit(h.Width, h.Height, h.Channels)
			dst := make([]byte, limit)
			n, err := qoi.EncodeToSlice(h, pixels, dst, qoi.EncodeOptions{})
			require.NoError(t, err)
			require.LessOrEqual(t, n, int(limit))
		}
	}
}

func TestEncodeNeverEmitsRunOutsideRange(t *testing.T) {
	pixels := make([]byte, 200*4)
	for i := 0; i < 200; i++ {
		pixels[i*4+3] = 255
	}
	data, err := qoi.Encode(header(200, 1, 4), pixels, qoi.EncodeOptions{})
	require.NoError(t, err)

	body := data[qoi.HeaderSize : len(data)-qoi.EndMarkerSize]
	for _, b := range body {
		if b&0xC0 == 0xC0 && b != 0xFE && b != 0xFF {
			run := int(b&0x3f) + 1
			require.GreaterOrEqual(t, run, 1)
			require.LessOrEqual(t, run, 62)
		}
	}
}

func TestEncodeReferenceModeStillRoundTrips(t *testing.T) {
	pixels := []byte{
		10, 20, 30, 255,
		11, 19, 28, 255,
		11, 19, 28, 255,
		200, 5, 9, 255,
	}
	h := header(4, 1, 4)
	data, err := qoi.Encode(h, pixels, qoi.EncodeOptions{Reference: true})
	require.NoError(t, err)

	gotHeader, gotPixels, err := qoi.Decode(data, qoi.DecodeOptions{})
	require.NoError(t, err)
	require.Equal(t, h, gotHeader)
	require.Equal(t, pixels, gotPixels)
}

package qoi

import "fmt"

// Pixel is the atomic unit of encode/decode: an ordered 4-tuple of 8-bit
// channel values. For 3-channel buffers the alpha channel is implicitly 255.
type Pixel struct {
	R, G, B, A uint8
}

// startPixel is the running-state seed both engines begin with.
var startPixel = Pixel{R: 0, G: 0, B: 0, A: 255}

// NewPixelRGB builds an opaque pixel from three channels.
func NewPixelRGB(r, g, b uint8) Pixel {
	return Pixel{R: r, G: g, B: b, A: 255}
}

// NewPixelRGBA builds a pixel from four channels.
func NewPixelRGBA(r, g, b, a uint8) Pixel {
	return Pixel{R: r, G: g, B: b, A: a}
}

// Hash is the codec's index hash: (r*3 + g*5 + b*7 + a*11) mod 64. The
// multiplications are done in a 16-bit accumulator so they never overflow;
// wrapping is harmless because every channel fits in 8 bits.
func (p Pixel) Hash() uint8 {
	sum := uint16(p.R)*3 + uint16(p.G)*5 + uint16(p.B)*7 + uint16(p.A)*11
	return uint8(sum & 0x3f)
}

// Equal reports whether two pixels have identical channels.
func (p Pixel) Equal(other Pixel) bool {
	return p == other
}

// Sub returns the per-channel wrapping difference p-other, reinterpreted as
// signed 8-bit deltas. Encode's DIFF/LUMA selection uses it; decode's
// DIFF/LUMA reconstruction applies the inverse, adding the signed deltas
// back to prev with uint8 wrap-around.
func (p Pixel) Sub(other Pixel) (dr, dg, db int8) {
	dr = int8(p.R - other.R)
	dg = int8(p.G - other.G)
	db = int8(p.B - other.B)
	return
}

func (p Pixel) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%d)", p.R, p.G, p.B, p.A)
}

// GoString lets %#v print a Pixel as a Go literal instead of the default
// struct dump, which is easier to paste back into a test.
func (p Pixel) GoString() string {
	return fmt.Sprintf("qoi.Pixel{R: %d, G: %d, B: %d, A: %d}", p.R, p.G, p.B, p.A)
}

// index is the 64-entry direct-mapped pixel cache shared by encoder and
// decoder running state. It zero-initializes to (0,0,0,0) pixels, which is
// observably distinct from the (0,0,0,255) start pixel: slot 53 is the hash
// of (0,0,0,255), every other slot starts zeroed.
type index [64]Pixel

func (idx *index) get(slot uint8) Pixel {
	return idx[slot&0x3f]
}

func (idx *index) set(p Pixel) {
	idx[p.Hash()&0x3f] = p
}

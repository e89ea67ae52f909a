package qoi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPixelHashMatchesSpecFormula(t *testing.T) {
	cases := []struct {
		p    Pixel
		want uint8
	}{
		{Pixel{R: 0, G: 0, B: 0, A: 255}, (0*3 + 0*5 + 0*7 + 255*11) % 64},
		{Pixel{R: 10, G: 20, B: 30, A: 255}, (10*3 + 20*5 + 30*7 + 255*11) % 64},
		{Pixel{R: 255, G: 255, B: 255, A: 255}, (255*3 + 255*5 + 255*7 + 255*11) % 64},
	}
	for _, c := range cases {
		require.Equal(t, c.want, c.p.Hash())
	}
}

func TestPixelEqual(t *testing.T) {
	a := Pixel{R: 1, G: 2, B: 3, A: 4}
	b := Pixel{R: 1, G: 2, B: 3, A: 4}
	c := Pixel{R: 1, G: 2, B: 3, A: 5}
	require.True(t, a.Equal(b), "expected equal pixels to compare equal")
	require.False(t, a.Equal(c), "expected differing alpha to compare unequal")
}

func TestPixelSubWraps(t *testing.T) {
	// 1 - 255 wraps to 2 in uint8 arithmetic, which as a signed delta is +2.
	dr, _, _ := Pixel{R: 1}.Sub(Pixel{R: 255})
	require.Equal(t, int8(2), dr)
}

func TestIndexZeroValueDiffersFromStartPixel(t *testing.T) {
	var idx index
	slot := startPixel.Hash()
	require.Falsef(t, idx.get(slot).Equal(startPixel),
		"fresh index slot %d should be the zero pixel, not the start pixel", slot)
	require.True(t, idx.get(slot).Equal(Pixel{}), "fresh index slot should be the zero pixel")
}

func TestIndexSetThenGetRoundTrips(t *testing.T) {
	var idx index
	p := Pixel{R: 11, G: 22, B: 33, A: 255}
	idx.set(p)
	require.True(t, idx.get(p.Hash()).Equal(p))
}

func TestIndexSetOverwritesCollidingSlot(t *testing.T) {
	var idx index
	p := Pixel{R: 11, G: 22, B: 33, A: 255}
	idx.set(p)

	// 64*3 is a multiple of 64, so R+64 contributes the same residue mod 64
	// to the hash sum: q collides with p's slot by construction.
	q := Pixel{R: p.R + 64, G: p.G, B: p.B, A: p.A}
	require.Equal(t, p.Hash(), q.Hash(), "test setup bug: q should collide with p's slot")

	idx.set(q)
	require.False(t, idx.get(p.Hash()).Equal(p),
		"expected slot to be overwritten by colliding pixel")
}

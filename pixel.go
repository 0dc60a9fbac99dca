package quadimg

import (
	"fmt"
	"image"
	"image/color"
)

// Pixel is a single RGBA color value. The four channels are independent
// bytes; nothing in this package premultiplies or blends alpha.
type Pixel struct {
	R, G, B, A uint8
}

// DefaultPixel is opaque white, the color reported for queries that miss
// the tree entirely.
var DefaultPixel = Pixel{255, 255, 255, 255}

// AveragePixel returns the component-wise mean of four pixels, each channel
// summed and divided with truncating integer division.
func AveragePixel(nw, ne, sw, se Pixel) Pixel {
	return Pixel{
		R: avgByte(nw.R, ne.R, sw.R, se.R),
		G: avgByte(nw.G, ne.G, sw.G, se.G),
		B: avgByte(nw.B, ne.B, sw.B, se.B),
		A: avgByte(nw.A, ne.A, sw.A, se.A),
	}
}

func avgByte(a, b, c, d uint8) uint8 {
	return uint8((int(a) + int(b) + int(c) + int(d)) / 4)
}

// Distance returns the squared color distance between p and o, summed over
// the red, green and blue channels. Alpha does not contribute.
func (p Pixel) Distance(o Pixel) int {
	dr := int(p.R) - int(o.R)
	dg := int(p.G) - int(o.G)
	db := int(p.B) - int(o.B)
	return dr*dr + dg*dg + db*db
}

// NRGBA converts p to its stdlib color equivalent.
func (p Pixel) NRGBA() color.NRGBA {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}
}

func (p Pixel) String() string {
	if p.A != 255 {
		return fmt.Sprintf("(%d,%d,%d) a:%d", p.R, p.G, p.B, p.A)
	}
	return fmt.Sprintf("(%d,%d,%d)", p.R, p.G, p.B)
}

// PixelAt reads the source color at (x, y) through the non-premultiplied
// NRGBA model, so NRGBA-backed sources round-trip exactly.
func PixelAt(source image.Image, x, y int) Pixel {
	c := color.NRGBAModel.Convert(source.At(x, y)).(color.NRGBA)
	return Pixel{R: c.R, G: c.G, B: c.B, A: c.A}
}

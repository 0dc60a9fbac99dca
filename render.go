package quadimg

import (
	"image"
	"image/color"
	"image/draw"
	"os"

	log "github.com/sirupsen/logrus"
	"golang.org/x/image/bmp"
)

// Decompress materializes the tree's current state into a fully populated
// Resolution() x Resolution() grid. Each leaf paints its color over its whole
// region, so a pruned tree comes back blocky. An empty tree yields a
// zero-sized grid.
func (t *Tree) Decompress() *image.NRGBA {
	if t.root == nil {
		return image.NewNRGBA(image.Rectangle{})
	}

	img := image.NewNRGBA(image.Rect(0, 0, t.res, t.res))
	writeRegion(img, t.root, 0, 0, t.res)
	return img
}

func writeRegion(img *image.NRGBA, n *Node, x, y, size int) {
	if n.IsLeaf() {
		c := n.Element.NRGBA()
		for j := y; j < y+size; j++ {
			for i := x; i < x+size; i++ {
				img.SetNRGBA(i, j, c)
			}
		}
		return
	}

	half := size / 2
	writeRegion(img, n.NW, x, y, half)
	writeRegion(img, n.NE, x+half, y, half)
	writeRegion(img, n.SW, x, y+half, half)
	writeRegion(img, n.SE, x+half, y+half, half)
}

// eachLeafRegion calls fn with the covered region of every leaf under n.
func eachLeafRegion(n *Node, x, y, size int, fn func(x, y, size int)) {
	if n == nil {
		return
	}
	if n.IsLeaf() {
		fn(x, y, size)
		return
	}

	half := size / 2
	eachLeafRegion(n.NW, x, y, half, fn)
	eachLeafRegion(n.NE, x+half, y, half, fn)
	eachLeafRegion(n.SW, x, y+half, half, fn)
	eachLeafRegion(n.SE, x+half, y+half, half, fn)
}

// Image writes a BMP visualization of the tree to path: the decompressed
// picture with every leaf's boundary outlined in red. Debugging aid; failures
// are logged, not returned.
func (t *Tree) Image(path string) {
	frame := image.NewRGBA(image.Rect(0, 0, t.res, t.res))
	draw.Draw(frame, frame.Bounds(), t.Decompress(), image.Point{}, draw.Src)
	col := color.RGBA{255, 0, 0, 255}

	HLine := func(x1, y, x2 int) {
		for ; x1 <= x2; x1++ {
			frame.Set(x1, y, col)
		}
	}

	// VLine draws a vertical line
	VLine := func(x, y1, y2 int) {
		for ; y1 <= y2; y1++ {
			frame.Set(x, y1, col)
		}
	}

	// Rect draws a rectangle utilizing HLine() and VLine()
	Rect := func(x1, y1, x2, y2 int) {
		HLine(x1, y1, x2)
		HLine(x1, y2, x2)
		VLine(x1, y1, y2)
		VLine(x2, y1, y2)
	}

	eachLeafRegion(t.root, 0, 0, t.res, func(x, y, size int) {
		Rect(x, y, x+size-1, y+size-1)
	})

	f, err := os.Create(path)
	if err != nil {
		log.Errorln("quadimg: debug image:", err)
		return
	}
	defer f.Close()

	if err := bmp.Encode(f, frame); err != nil {
		log.Errorln("quadimg: debug image:", err)
	}
}

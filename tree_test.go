package quadimg

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

const seed = 1313131313

func randomImage(size int, seed int64) *image.NRGBA {
	rnd := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(rnd.Intn(256)),
				G: uint8(rnd.Intn(256)),
				B: uint8(rnd.Intn(256)),
				A: uint8(rnd.Intn(256)),
			})
		}
	}
	return img
}

func uniformImage(size int, p Pixel) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, p.NRGBA())
		}
	}
	return img
}

// quadrantImage is a 4x4 image of four solid 2x2 quadrants:
// red NW, green NE, blue SW, white SE.
func quadrantImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	colors := [2][2]color.NRGBA{
		{{255, 0, 0, 255}, {0, 255, 0, 255}},
		{{0, 0, 255, 255}, {255, 255, 255, 255}},
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, colors[y/2][x/2])
		}
	}
	return img
}

func TestBuildRoundTrip(t *testing.T) {
	src := randomImage(64, seed)
	tree := FromImage(src, 64)

	out := tree.Decompress()
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if src.NRGBAAt(x, y) != out.NRGBAAt(x, y) {
				t.Fatalf("round trip broke at (%d,%d): %v != %v", x, y, src.NRGBAAt(x, y), out.NRGBAAt(x, y))
			}
		}
	}
}

func TestBuildSingleLeaf(t *testing.T) {
	src := uniformImage(1, Pixel{7, 8, 9, 255})
	tree := FromImage(src, 1)

	assert.Equal(t, 1, tree.Resolution())
	assert.Equal(t, 1, tree.LeafCount())
	assert.Equal(t, Pixel{7, 8, 9, 255}, tree.GetPixel(0, 0))
}

func TestBuildSubRegion(t *testing.T) {
	// Resolution smaller than the source takes the top-left block.
	src := randomImage(64, seed)
	tree := FromImage(src, 16)

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			want := PixelAt(src, x, y)
			if got := tree.GetPixel(x, y); got != want {
				t.Fatalf("sub-region pixel (%d,%d): got %v want %v", x, y, got, want)
			}
		}
	}
}

func TestBuildReplacesPriorTree(t *testing.T) {
	tree := FromImage(randomImage(32, seed), 32)
	tree.Build(quadrantImage(), 4)

	assert.Equal(t, 4, tree.Resolution())
	assert.Equal(t, 16, tree.LeafCount())
	assert.True(t, tree.root.IsValidBranch())
}

func TestBuildPanics(t *testing.T) {
	assert.Panics(t, func() { FromImage(randomImage(8, seed), 6) })
	assert.Panics(t, func() { FromImage(randomImage(8, seed), 0) })
	assert.Panics(t, func() { FromImage(randomImage(8, seed), 16) })
}

func TestStructuralInvariant(t *testing.T) {
	tree := FromImage(randomImage(32, seed), 32)
	assert.True(t, tree.root.IsValidBranch())

	tree.Prune(4000)
	assert.True(t, tree.root.IsValidBranch())

	tree.ClockwiseRotate()
	assert.True(t, tree.root.IsValidBranch())
}

func TestGetPixelMatchesDecompress(t *testing.T) {
	tree := FromImage(randomImage(32, seed), 32)
	tree.Prune(2000)

	out := tree.Decompress()
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if got, want := tree.GetPixel(x, y), PixelAt(out, x, y); got != want {
				t.Fatalf("query/decompress disagree at (%d,%d): %v != %v", x, y, got, want)
			}
		}
	}
}

func TestGetPixelDefaults(t *testing.T) {
	assert.Equal(t, DefaultPixel, NewTree().GetPixel(0, 0))

	tree := FromImage(quadrantImage(), 4)
	assert.Equal(t, DefaultPixel, tree.GetPixel(-1, 0))
	assert.Equal(t, DefaultPixel, tree.GetPixel(0, -1))
	assert.Equal(t, DefaultPixel, tree.GetPixel(4, 0))
	assert.Equal(t, DefaultPixel, tree.GetPixel(0, 4))
}

func TestDecompressEmpty(t *testing.T) {
	out := NewTree().Decompress()
	assert.True(t, out.Bounds().Empty())
}

func TestCopyIsIndependent(t *testing.T) {
	tree := FromImage(randomImage(16, seed), 16)
	clone := tree.Copy()

	before := clone.Decompress()
	tree.Prune(MaxTolerance)

	assert.Equal(t, 1, tree.LeafCount())
	assert.Equal(t, 256, clone.LeafCount())

	after := clone.Decompress()
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if before.NRGBAAt(x, y) != after.NRGBAAt(x, y) {
				t.Fatalf("pruning the original disturbed the clone at (%d,%d)", x, y)
			}
		}
	}
}

func TestClockwiseRotate(t *testing.T) {
	res := 16
	tree := FromImage(randomImage(res, seed), res)
	before := tree.Decompress()

	tree.ClockwiseRotate()
	for y := 0; y < res; y++ {
		for x := 0; x < res; x++ {
			// Rotating clockwise moves the pixel at column y of row res-1-x
			// to (x, y).
			want := PixelAt(before, y, res-1-x)
			if got := tree.GetPixel(x, y); got != want {
				t.Fatalf("rotated pixel (%d,%d): got %v want %v", x, y, got, want)
			}
		}
	}
}

func TestRotateFourTimesIsIdentity(t *testing.T) {
	tree := FromImage(randomImage(32, seed), 32)
	tree.Prune(1500)
	before := tree.Decompress()

	for i := 0; i < 4; i++ {
		tree.ClockwiseRotate()
	}

	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if got, want := tree.GetPixel(x, y), PixelAt(before, x, y); got != want {
				t.Fatalf("four rotations moved pixel (%d,%d): %v != %v", x, y, got, want)
			}
		}
	}
}

func benchmarkBuild(b *testing.B, size int) {
	img := randomImage(size, seed)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		FromImage(img, size)
	}
}

func BenchmarkBuild_16(b *testing.B)  { benchmarkBuild(b, 16) }
func BenchmarkBuild_64(b *testing.B)  { benchmarkBuild(b, 64) }
func BenchmarkBuild_256(b *testing.B) { benchmarkBuild(b, 256) }

func benchmarkDecompress(b *testing.B, size int) {
	tree := FromImage(randomImage(size, seed), size)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		tree.Decompress()
	}
}

func BenchmarkDecompress_64(b *testing.B)  { benchmarkDecompress(b, 64) }
func BenchmarkDecompress_256(b *testing.B) { benchmarkDecompress(b, 256) }

package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	_ "golang.org/x/image/bmp"

	"github.com/ImVexed/quadimg"
)

func main() {
	tolerance := flag.Int("tolerance", 0, "prune tolerance (squared color distance)")
	leaves := flag.Int("leaves", 0, "prune to at most this many leaves (overrides -tolerance)")
	debug := flag.String("debug", "", "write a BMP visualization of the pruned tree to this path")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprint(os.Stderr, "Encode: quadimg [-tolerance N | -leaves N] <input-image>\nDecode: quadimg <input.qim>\n")
		os.Exit(1)
	}

	in := flag.Arg(0)

	var err error
	if strings.ToLower(filepath.Ext(in)) == ".qim" {
		err = decodeFile(in)
	} else {
		err = encodeFile(in, *tolerance, *leaves, *debug)
	}
	if err != nil {
		log.Fatalln(err)
	}
}

func encodeFile(path string, tolerance, leaves int, debug string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return errors.Wrap(err, "decoding input image")
	}

	res := fitResolution(img)
	if res == 0 {
		b := img.Bounds()
		return errors.Errorf("image %dx%d holds no square power-of-two region", b.Dx(), b.Dy())
	}

	t := quadimg.FromImage(img, res)
	if leaves > 0 {
		tolerance = t.IdealPrune(leaves)
		log.Infof("tolerance %d reaches %d leaves", tolerance, leaves)
	}
	t.Prune(tolerance)

	if debug != "" {
		t.Image(debug)
	}

	enc, err := t.Encode()
	if err != nil {
		return err
	}

	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".qim"
	if err := os.WriteFile(out, enc, 0o644); err != nil {
		return err
	}

	log.Infof("encoded %s (%dx%d, %d leaves, tolerance %d) -> %s",
		path, res, res, t.LeafCount(), tolerance, out)
	return nil
}

// fitResolution picks the largest power-of-two square that fits in the
// top-left corner of img.
func fitResolution(img image.Image) int {
	b := img.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	if side < 1 {
		return 0
	}

	res := 1
	for res*2 <= side {
		res *= 2
	}
	return res
}

func decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	t, err := quadimg.Decode(data)
	if err != nil {
		return err
	}

	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, t.Decompress()); err != nil {
		return errors.Wrap(err, "encoding output png")
	}

	log.Infof("decoded %s (%dx%d, %d leaves) -> %s",
		path, t.Resolution(), t.Resolution(), t.LeafCount(), out)
	return nil
}

package quadimg

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Serialized layout: magic(4) + resolution(uint32, big endian), then a
// zstd-compressed preorder node stream. A branch is a single marker byte and
// its four children follow; a leaf is a marker byte plus its RGBA bytes.
// Branch colors are not stored: a branch's color is always the truncating
// average of its children's colors, before and after pruning, so Decode
// recomputes them.
const codecMagic = "QIM1"

const (
	markerBranch byte = 0x00
	markerLeaf   byte = 0x01
)

var (
	// ErrInvalidMagic reports that the input does not start with the QIM1
	// header.
	ErrInvalidMagic = errors.New("quadimg: not a QIM1 stream")
	// ErrCorrupt reports a truncated or malformed node stream.
	ErrCorrupt = errors.New("quadimg: truncated or malformed node stream")
)

// Encode serializes the tree. Pruned trees encode small: structure costs one
// byte per node and only leaves carry color.
func (t *Tree) Encode() ([]byte, error) {
	b := &bytes.Buffer{}
	b.WriteString(codecMagic)
	if err := binary.Write(b, binary.BigEndian, uint32(t.res)); err != nil {
		return nil, errors.Wrap(err, "quadimg: writing header")
	}

	zw, err := zstd.NewWriter(b)
	if err != nil {
		return nil, errors.Wrap(err, "quadimg: zstd writer")
	}
	if t.root != nil {
		if err := writeNode(zw, t.root); err != nil {
			zw.Close()
			return nil, errors.Wrap(err, "quadimg: writing node stream")
		}
	}
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "quadimg: flushing node stream")
	}

	return b.Bytes(), nil
}

func writeNode(w io.Writer, n *Node) error {
	if n.IsLeaf() {
		_, err := w.Write([]byte{markerLeaf, n.Element.R, n.Element.G, n.Element.B, n.Element.A})
		return err
	}

	if _, err := w.Write([]byte{markerBranch}); err != nil {
		return err
	}
	for _, c := range []*Node{n.NW, n.NE, n.SW, n.SE} {
		if err := writeNode(w, c); err != nil {
			return err
		}
	}
	return nil
}

// Decode reconstructs a tree serialized by Encode.
func Decode(data []byte) (*Tree, error) {
	r := bytes.NewReader(data)

	magic := make([]byte, len(codecMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, ErrInvalidMagic
	}
	if string(magic) != codecMagic {
		return nil, ErrInvalidMagic
	}

	var res uint32
	if err := binary.Read(r, binary.BigEndian, &res); err != nil {
		return nil, errors.Wrap(err, "quadimg: reading header")
	}
	if res != 0 && res&(res-1) != 0 {
		return nil, ErrCorrupt
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "quadimg: zstd reader")
	}
	defer zr.Close()

	t := &Tree{res: int(res)}
	if res == 0 {
		return t, nil
	}

	br := bufio.NewReader(zr)
	root, err := readNode(br)
	if err != nil {
		return nil, err
	}
	if _, err := br.ReadByte(); err != io.EOF {
		return nil, ErrCorrupt
	}

	t.root = root
	return t, nil
}

func readNode(r *bufio.Reader) (*Node, error) {
	marker, err := r.ReadByte()
	if err != nil {
		return nil, ErrCorrupt
	}

	switch marker {
	case markerLeaf:
		var c [4]byte
		if _, err := io.ReadFull(r, c[:]); err != nil {
			return nil, ErrCorrupt
		}
		return &Node{Element: Pixel{R: c[0], G: c[1], B: c[2], A: c[3]}}, nil

	case markerBranch:
		n := &Node{}
		for _, child := range []**Node{&n.NW, &n.NE, &n.SW, &n.SE} {
			if *child, err = readNode(r); err != nil {
				return nil, err
			}
		}
		n.Element = AveragePixel(n.NW.Element, n.NE.Element, n.SW.Element, n.SE.Element)
		return n, nil

	default:
		return nil, ErrCorrupt
	}
}

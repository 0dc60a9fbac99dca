package quadimg

import (
	"image"
)

// Node is a single square region of the represented image. Element is the
// exact pixel color for a leaf and the truncating average of the four
// children's colors for a branch. A node owns its children exclusively;
// subtrees are never shared between nodes or between trees.
type Node struct {
	Element Pixel

	NW, NE, SW, SE *Node
}

// IsLeaf reports whether n has no children. A node has either zero or four
// children, never one to three, so checking a single pointer is enough on a
// well-formed tree.
func (n *Node) IsLeaf() bool {
	return n.NW == nil
}

func (n *Node) IsValid() bool {
	return n.IsValidLeafNode() || n.IsValidBranchNode()
}

func (n *Node) IsValidBranchNode() bool {
	return n.NW != nil && n.NE != nil && n.SW != nil && n.SE != nil
}

func (n *Node) IsValidLeafNode() bool {
	return n.NW == nil && n.NE == nil && n.SW == nil && n.SE == nil
}

// IsValidBranch checks the zero-or-four-children invariant over the whole
// subtree rooted at n.
func (n *Node) IsValidBranch() bool {
	return n.IsValid() && (n.IsLeaf() ||
		n.NW.IsValidBranch() && n.NE.IsValidBranch() && n.SW.IsValidBranch() && n.SE.IsValidBranch())
}

// Tree is a quadtree over a square power-of-two image. The zero value (and
// NewTree) is the empty tree: no root, resolution 0. A node at depth d covers
// a region of side Resolution()/2^d; leaves sit either at the 1x1 floor or at
// whatever depth pruning collapsed their subtree to.
//
// All operations are plain synchronous traversals. The tree is not safe for
// a query concurrent with Build, Prune or ClockwiseRotate; the caller
// serializes access.
type Tree struct {
	root *Node
	res  int
}

// NewTree makes an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// FromImage builds a tree from the resolution-by-resolution block at the
// top-left corner of source. See Build for preconditions.
func FromImage(source image.Image, resolution int) *Tree {
	t := NewTree()
	t.Build(source, resolution)
	return t
}

// Resolution returns the side length of the square the tree represents,
// 0 for an empty tree.
func (t *Tree) Resolution() int {
	return t.res
}

// Build discards any existing tree and constructs a fresh one from the
// resolution-by-resolution region at the top-left of source, quartering
// recursively down to 1x1 leaves. Before any pruning, Decompress reproduces
// that region exactly.
//
// resolution must be a power of two >= 1 and source must cover at least
// resolution in both dimensions; Build panics otherwise.
func (t *Tree) Build(source image.Image, resolution int) {
	if resolution < 1 || resolution&(resolution-1) != 0 {
		panic("quadimg: resolution must be a power of two")
	}
	b := source.Bounds()
	if b.Dx() < resolution || b.Dy() < resolution {
		panic("quadimg: source smaller than requested resolution")
	}

	t.res = resolution
	t.root = build(source, b.Min.X, b.Min.Y, resolution)
}

func build(source image.Image, x, y, size int) *Node {
	if size == 1 {
		return &Node{Element: PixelAt(source, x, y)}
	}

	half := size / 2
	n := &Node{
		NW: build(source, x, y, half),
		NE: build(source, x+half, y, half),
		SW: build(source, x, y+half, half),
		SE: build(source, x+half, y+half, half),
	}
	n.Element = AveragePixel(n.NW.Element, n.NE.Element, n.SW.Element, n.SE.Element)
	return n
}

// Copy returns a deep clone. The clone shares no nodes with t; mutating one
// never disturbs the other.
func (t *Tree) Copy() *Tree {
	return &Tree{root: copyNode(t.root), res: t.res}
}

func copyNode(n *Node) *Node {
	if n == nil {
		return nil
	}
	return &Node{
		Element: n.Element,
		NW:      copyNode(n.NW),
		NE:      copyNode(n.NE),
		SW:      copyNode(n.SW),
		SE:      copyNode(n.SE),
	}
}

// GetPixel returns the color visible at (x, y). On a pruned tree the descent
// stops at the collapsed ancestor covering the coordinate, so every query
// under it answers with that ancestor's average. Empty trees and coordinates
// outside [0, Resolution()) in either axis report DefaultPixel.
func (t *Tree) GetPixel(x, y int) Pixel {
	if t.root == nil || x < 0 || y < 0 || x >= t.res || y >= t.res {
		return DefaultPixel
	}

	n := t.root
	for size := t.res; !n.IsLeaf(); size /= 2 {
		half := size / 2
		switch {
		case x < half && y < half:
			n = n.NW
		case y < half:
			n = n.NE
			x -= half
		case x < half:
			n = n.SW
			y -= half
		default:
			n = n.SE
			x -= half
			y -= half
		}
	}
	return n.Element
}

// LeafCount returns the number of leaves currently in the tree.
func (t *Tree) LeafCount() int {
	return countLeaves(t.root)
}

func countLeaves(n *Node) int {
	if n == nil {
		return 0
	}
	if n.IsLeaf() {
		return 1
	}
	return countLeaves(n.NW) + countLeaves(n.NE) + countLeaves(n.SW) + countLeaves(n.SE)
}

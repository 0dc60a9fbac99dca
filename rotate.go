package quadimg

// ClockwiseRotate transforms the tree in place so it represents the same
// image rotated 90 degrees clockwise. Only child pointers are reassigned:
// no node is allocated, freed or copied, and no color moves between nodes.
// A branch's average is unchanged by reordering its children, and a leaf's
// single color has no orientation, so relabeling the whole tree is enough.
func (t *Tree) ClockwiseRotate() {
	if t.root != nil {
		clockwiseRotate(t.root)
	}
}

// Each child slot receives the subtree that sat one position
// counter-clockwise from it: NW<-SW, SW<-SE, SE<-NE, NE<-NW.
func clockwiseRotate(n *Node) {
	if n.IsLeaf() {
		return
	}

	swap := n.NW
	n.NW = n.SW
	n.SW = n.SE
	n.SE = n.NE
	n.NE = swap

	clockwiseRotate(n.NW)
	clockwiseRotate(n.NE)
	clockwiseRotate(n.SW)
	clockwiseRotate(n.SE)
}

package quadimg

// Tolerance bounds for the IdealPrune search. MaxTolerance is the squared
// RGB distance between pure black and pure white, the largest value
// Pixel.Distance can report.
const (
	MinTolerance = 0
	MaxTolerance = 3 * 255 * 255
)

// Prune collapses, in place, every subtree whose descendant leaves all sit
// within tolerance of that subtree's average color, leaving the subtree root
// as a leaf holding the average.
//
// Prunability is judged once, against the tree as it stood when Prune was
// called: the test at a node looks at that node's full original leaf set, and
// the recursion never revisits a node after a sibling or cousin collapsed.
// A node that would only become collapsible because of some other collapse in
// the same pass stays a branch.
func (t *Tree) Prune(tolerance int) {
	if t.root != nil {
		prune(t.root, tolerance)
	}
}

func prune(n *Node, tolerance int) {
	if n.IsLeaf() {
		return
	}
	if subtreeWithin(n, n.Element, tolerance) {
		n.NW, n.NE, n.SW, n.SE = nil, nil, nil, nil
		return
	}
	prune(n.NW, tolerance)
	prune(n.NE, tolerance)
	prune(n.SW, tolerance)
	prune(n.SE, tolerance)
}

// subtreeWithin reports whether every leaf under n is within tolerance of
// avg. This walks the whole candidate subtree, which is the dominant cost of
// the pruning family.
func subtreeWithin(n *Node, avg Pixel, tolerance int) bool {
	if n.IsLeaf() {
		return avg.Distance(n.Element) <= tolerance
	}
	return subtreeWithin(n.NW, avg, tolerance) &&
		subtreeWithin(n.NE, avg, tolerance) &&
		subtreeWithin(n.SW, avg, tolerance) &&
		subtreeWithin(n.SE, avg, tolerance)
}

// PruneSize returns the number of leaves the tree would have after
// Prune(tolerance), without touching the tree. 0 for an empty tree.
func (t *Tree) PruneSize(tolerance int) int {
	if t.root == nil {
		return 0
	}
	return pruneSize(t.root, tolerance)
}

func pruneSize(n *Node, tolerance int) int {
	if n.IsLeaf() || subtreeWithin(n, n.Element, tolerance) {
		return 1
	}
	return pruneSize(n.NW, tolerance) +
		pruneSize(n.NE, tolerance) +
		pruneSize(n.SW, tolerance) +
		pruneSize(n.SE, tolerance)
}

// IdealPrune returns the minimum tolerance t such that PruneSize(t) is at
// most numLeaves. MinTolerance for an empty tree.
//
// PruneSize never increases as tolerance grows, so the answer is found by
// bisecting [MinTolerance, MaxTolerance]; each probe costs one full
// PruneSize traversal, and the probe count is logarithmic in the tolerance
// range rather than linear.
func (t *Tree) IdealPrune(numLeaves int) int {
	if t.root == nil {
		return MinTolerance
	}
	return t.searchTolerance(numLeaves, MinTolerance, MaxTolerance)
}

func (t *Tree) searchTolerance(numLeaves, lo, hi int) int {
	for lo < hi {
		mid := lo + (hi-lo)/2
		if t.PruneSize(mid) <= numLeaves {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

package latchtree

// separator pairs a key with the child that owns every entry >= key (and
// < the next separator's key, if any).
type separator struct {
	key   int32
	child node
}

// innerNode is a low child plus an ordered sequence of separators,
// capacity imax. It owns its low child and every separator's child.
type innerNode struct {
	lt       latch
	lowChild node
	seps     []separator
	imax     int
}

func newInnerNode(imax int, lowChild node) *innerNode {
	return &innerNode{lowChild: lowChild, seps: make([]separator, 0, imax), imax: imax}
}

func (n *innerNode) Kind() NodeKind { return KindInner }
func (n *innerNode) Latch() *latch  { return &n.lt }

func (n *innerNode) size() int { return len(n.seps) }

// minSize is the minimum separator count for a non-root inner node.
func (n *innerNode) minSize() int { return ceilDiv(n.imax+1, 2) - 1 }

// lowerBound returns the index of the first separator whose key >= key.
func (n *innerNode) lowerBound(key int32) int {
	lo, hi := 0, len(n.seps)
	for lo < hi {
		mid := (lo + hi) / 2
		if n.seps[mid].key < key {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// pivotIndex returns the seps index find_pivot would choose, or -1 for
// the low child.
func (n *innerNode) pivotIndex(key int32) int {
	i := n.lowerBound(key)
	if i < len(n.seps) && n.seps[i].key == key {
		return i
	}
	if i == 0 {
		return -1
	}
	return i - 1
}

// findPivot returns the child the search for key should descend into.
func (n *innerNode) findPivot(key int32) node {
	i := n.pivotIndex(key)
	if i == -1 {
		return n.lowChild
	}
	return n.seps[i].child
}

// previousSiblingWithSeparator returns the sibling immediately left of
// find_pivot(key) and the index of the separator between them. ok is
// false iff find_pivot(key) is the low child.
func (n *innerNode) previousSiblingWithSeparator(key int32) (sibling node, sepIdx int, ok bool) {
	pi := n.pivotIndex(key)
	if pi == -1 {
		return nil, 0, false
	}
	if pi == 0 {
		return n.lowChild, 0, true
	}
	return n.seps[pi-1].child, pi, true
}

// nextSiblingWithSeparator is symmetric to previousSiblingWithSeparator,
// to the right. ok is false iff find_pivot(key) is the last child.
func (n *innerNode) nextSiblingWithSeparator(key int32) (sibling node, sepIdx int, ok bool) {
	pi := n.pivotIndex(key)
	if pi == len(n.seps)-1 {
		return nil, 0, false
	}
	if pi == -1 {
		return n.seps[0].child, 0, true
	}
	return n.seps[pi+1].child, pi + 1, true
}

// insertSeparator inserts sep at pos, maintaining order. It fails if the
// node is already at capacity.
func (n *innerNode) insertSeparator(sep separator, pos int) bool {
	if len(n.seps) >= n.imax {
		return false
	}
	n.seps = append(n.seps, separator{})
	copy(n.seps[pos+1:], n.seps[pos:])
	n.seps[pos] = sep
	return true
}

// deleteSeparator removes the separator at pos, shifting left.
func (n *innerNode) deleteSeparator(pos int) {
	copy(n.seps[pos:], n.seps[pos+1:])
	n.seps = n.seps[:len(n.seps)-1]
}

// split requires n.size() == n.imax. Of the first ceil(imax/2)
// separators it lifts the last as (key, child) — that child becomes the
// new right sibling's low child — and keeps the ceil(imax/2)-1 before
// it; the new sibling gets every separator beyond the lifted one.
// Returns the new sibling and the lifted key.
func (n *innerNode) split() (*innerNode, int32) {
	keep := ceilDiv(n.imax, 2)
	right := newInnerNode(n.imax, nil)

	lifted := n.seps[keep-1]
	right.lowChild = lifted.child
	right.seps = append(right.seps, n.seps[keep:]...)
	n.seps = n.seps[:keep-1]

	return right, lifted.key
}

// mergeInNext appends (sepKey, next.lowChild) followed by every separator
// of next onto n. The caller releases next's latch and drops it.
func (n *innerNode) mergeInNext(next *innerNode, sepKey int32) {
	n.seps = append(n.seps, separator{key: sepKey, child: next.lowChild})
	n.seps = append(n.seps, next.seps...)
}

package latchtree

// IteratorState is the state an Iterator can be in.
type IteratorState int

const (
	StateValid IteratorState = iota
	StateEnd
	StateREnd
	StateRetry
	StateInvalid
)

// Iterator walks a Tree's leaf chain, holding at most one shared leaf
// latch at a time. Sideways movement between leaves uses try-acquire,
// never blocking, so it cannot form a cycle with a concurrent top-down
// writer; a failed try-acquire surfaces as StateRetry instead.
//
// Within a single caller context, do not start a new top-down operation
// (Begin, RBegin, Insert, Delete) while another Iterator from that same
// context still holds a leaf latch — doing so risks deadlock against a
// writer waiting on the tree latch for that same leaf.
type Iterator struct {
	leaf    *leafNode
	index   int
	state   IteratorState
	metrics *treeMetrics
}

// Begin returns an iterator positioned at the smallest key, or an End
// iterator if the tree is empty.
func (t *Tree) Begin() *Iterator {
	leaf := t.descend(func(in *innerNode) node { return in.lowChild })
	if leaf == nil {
		return &Iterator{state: StateEnd, metrics: t.opts.metrics}
	}
	return &Iterator{leaf: leaf, index: 0, state: StateValid, metrics: t.opts.metrics}
}

// RBegin returns an iterator positioned at the largest key, or a REnd
// iterator if the tree is empty.
func (t *Tree) RBegin() *Iterator {
	leaf := t.descend(func(in *innerNode) node { return in.seps[in.size()-1].child })
	if leaf == nil {
		return &Iterator{state: StateREnd, metrics: t.opts.metrics}
	}
	return &Iterator{leaf: leaf, index: leaf.size() - 1, state: StateValid, metrics: t.opts.metrics}
}

// End returns the singleton End iterator.
func (t *Tree) End() *Iterator { return &Iterator{state: StateEnd} }

// REnd returns the singleton REnd iterator.
func (t *Tree) REnd() *Iterator { return &Iterator{state: StateREnd} }

// Retry returns the singleton Retry iterator.
func (t *Tree) Retry() *Iterator { return &Iterator{state: StateRetry} }

// descend walks from the root to a leaf with shared latches, using pick
// to choose which child to follow at each inner node. Returns nil if the
// tree is empty.
func (t *Tree) descend(pick func(*innerNode) node) *leafNode {
	t.rootLatch.AcquireShared()
	if t.root == nil {
		t.rootLatch.ReleaseShared()
		return nil
	}

	cur := t.root
	cur.Latch().AcquireShared()
	t.rootLatch.ReleaseShared()

	for cur.Kind() == KindInner {
		in := asInner(cur)
		child := pick(in)
		child.Latch().AcquireShared()
		in.Latch().ReleaseShared()
		cur = child
	}
	return asLeaf(cur)
}

// StepForward advances the iterator one entry.
func (it *Iterator) StepForward() {
	assert(it.state == StateValid, "StepForward called on a non-Valid iterator")

	if it.index+1 < it.leaf.size() {
		it.index++
		return
	}
	if it.leaf.next == nil {
		it.leaf.Latch().ReleaseShared()
		it.leaf = nil
		it.state = StateEnd
		return
	}

	next := it.leaf.next
	if !next.Latch().TryAcquireShared() {
		it.leaf.Latch().ReleaseShared()
		it.leaf = nil
		it.state = StateRetry
		it.metrics.retry()
		return
	}
	it.leaf.Latch().ReleaseShared()
	it.leaf = next
	it.index = 0
}

// StepBackward retreats the iterator one entry, symmetric to
// StepForward over leaf.prev.
func (it *Iterator) StepBackward() {
	assert(it.state == StateValid, "StepBackward called on a non-Valid iterator")

	if it.index > 0 {
		it.index--
		return
	}
	if it.leaf.prev == nil {
		it.leaf.Latch().ReleaseShared()
		it.leaf = nil
		it.state = StateREnd
		return
	}

	prev := it.leaf.prev
	if !prev.Latch().TryAcquireShared() {
		it.leaf.Latch().ReleaseShared()
		it.leaf = nil
		it.state = StateRetry
		it.metrics.retry()
		return
	}
	it.leaf.Latch().ReleaseShared()
	it.leaf = prev
	it.index = prev.size() - 1
}

// Current returns the (key, value) pair the iterator points at. It
// panics if the iterator is not Valid.
func (it *Iterator) Current() (int32, int32) {
	assert(it.state == StateValid, "Current called on a non-Valid iterator")
	e := it.leaf.entries[it.index]
	return e.key, e.val
}

// State reports the iterator's current state.
func (it *Iterator) State() IteratorState { return it.state }

// Equal reports whether it and other denote the same position. End,
// REnd, and Retry iterators compare equal to any other iterator in the
// same state.
func (it *Iterator) Equal(other *Iterator) bool {
	if it.state != other.state {
		return false
	}
	if it.state != StateValid {
		return true
	}
	return it.leaf == other.leaf && it.index == other.index
}

// Release drops the iterator's held latch, if any. Safe to call more
// than once and on non-Valid iterators.
func (it *Iterator) Release() {
	if it.state == StateValid && it.leaf != nil {
		it.leaf.Latch().ReleaseShared()
	}
	it.leaf = nil
	it.state = StateInvalid
}

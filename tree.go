package latchtree

// Tree is a concurrent, in-memory B+Tree index over int32 keys and
// values, protected by per-node latch crabbing. The zero value is not
// usable; construct one with New.
type Tree struct {
	rootLatch latch
	root      node
	imax      int
	lmax      int
	opts      options
}

// New constructs a Tree with inner fanout imax and leaf fanout lmax.
// Both must be at least 3 for the rebalancing proofs to hold.
func New(imax, lmax int, opts ...Option) (*Tree, error) {
	if imax < 3 || lmax < 3 {
		return nil, ErrBadFanout
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Tree{imax: imax, lmax: lmax, opts: o}, nil
}

// Close releases the tree's root reference so the garbage collector can
// reclaim every node reachable only from this tree. The Tree must not be
// used afterward.
func (t *Tree) Close() {
	t.rootLatch.AcquireExclusive()
	t.root = nil
	t.rootLatch.ReleaseExclusive()
}

// Get returns the value stored for key, if present.
func (t *Tree) Get(key int32) (int32, bool) {
	t.rootLatch.AcquireShared()
	if t.root == nil {
		t.rootLatch.ReleaseShared()
		return 0, false
	}

	cur := t.root
	cur.Latch().AcquireShared()
	t.rootLatch.ReleaseShared()

	for cur.Kind() == KindInner {
		in := asInner(cur)
		child := in.findPivot(key)
		child.Latch().AcquireShared()
		in.Latch().ReleaseShared()
		cur = child
	}

	leaf := asLeaf(cur)
	i := leaf.lowerBound(key)
	if i < leaf.size() && leaf.entries[i].key == key {
		v := leaf.entries[i].val
		leaf.Latch().ReleaseShared()
		return v, true
	}
	leaf.Latch().ReleaseShared()
	return 0, false
}

// Insert adds (key, value) to the tree. It returns false without
// modifying the tree if key is already present.
func (t *Tree) Insert(key, value int32) bool {
	if ok, done := t.insertOptimistic(key, value); done {
		return ok
	}
	t.opts.logger.Warn("insert falling back to pessimistic phase", "key", key)
	t.opts.metrics.fallback("insert")
	return t.insertPessimistic(key, value)
}

// insertOptimistic assumes the target leaf has room. It returns
// done == false when that assumption fails and the pessimistic phase
// must run instead.
func (t *Tree) insertOptimistic(key, value int32) (ok bool, done bool) {
	t.rootLatch.AcquireExclusive()
	if t.root == nil {
		t.root = newLeafNode(t.lmax)
	}

	cur := t.root
	cur.Latch().AcquireShared()
	t.rootLatch.ReleaseExclusive()

	for cur.Kind() == KindInner {
		in := asInner(cur)
		child := in.findPivot(key)
		child.Latch().AcquireShared()
		in.Latch().ReleaseShared()
		cur = child
	}

	leaf := asLeaf(cur)
	leaf.Latch().ReleaseShared()
	leaf.Latch().AcquireExclusive()

	i := leaf.lowerBound(key)
	if i < leaf.size() && leaf.entries[i].key == key {
		leaf.Latch().ReleaseExclusive()
		return false, true
	}
	if leaf.insert(entry{key: key, val: value}, i) {
		leaf.Latch().ReleaseExclusive()
		return true, true
	}

	leaf.Latch().ReleaseExclusive()
	return false, false
}

// insertPessimistic re-descends with exclusive latches, releasing every
// held ancestor latch (and the tree latch) on reaching an insert-safe
// inner node, then splits as needed and propagates the lifted separator
// upward.
func (t *Tree) insertPessimistic(key, value int32) bool {
	t.rootLatch.AcquireExclusive()
	holdsTreeLatch := true

	cur := t.root
	cur.Latch().AcquireExclusive()

	var stack []*innerNode
	releaseAll := func() {
		for i := len(stack) - 1; i >= 0; i-- {
			stack[i].Latch().ReleaseExclusive()
		}
		stack = nil
		if holdsTreeLatch {
			t.rootLatch.ReleaseExclusive()
			holdsTreeLatch = false
		}
	}

	for cur.Kind() == KindInner {
		in := asInner(cur)
		if in.size() < in.imax {
			releaseAll()
		}
		stack = append(stack, in)
		child := in.findPivot(key)
		child.Latch().AcquireExclusive()
		cur = child
	}

	leaf := asLeaf(cur)
	i := leaf.lowerBound(key)
	if i < leaf.size() && leaf.entries[i].key == key {
		leaf.Latch().ReleaseExclusive()
		releaseAll()
		return false
	}
	if leaf.insert(entry{key: key, val: value}, i) {
		leaf.Latch().ReleaseExclusive()
		releaseAll()
		return true
	}

	right := leaf.split()
	t.opts.metrics.rebalance("leaf", "split")
	if key >= right.entries[0].key {
		j := right.lowerBound(key)
		right.insert(entry{key: key, val: value}, j)
	} else {
		j := leaf.lowerBound(key)
		leaf.insert(entry{key: key, val: value}, j)

		if right.size() < right.minSize() {
			last := leaf.entries[leaf.size()-1]
			right.insert(last, right.lowerBound(last.key))
			leaf.delete(leaf.size() - 1)
		}
	}

	right.prev = leaf
	right.next = leaf.next
	if leaf.next != nil {
		leaf.next.Latch().AcquireExclusive()
		leaf.next.prev = right
		leaf.next.Latch().ReleaseExclusive()
	}
	leaf.next = right
	leaf.Latch().ReleaseExclusive()

	liftedKey := right.entries[0].key
	var liftedChild node = right
	finished := false

	for len(stack) > 0 && !finished {
		in := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		pos := in.lowerBound(liftedKey)
		if in.insertSeparator(separator{key: liftedKey, child: liftedChild}, pos) {
			finished = true
		} else {
			rightIn, splitLiftedKey := in.split()
			t.opts.metrics.rebalance("inner", "split")
			if liftedKey >= splitLiftedKey {
				rightIn.insertSeparator(separator{key: liftedKey, child: liftedChild}, rightIn.lowerBound(liftedKey))
			} else {
				in.insertSeparator(separator{key: liftedKey, child: liftedChild}, in.lowerBound(liftedKey))
			}
			liftedKey = splitLiftedKey
			liftedChild = rightIn
		}
		in.Latch().ReleaseExclusive()
	}

	if !finished {
		assert(holdsTreeLatch, "root split requires the tree latch")
		newRoot := newInnerNode(t.imax, t.root)
		newRoot.insertSeparator(separator{key: liftedKey, child: liftedChild}, 0)
		t.root = newRoot
		t.opts.logger.Info("root replaced after insert split", "imax", t.imax, "newRootSize", newRoot.size())
	}

	releaseAll()
	return true
}

// Delete removes key from the tree. It returns false without modifying
// the tree if key is absent.
func (t *Tree) Delete(key int32) bool {
	if ok, done := t.deleteOptimistic(key); done {
		return ok
	}
	t.opts.logger.Warn("delete falling back to pessimistic phase", "key", key)
	t.opts.metrics.fallback("delete")
	return t.deletePessimistic(key)
}

// deleteOptimistic assumes the target leaf stays at or above minimum
// occupancy after the delete. It returns done == false when that assumption fails.
func (t *Tree) deleteOptimistic(key int32) (ok bool, done bool) {
	t.rootLatch.AcquireExclusive()
	if t.root == nil {
		t.rootLatch.ReleaseExclusive()
		return false, true
	}

	cur := t.root
	isRoot := true
	cur.Latch().AcquireShared()
	t.rootLatch.ReleaseExclusive()

	for cur.Kind() == KindInner {
		in := asInner(cur)
		child := in.findPivot(key)
		child.Latch().AcquireShared()
		in.Latch().ReleaseShared()
		cur = child
		isRoot = false
	}

	leaf := asLeaf(cur)
	leaf.Latch().ReleaseShared()
	leaf.Latch().AcquireExclusive()

	var removable bool
	if isRoot {
		removable = leaf.size() > 1
	} else {
		removable = leaf.size() > leaf.minSize()
	}

	i := leaf.lowerBound(key)
	found := i < leaf.size() && leaf.entries[i].key == key

	if removable {
		if !found {
			leaf.Latch().ReleaseExclusive()
			return false, true
		}
		leaf.delete(i)
		leaf.Latch().ReleaseExclusive()
		return true, true
	}

	leaf.Latch().ReleaseExclusive()
	return false, false
}

// deletePessimistic re-descends with exclusive latches, releasing every
// held ancestor latch (and the tree latch) on reaching a delete-safe
// inner node, then rebalances (borrow or merge) from the leaf up as
// needed.
func (t *Tree) deletePessimistic(key int32) bool {
	t.rootLatch.AcquireExclusive()
	holdsTreeLatch := true

	cur := t.root
	cur.Latch().AcquireExclusive()

	var stack []*innerNode
	releaseAll := func() {
		for i := len(stack) - 1; i >= 0; i-- {
			stack[i].Latch().ReleaseExclusive()
		}
		stack = nil
		if holdsTreeLatch {
			t.rootLatch.ReleaseExclusive()
			holdsTreeLatch = false
		}
	}

	for cur.Kind() == KindInner {
		in := asInner(cur)
		if in.size() > in.minSize() {
			releaseAll()
		}
		stack = append(stack, in)
		child := in.findPivot(key)
		child.Latch().AcquireExclusive()
		cur = child
	}

	leaf := asLeaf(cur)
	i := leaf.lowerBound(key)
	if i >= leaf.size() || leaf.entries[i].key != key {
		leaf.Latch().ReleaseExclusive()
		releaseAll()
		return false
	}
	leaf.delete(i)

	if leaf.size() >= leaf.minSize() {
		leaf.Latch().ReleaseExclusive()
		releaseAll()
		return true
	}

	var inner *innerNode
	finished := false

	if len(stack) > 0 {
		parent := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		t.rebalanceLeaf(parent, leaf, key)
		if parent.size() >= parent.minSize() {
			finished = true
		}
		inner = parent
	} else {
		leaf.Latch().ReleaseExclusive()
	}

	if finished {
		inner.Latch().ReleaseExclusive()
		releaseAll()
		return true
	}

	for inner != nil && !finished && len(stack) > 0 {
		gp := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		t.rebalanceInner(gp, inner, key)
		if gp.size() >= gp.minSize() {
			finished = true
		}
		inner = gp
	}

	if finished {
		inner.Latch().ReleaseExclusive()
		releaseAll()
		return true
	}

	if inner != nil {
		assert(holdsTreeLatch, "root collapse requires the tree latch")
		assert(t.root == inner, "delete walk returned to a node other than the root")

		if inner.size() == 0 {
			t.root = inner.lowChild
			t.opts.logger.Info("root replaced after delete collapse", "imax", t.imax)
		}
		inner.Latch().ReleaseExclusive()
		t.rootLatch.ReleaseExclusive()
		return true
	}

	assert(holdsTreeLatch, "emptying the leaf root requires the tree latch")
	if leaf.size() == 0 {
		t.root = nil
		t.opts.logger.Info("root cleared after delete", "imax", t.imax)
	}
	t.rootLatch.ReleaseExclusive()
	return true
}

// rebalanceLeaf restores parent's underflowing child leaf to minimum
// occupancy by borrowing from a same-parent sibling, or merges it with
// one. It always releases leaf's latch before returning.
func (t *Tree) rebalanceLeaf(parent *innerNode, leaf *leafNode, key int32) {
	if prevSib, sepIdx, ok := parent.previousSiblingWithSeparator(key); ok {
		other := asLeaf(prevSib)
		other.Latch().AcquireExclusive()

		if other.size()-1 >= other.minSize() {
			borrowed := other.entries[other.size()-1]
			other.delete(other.size() - 1)
			leaf.insert(borrowed, 0)
			parent.seps[sepIdx].key = leaf.entries[0].key
			t.opts.metrics.rebalance("leaf", "borrow")
		} else {
			other.mergeIn(leaf)
			other.next = leaf.next
			if leaf.next != nil {
				leaf.next.Latch().AcquireExclusive()
				leaf.next.prev = other
				leaf.next.Latch().ReleaseExclusive()
			}
			parent.deleteSeparator(sepIdx)
			t.opts.metrics.rebalance("leaf", "merge")
		}

		leaf.Latch().ReleaseExclusive()
		other.Latch().ReleaseExclusive()
		return
	}

	if nextSib, sepIdx, ok := parent.nextSiblingWithSeparator(key); ok {
		other := asLeaf(nextSib)
		other.Latch().AcquireExclusive()

		if other.size()-1 >= other.minSize() {
			borrowed := other.entries[0]
			other.delete(0)
			leaf.insert(borrowed, leaf.size())
			parent.seps[sepIdx].key = other.entries[0].key
			t.opts.metrics.rebalance("leaf", "borrow")
		} else {
			leaf.mergeIn(other)
			leaf.next = other.next
			if other.next != nil {
				other.next.Latch().AcquireExclusive()
				other.next.prev = leaf
				other.next.Latch().ReleaseExclusive()
			}
			parent.deleteSeparator(sepIdx)
			t.opts.metrics.rebalance("leaf", "merge")
		}

		other.Latch().ReleaseExclusive()
		leaf.Latch().ReleaseExclusive()
		return
	}

	leaf.Latch().ReleaseExclusive()
}

// rebalanceInner restores gp's underflowing child inner node to minimum
// occupancy by borrowing from a same-parent sibling, or merges it with
// one. It always releases inner's latch before returning.
func (t *Tree) rebalanceInner(gp *innerNode, inner *innerNode, key int32) {
	if prevSib, sepIdx, ok := gp.previousSiblingWithSeparator(key); ok {
		other := asInner(prevSib)
		other.Latch().AcquireExclusive()

		if other.size()-1 >= other.minSize() {
			borrowed := other.seps[other.size()-1]
			other.deleteSeparator(other.size() - 1)

			inner.insertSeparator(separator{key: gp.seps[sepIdx].key, child: inner.lowChild}, 0)
			inner.lowChild = borrowed.child
			gp.seps[sepIdx].key = borrowed.key
			t.opts.metrics.rebalance("inner", "borrow")
		} else {
			other.mergeInNext(inner, gp.seps[sepIdx].key)
			gp.deleteSeparator(sepIdx)
			t.opts.metrics.rebalance("inner", "merge")
		}

		inner.Latch().ReleaseExclusive()
		other.Latch().ReleaseExclusive()
		return
	}

	if nextSib, sepIdx, ok := gp.nextSiblingWithSeparator(key); ok {
		other := asInner(nextSib)
		other.Latch().AcquireExclusive()

		if other.size()-1 >= other.minSize() {
			borrowed := other.seps[0]
			other.deleteSeparator(0)

			inner.insertSeparator(separator{key: gp.seps[sepIdx].key, child: other.lowChild}, inner.size())
			other.lowChild = borrowed.child
			gp.seps[sepIdx].key = borrowed.key
			t.opts.metrics.rebalance("inner", "borrow")
		} else {
			inner.mergeInNext(other, gp.seps[sepIdx].key)
			gp.deleteSeparator(sepIdx)
			t.opts.metrics.rebalance("inner", "merge")
		}

		other.Latch().ReleaseExclusive()
		inner.Latch().ReleaseExclusive()
		return
	}

	inner.Latch().ReleaseExclusive()
}

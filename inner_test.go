package latchtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildInner(imax int, lowChild node, keys ...int32) *innerNode {
	in := newInnerNode(imax, lowChild)
	for _, k := range keys {
		in.insertSeparator(separator{key: k, child: newLeafNode(4)}, in.size())
	}
	return in
}

func TestInnerNodeFindPivot(t *testing.T) {
	t.Parallel()

	low := newLeafNode(4)
	in := buildInner(4, low, 10, 20, 30)

	require.Same(t, low, in.findPivot(5))
	require.Same(t, in.seps[0].child, in.findPivot(10))
	require.Same(t, in.seps[0].child, in.findPivot(15))
	require.Same(t, in.seps[1].child, in.findPivot(20))
	require.Same(t, in.seps[2].child, in.findPivot(30))
	require.Same(t, in.seps[2].child, in.findPivot(100))
}

func TestInnerNodeSiblingsWithSeparator(t *testing.T) {
	t.Parallel()

	low := newLeafNode(4)
	in := buildInner(4, low, 10, 20, 30)

	_, _, ok := in.previousSiblingWithSeparator(5)
	require.False(t, ok, "low child has no previous sibling")

	prev, sepIdx, ok := in.previousSiblingWithSeparator(20)
	require.True(t, ok)
	require.Same(t, in.seps[0].child, prev)
	require.Equal(t, 1, sepIdx)

	_, _, ok = in.nextSiblingWithSeparator(30)
	require.False(t, ok, "last child has no next sibling")

	next, sepIdx, ok := in.nextSiblingWithSeparator(20)
	require.True(t, ok)
	require.Same(t, in.seps[2].child, next)
	require.Equal(t, 2, sepIdx)

	next, sepIdx, ok = in.nextSiblingWithSeparator(5)
	require.True(t, ok, "low child's next is the first separator's child")
	require.Same(t, in.seps[0].child, next)
	require.Equal(t, 0, sepIdx)
}

func TestInnerNodeSplit(t *testing.T) {
	t.Parallel()

	low := newLeafNode(4)
	in := buildInner(4, low, 10, 20, 30, 40)
	require.Equal(t, 4, in.size())

	right, liftedKey := in.split()

	require.Equal(t, int32(20), liftedKey)
	require.Equal(t, 1, in.size())
	require.Equal(t, int32(10), in.seps[0].key)
	require.Equal(t, 2, right.size())
	require.Equal(t, int32(30), right.seps[0].key)
	require.Equal(t, int32(40), right.seps[1].key)
}

func TestInnerNodeMergeInNext(t *testing.T) {
	t.Parallel()

	left := buildInner(8, newLeafNode(4), 10)
	right := buildInner(8, newLeafNode(4), 30, 40)

	left.mergeInNext(right, 20)

	require.Equal(t, 4, left.size())
	require.Equal(t, []int32{10, 20, 30, 40}, []int32{
		left.seps[0].key, left.seps[1].key, left.seps[2].key, left.seps[3].key,
	})
	require.Same(t, right.lowChild, left.seps[1].child)
}

func TestInnerNodeInsertSeparatorFailsWhenFull(t *testing.T) {
	t.Parallel()

	in := buildInner(2, newLeafNode(4), 10, 20)
	require.False(t, in.insertSeparator(separator{key: 30}, 2))
}

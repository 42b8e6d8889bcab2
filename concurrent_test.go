package latchtree

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// Scenario G: eight worker goroutines each insert a disjoint slice of
// {0..N}; once every goroutine has joined, a forward scan must yield
// exactly 0..N in order.
func TestConcurrentInsertPartition(t *testing.T) {
	t.Parallel()

	const (
		workers = 8
		n       = 1_000_000
	)

	tr, err := New(3, 4)
	require.NoError(t, err)

	var g errgroup.Group
	chunk := n / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if w == workers-1 {
			hi = n
		}
		g.Go(func() error {
			for k := lo; k < hi; k++ {
				tr.Insert(int32(k), int32(k))
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.Equal(t, []int32{0, 1, 2, 3}, firstN(tr, 4))
	require.Equal(t, n, countForward(tr))
}

// TestConcurrentInsertAndGet exercises readers crabbing downward against
// a writer splitting nodes at the same time.
func TestConcurrentInsertAndGet(t *testing.T) {
	t.Parallel()

	const n = 20_000

	tr, err := New(3, 4)
	require.NoError(t, err)

	var g errgroup.Group
	g.Go(func() error {
		for k := 0; k < n; k++ {
			tr.Insert(int32(k), int32(k*2))
		}
		return nil
	})
	g.Go(func() error {
		for i := 0; i < n; i++ {
			_, _ = tr.Get(int32(i % n))
		}
		return nil
	})
	require.NoError(t, g.Wait())

	for k := int32(0); k < n; k++ {
		v, ok := tr.Get(k)
		require.True(t, ok)
		require.Equal(t, k*2, v)
	}
}

// TestConcurrentDeletePartition inserts {0..N} then has eight workers
// delete a disjoint slice each; the tree must end up empty.
func TestConcurrentDeletePartition(t *testing.T) {
	t.Parallel()

	const (
		workers = 8
		n       = 100_000
	)

	tr, err := New(3, 4)
	require.NoError(t, err)
	for k := 0; k < n; k++ {
		require.True(t, tr.Insert(int32(k), int32(k)))
	}

	var g errgroup.Group
	chunk := n / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if w == workers-1 {
			hi = n
		}
		g.Go(func() error {
			for k := lo; k < hi; k++ {
				tr.Delete(int32(k))
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.Nil(t, tr.root)
}

func firstN(tr *Tree, n int) []int32 {
	out := make([]int32, 0, n)
	it := tr.Begin()
	defer it.Release()
	for it.State() == StateValid && len(out) < n {
		k, _ := it.Current()
		out = append(out, k)
		it.StepForward()
	}
	return out
}

func countForward(tr *Tree) int {
	n := 0
	it := tr.Begin()
	defer it.Release()
	for it.State() == StateValid {
		n++
		it.StepForward()
	}
	return n
}

package latchtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLatchSharedIsConcurrent(t *testing.T) {
	t.Parallel()

	var l latch
	l.AcquireShared()
	require.True(t, l.TryAcquireShared(), "a second shared latch should not be blocked by the first")
	l.ReleaseShared()
	l.ReleaseShared()
}

func TestLatchExclusiveExcludesShared(t *testing.T) {
	t.Parallel()

	var l latch
	l.AcquireExclusive()
	require.False(t, l.TryAcquireShared(), "a shared latch must not be acquirable while exclusive is held")
	l.ReleaseExclusive()

	require.True(t, l.TryAcquireShared())
	l.ReleaseShared()
}

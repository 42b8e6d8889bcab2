package latchtree

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordFallbackAndRebalance(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	tr, err := New(3, 4, WithMetrics(reg))
	require.NoError(t, err)

	for k := int32(1); k <= 20; k++ {
		require.True(t, tr.Insert(k, k))
	}
	for k := int32(1); k <= 15; k++ {
		require.True(t, tr.Delete(k))
	}

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]*dto.MetricFamily{}
	for _, f := range families {
		byName[f.GetName()] = f
	}

	fallbacks, ok := byName["latchtree_pessimistic_fallbacks_total"]
	require.True(t, ok, "insert/delete on 20 keys at lmax=4 must trigger pessimistic fallbacks")
	require.NotEmpty(t, fallbacks.GetMetric())

	rebalances, ok := byName["latchtree_rebalance_events_total"]
	require.True(t, ok, "inserting and deleting enough keys must split and merge at least one node")
	require.NotEmpty(t, rebalances.GetMetric())
}

func TestMetricsRecordIteratorRetry(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	tr, err := New(3, 4, WithMetrics(reg))
	require.NoError(t, err)
	for k := int32(1); k <= 8; k++ {
		require.True(t, tr.Insert(k, k))
	}

	it := tr.Begin()
	defer it.Release()

	next := it.leaf.next
	require.NotNil(t, next)

	next.Latch().AcquireExclusive()
	for it.State() == StateValid && it.leaf.next == next {
		it.StepForward()
	}
	next.Latch().ReleaseExclusive()
	require.Equal(t, StateRetry, it.state)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "latchtree_iterator_retries_total" {
			require.Equal(t, float64(1), f.GetMetric()[0].GetCounter().GetValue())
			return
		}
	}
	t.Fatal("latchtree_iterator_retries_total not registered")
}

func TestNewWithoutMetricsDoesNotPanic(t *testing.T) {
	t.Parallel()

	tr, err := New(3, 4)
	require.NoError(t, err)
	for k := int32(1); k <= 20; k++ {
		require.True(t, tr.Insert(k, k))
	}
	for k := int32(1); k <= 20; k++ {
		require.True(t, tr.Delete(k))
	}
}

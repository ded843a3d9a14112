package store

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/firegate/firegate/pkg/metrics"
)

func TestInstrumentCountsOps(t *testing.T) {
	ctx := context.Background()
	st := Instrument(NewMemory(), "test-backend")

	getBefore := testutil.ToFloat64(metrics.StoreOps.WithLabelValues("test-backend", "get"))
	setBefore := testutil.ToFloat64(metrics.StoreOps.WithLabelValues("test-backend", "set"))
	pushBefore := testutil.ToFloat64(metrics.StoreOps.WithLabelValues("test-backend", "push"))
	queryBefore := testutil.ToFloat64(metrics.StoreOps.WithLabelValues("test-backend", "query"))

	require.NoError(t, st.Set(ctx, "items/1", map[string]any{"n": 1}))
	_, err := st.Get(ctx, "items/1")
	require.NoError(t, err)
	_, err = st.Push(ctx, "items", map[string]any{"n": 2})
	require.NoError(t, err)
	_, err = st.QueryEqual(ctx, "items", "n", 1)
	require.NoError(t, err)

	require.Equal(t, getBefore+1, testutil.ToFloat64(metrics.StoreOps.WithLabelValues("test-backend", "get")))
	require.Equal(t, setBefore+1, testutil.ToFloat64(metrics.StoreOps.WithLabelValues("test-backend", "set")))
	require.Equal(t, pushBefore+1, testutil.ToFloat64(metrics.StoreOps.WithLabelValues("test-backend", "push")))
	require.Equal(t, queryBefore+1, testutil.ToFloat64(metrics.StoreOps.WithLabelValues("test-backend", "query")))
}

func TestInstrumentDelegates(t *testing.T) {
	ctx := context.Background()
	st := Instrument(NewMemory(), "test-backend")

	require.NoError(t, st.Set(ctx, "items/1", map[string]any{"n": 1}))
	require.NoError(t, st.Update(ctx, "items/1", map[string]any{"m": 2}))

	raw, err := st.Get(ctx, "items/1")
	require.NoError(t, err)
	require.JSONEq(t, `{"n":1,"m":2}`, string(raw))

	require.NoError(t, st.Delete(ctx, "items/1"))
	raw, err = st.Get(ctx, "items/1")
	require.NoError(t, err)
	require.Nil(t, raw)
}

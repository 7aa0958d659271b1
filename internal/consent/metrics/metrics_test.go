package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecordByLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer(reg)

	m.IncrementConsentsCreated("ACTIVE")
	m.IncrementConsentsCreated("ACTIVE")
	m.IncrementConsentsUpdated("REVOKED")
	m.IncrementRepositoryErrors("memory", "update", "version_conflict")
	m.ObserveRepositoryOperation("dynamodb", "get", 0.002)
	m.ObserveListPageSize("memory", 3)
	m.ObserveShardLockWait(0.0001)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ConsentsCreated.WithLabelValues("ACTIVE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConsentsUpdated.WithLabelValues("REVOKED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RepositoryErrors.WithLabelValues("memory", "update", "version_conflict")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RepositoryOperationLatency))
	assert.Equal(t, 1, testutil.CollectAndCount(m.ListPageSize))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "consent_management_consents_created_total")
	assert.Contains(t, names, "consent_management_memory_shard_lock_wait_seconds")
}

func TestNewWithRegistererIsolatesRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewWithRegisterer(prometheus.NewRegistry())
		NewWithRegisterer(prometheus.NewRegistry())
	})
}

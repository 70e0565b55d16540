package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/medicore/hospital-api/internal/repository"
	"github.com/medicore/hospital-api/pkg/metrics"
)

func TestObserveRecordsOperationMetrics(t *testing.T) {
	m := metrics.NewMetrics("postgres_test")
	d := &DB{metrics: m}

	d.observe("get", time.Now(), nil)
	d.observe("get", time.Now(), errors.New("connection reset"))
	// An empty result set is a miss, not a failure.
	d.observe("get", time.Now(), sql.ErrNoRows)
	d.observe("exec", time.Now(), nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("get", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatabaseOperations.WithLabelValues("exec", "ok")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.DatabaseLatency))
}

func TestObserveWithoutMetrics(t *testing.T) {
	d := &DB{}
	assert.NotPanics(t, func() {
		d.observe("get", time.Now(), nil)
	})
}

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(sql.ErrNoRows), repository.ErrNotFound)

	unique := &pq.Error{Code: "23505", Constraint: "appointments_slot_key"}
	err := mapError(unique)
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.Contains(t, err.Error(), "appointments_slot_key")

	plain := fmt.Errorf("deadlock detected")
	assert.Equal(t, plain, mapError(plain))
}

package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/life-in-weeks/internal/engine"
)

func TestObserveSnapshot(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSnapshot(time.Now(), engine.Snapshot{Stats: engine.Stats{PercentLived: 37.9}})
	m.ObserveSnapshot(time.Now(), engine.Snapshot{Stats: engine.Stats{PercentLived: 38.0}})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Snapshots))
	assert.Equal(t, 38.0, testutil.ToFloat64(m.PercentLived))
	assert.Equal(t, 1, testutil.CollectAndCount(m.SnapshotLatency))
}

func TestObserveRejected(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRejected(engine.ErrInvalidDate)
	m.ObserveRejected(engine.ErrInvalidConfiguration)
	m.ObserveRejected(errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotErrors.WithLabelValues("invalid_date")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotErrors.WithLabelValues("invalid_configuration")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotErrors.WithLabelValues("other")))
}

func TestLifeUsesObserver(t *testing.T) {
	m := New(prometheus.NewRegistry())
	life := &engine.Life{
		Clock:    engine.FixedClock{At: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		Observer: m,
	}

	_, err := life.Snapshot(engine.Profile{BirthDate: time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)}, 90)
	assert.NoError(t, err)
	_, err = life.Snapshot(engine.Profile{BirthDate: time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)}, 0)
	assert.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Snapshots))
	assert.InDelta(t, 37.9, testutil.ToFloat64(m.PercentLived), 0.01)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnapshotErrors.WithLabelValues("invalid_configuration")))
}

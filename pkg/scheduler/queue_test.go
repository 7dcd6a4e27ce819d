package scheduler_test

import (
	"testing"

	"github.com/aretw0/cadence/pkg/scheduler"
	"github.com/stretchr/testify/assert"
)

func TestQueue_FlushRunsInOrder(t *testing.T) {
	q := scheduler.NewQueue()
	var got []int
	q.Schedule(func() { got = append(got, 1) })
	q.Schedule(func() { got = append(got, 2) })
	q.Schedule(nil)

	assert.Equal(t, 2, q.Len())
	assert.Equal(t, 2, q.Flush())
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.Flush())
}

func TestQueue_FlushDrainsNestedSchedules(t *testing.T) {
	q := scheduler.NewQueue()
	var got []string
	q.Schedule(func() {
		got = append(got, "outer")
		q.Schedule(func() { got = append(got, "inner") })
	})

	assert.Equal(t, 2, q.Flush())
	assert.Equal(t, []string{"outer", "inner"}, got)
}

func TestImmediateAndDiscard(t *testing.T) {
	calls := 0
	scheduler.Immediate.Schedule(func() { calls++ })
	scheduler.Discard.Schedule(func() { calls++ })
	assert.Equal(t, 1, calls)
}

package player_test

import (
	"testing"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/player"
	"github.com/aretw0/cadence/pkg/scheduler"
	"github.com/stretchr/testify/assert"
)

func TestNoop_PlaySchedulesFinish(t *testing.T) {
	q := scheduler.NewQueue()
	p := player.NewNoop(100, 50, player.WithScheduler(q))

	var log []string
	p.OnStart(func() { log = append(log, "start") })
	p.OnDone(func() { log = append(log, "done") })

	p.Play()
	assert.True(t, p.HasStarted())
	assert.Equal(t, []string{"start"}, log, "done waits for the queue")

	q.Flush()
	assert.Equal(t, []string{"start", "done"}, log)
	assert.Equal(t, 150.0, p.TotalTime())
}

func TestNoop_DestroyIsIdempotent(t *testing.T) {
	p := player.NewNoop(0, 0)

	var log []string
	p.OnStart(func() { log = append(log, "start") })
	p.OnDone(func() { log = append(log, "done") })
	p.OnDestroy(func() { log = append(log, "destroy") })

	p.Destroy()
	p.Destroy()
	assert.Equal(t, []string{"start", "done", "destroy"}, log)
}

func TestNoop_ResetRearmsCallbacks(t *testing.T) {
	p := player.NewNoop(10, 0)
	starts := 0
	p.OnStart(func() { starts++ })

	p.Play()
	p.Reset()
	assert.False(t, p.HasStarted())
	p.Play()
	assert.Equal(t, 2, starts)
}

func TestNoop_Position(t *testing.T) {
	p := player.NewNoop(200, 0)
	p.SetPosition(0.25)
	assert.InDelta(t, 0.25, p.Position(), 1e-9)

	zero := player.NewNoop(0, 0)
	zero.SetPosition(0.5)
	assert.Equal(t, 1.0, zero.Position())
}

func TestNoop_TriggerCallbackDrains(t *testing.T) {
	p := player.NewNoop(0, 0)
	calls := 0
	p.OnDone(func() { calls++ })

	p.TriggerCallback(domain.PhaseDone)
	p.TriggerCallback(domain.PhaseDone)
	assert.Equal(t, 1, calls)
}

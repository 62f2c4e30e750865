package worker

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countingJob(name string, ran *atomic.Int32) JobFunc {
	return JobFunc{
		JobName: name,
		Fn: func(context.Context) error {
			ran.Add(1)
			return nil
		},
	}
}

func TestStopDrainsQueuedJobs(t *testing.T) {
	pool := NewPool(1, 8)
	pool.Start(context.Background())

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		pool.Submit(countingJob("count", &ran))
	}

	// Stop must not return until every queued job has run.
	pool.Stop()
	assert.Equal(t, int32(5), ran.Load())
}

func TestTrySubmitRejectsWhenQueueFull(t *testing.T) {
	// Never started, so nothing drains the queue.
	pool := NewPool(1, 2)

	var ran atomic.Int32
	require.True(t, pool.TrySubmit(countingJob("a", &ran)))
	require.True(t, pool.TrySubmit(countingJob("b", &ran)))
	assert.False(t, pool.TrySubmit(countingJob("c", &ran)))
	assert.Equal(t, 2, pool.QueueSize())
}

func TestNewPoolDefaults(t *testing.T) {
	pool := NewPool(0, 0)
	assert.Equal(t, 2, pool.workers)
	assert.Equal(t, 64, cap(pool.jobs))
}

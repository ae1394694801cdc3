package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/code-inspector/internal/core"
)

type jobFunc func(ctx context.Context, event *core.Event) (*core.ReviewOutcome, error)

func (f jobFunc) Run(ctx context.Context, event *core.Event) (*core.ReviewOutcome, error) {
	return f(ctx, event)
}

func TestDispatcher_ReturnsJobResult(t *testing.T) {
	d := NewDispatcher(jobFunc(func(_ context.Context, e *core.Event) (*core.ReviewOutcome, error) {
		if e.PRNumber == 13 {
			return nil, core.ErrUpstream
		}
		return &core.ReviewOutcome{PRNumber: e.PRNumber, Status: core.StatusApproved}, nil
	}), 2, discardLogger())
	defer d.Stop()

	outcome, err := d.Dispatch(context.Background(), prEvent())
	require.NoError(t, err)
	assert.Equal(t, 42, outcome.PRNumber)

	event := prEvent()
	event.PRNumber = 13
	_, err = d.Dispatch(context.Background(), event)
	assert.ErrorIs(t, err, core.ErrUpstream)
}

func TestDispatcher_BoundsConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	d := NewDispatcher(jobFunc(func(context.Context, *core.Event) (*core.ReviewOutcome, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		running.Add(-1)
		return &core.ReviewOutcome{}, nil
	}), 2, discardLogger())
	defer d.Stop()

	var wg sync.WaitGroup
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := d.Dispatch(context.Background(), prEvent())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestDispatcher_JobOutlivesCaller(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	finished := make(chan error, 1)

	d := NewDispatcher(jobFunc(func(ctx context.Context, _ *core.Event) (*core.ReviewOutcome, error) {
		close(started)
		<-release
		finished <- ctx.Err()
		return &core.ReviewOutcome{}, nil
	}), 1, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := d.Dispatch(ctx, prEvent())
		errc <- err
	}()

	<-started
	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)

	close(release)
	assert.NoError(t, <-finished, "job context must not be cancelled with the caller")
	d.Stop()
}

func TestDispatcher_QueueFull(t *testing.T) {
	started := make(chan struct{}, queueSize+1)
	release := make(chan struct{})
	d := NewDispatcher(jobFunc(func(context.Context, *core.Event) (*core.ReviewOutcome, error) {
		started <- struct{}{}
		<-release
		return &core.ReviewOutcome{}, nil
	}), 1, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _, _ = d.Dispatch(ctx, prEvent()) }()
	<-started

	// the only worker is busy; fill every queue slot
	for range queueSize {
		go func() { _, _ = d.Dispatch(ctx, prEvent()) }()
	}
	require.Eventually(t, func() bool {
		return len(d.(*dispatcher).queue) == queueSize
	}, time.Second, 5*time.Millisecond)

	_, err := d.Dispatch(context.Background(), prEvent())
	assert.ErrorIs(t, err, ErrQueueFull)

	cancel()
	close(release)
	d.Stop()
}

func TestDispatcher_Stop(t *testing.T) {
	var ran atomic.Bool
	d := NewDispatcher(jobFunc(func(context.Context, *core.Event) (*core.ReviewOutcome, error) {
		ran.Store(true)
		return &core.ReviewOutcome{}, nil
	}), 0, discardLogger())

	_, err := d.Dispatch(context.Background(), prEvent())
	require.NoError(t, err)

	d.Stop()
	d.Stop()
	assert.True(t, ran.Load())

	_, err = d.Dispatch(context.Background(), prEvent())
	assert.True(t, errors.Is(err, ErrDispatcherStopped))
}

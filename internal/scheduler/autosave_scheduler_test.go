package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSaver struct {
	dirty  atomic.Bool
	saving atomic.Bool
	calls  atomic.Int32
	err    error
}

func (f *fakeSaver) Dirty() bool  { return f.dirty.Load() }
func (f *fakeSaver) Saving() bool { return f.saving.Load() }

func (f *fakeSaver) SaveDraft(ctx context.Context, silent bool) error {
	f.calls.Add(1)
	if f.err != nil {
		return f.err
	}
	f.dirty.Store(false)
	return nil
}

func TestAutoSaveScheduler_Tick(t *testing.T) {
	t.Run("saves when dirty", func(t *testing.T) {
		saver := &fakeSaver{}
		saver.dirty.Store(true)

		NewAutoSaveScheduler(saver, time.Minute).Tick()

		assert.Equal(t, int32(1), saver.calls.Load())
		assert.False(t, saver.Dirty())
	})

	t.Run("skips clean form", func(t *testing.T) {
		saver := &fakeSaver{}

		NewAutoSaveScheduler(saver, time.Minute).Tick()

		assert.Zero(t, saver.calls.Load())
	})

	t.Run("skips while a save is in flight", func(t *testing.T) {
		saver := &fakeSaver{}
		saver.dirty.Store(true)
		saver.saving.Store(true)

		NewAutoSaveScheduler(saver, time.Minute).Tick()

		assert.Zero(t, saver.calls.Load())
	})

	t.Run("swallows save errors", func(t *testing.T) {
		saver := &fakeSaver{err: errors.New("offline")}
		saver.dirty.Store(true)

		assert.NotPanics(t, NewAutoSaveScheduler(saver, time.Minute).Tick)
		assert.True(t, saver.Dirty())
	})
}

func TestAutoSaveScheduler_StartRunsOnInterval(t *testing.T) {
	saver := &fakeSaver{}
	saver.dirty.Store(true)

	s := NewAutoSaveScheduler(saver, time.Second)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return saver.calls.Load() == 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestNewAutoSaveScheduler_MinimumInterval(t *testing.T) {
	s := NewAutoSaveScheduler(&fakeSaver{}, 10*time.Millisecond)
	assert.Equal(t, time.Second, s.interval)
}

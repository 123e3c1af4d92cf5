package schedule

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
	quiet   = 50 * time.Millisecond
)

func TestScheduler_Fires(t *testing.T) {
	mock := clock.NewMock()
	s := New(mock, zaptest.NewLogger(t))

	var fired atomic.Int32
	var gotEpoch atomic.Uint64
	s.Schedule("unlock", 3*time.Second, func(epoch uint64) {
		gotEpoch.Store(epoch)
		fired.Add(1)
	})
	require.Equal(t, 1, s.Pending())

	mock.Add(2 * time.Second)
	assert.Never(t, func() bool { return fired.Load() > 0 }, quiet, tick)

	mock.Add(time.Second)
	require.Eventually(t, func() bool { return fired.Load() == 1 }, waitFor, tick)
	assert.Equal(t, uint64(0), gotEpoch.Load())
	assert.Zero(t, s.Pending())
}

func TestScheduler_Cancel(t *testing.T) {
	mock := clock.NewMock()
	s := New(mock, zaptest.NewLogger(t))

	var fired atomic.Int32
	tok := s.Schedule("counter-window", 5*time.Second, func(uint64) { fired.Add(1) })

	assert.True(t, s.Cancel(tok))
	assert.False(t, s.Cancel(tok), "second cancel is a no-op")

	mock.Add(10 * time.Second)
	assert.Never(t, func() bool { return fired.Load() > 0 }, quiet, tick)
}

func TestScheduler_AdvanceDropsPendingTimers(t *testing.T) {
	mock := clock.NewMock()
	s := New(mock, zaptest.NewLogger(t))

	var fired atomic.Int32
	s.Schedule("a", time.Second, func(uint64) { fired.Add(1) })
	s.Schedule("b", 2*time.Second, func(uint64) { fired.Add(1) })

	epoch := s.Advance()
	assert.Equal(t, uint64(1), epoch)
	assert.Equal(t, uint64(1), s.Epoch())
	assert.Zero(t, s.Pending())

	mock.Add(5 * time.Second)
	assert.Never(t, func() bool { return fired.Load() > 0 }, quiet, tick)
}

func TestScheduler_StaleFireIsDropped(t *testing.T) {
	s := New(clock.NewMock(), zaptest.NewLogger(t))

	tok := Token{ID: 42, Epoch: 0, Name: "ghost"}
	called := false
	s.fire(tok, func(uint64) { called = true })
	assert.False(t, called, "unknown token")

	s.mu.Lock()
	s.timers[7] = &entry{name: "old", epoch: 0}
	s.epoch = 3
	s.mu.Unlock()

	s.fire(Token{ID: 7, Name: "old"}, func(uint64) { called = true })
	assert.False(t, called, "epoch moved on")
	assert.Zero(t, s.Pending())
}

func TestScheduler_NewEpochSchedulesAgain(t *testing.T) {
	mock := clock.NewMock()
	s := New(mock, nil)
	s.Advance()

	var gotEpoch atomic.Uint64
	s.Schedule("reverse", time.Second, func(epoch uint64) { gotEpoch.Store(epoch + 100) })
	mock.Add(time.Second)

	require.Eventually(t, func() bool { return gotEpoch.Load() == 101 }, waitFor, tick)
}

func TestScheduler_DefaultsToWallClock(t *testing.T) {
	s := New(nil, nil)
	require.NotNil(t, s.Clock())

	done := make(chan uint64, 1)
	s.Schedule("wall", time.Millisecond, func(epoch uint64) { done <- epoch })

	select {
	case epoch := <-done:
		assert.Zero(t, epoch)
	case <-time.After(waitFor):
		t.Fatal("timer did not fire on the wall clock")
	}
}

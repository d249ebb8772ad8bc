package scheduler_test

import (
	"sync/atomic"
	"testing"
	"time"

	"campus-portal/internal/scheduler"

	"github.com/stretchr/testify/assert"
)

func TestSchedule_Fires(t *testing.T) {
	s := scheduler.New()
	defer s.Stop()

	var fired atomic.Int32
	assert.True(t, s.Schedule("a", 10*time.Millisecond, func() { fired.Add(1) }))
	assert.True(t, s.Pending("a"))

	assert.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.False(t, s.Pending("a"))
}

func TestCancel_PreventsRun(t *testing.T) {
	s := scheduler.New()
	defer s.Stop()

	var fired atomic.Int32
	s.Schedule("a", 30*time.Millisecond, func() { fired.Add(1) })

	assert.True(t, s.Cancel("a"))
	assert.False(t, s.Cancel("a"))

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestSchedule_ReplacesSameKey(t *testing.T) {
	s := scheduler.New()
	defer s.Stop()

	var first, second atomic.Int32
	s.Schedule("a", 20*time.Millisecond, func() { first.Add(1) })
	s.Schedule("a", 20*time.Millisecond, func() { second.Add(1) })

	assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), first.Load())
	assert.Equal(t, 0, s.Len())
}

func TestStop_CancelsPendingAndRefusesNew(t *testing.T) {
	s := scheduler.New()

	var fired atomic.Int32
	s.Schedule("a", 50*time.Millisecond, func() { fired.Add(1) })
	s.Schedule("b", 50*time.Millisecond, func() { fired.Add(1) })

	s.Stop()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Schedule("c", time.Millisecond, func() { fired.Add(1) }))

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

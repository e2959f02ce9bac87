package main

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	var calls atomic.Int32
	fired := make(chan string, 4)
	d := newDebouncer(50*time.Millisecond, func(path string) {
		calls.Add(1)
		fired <- path
	})

	for i := 0; i < 5; i++ {
		d.trigger("a.logo")
		time.Sleep(5 * time.Millisecond)
	}
	d.trigger("b.logo")

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case p := <-fired:
			got[p] = true
		case <-time.After(2 * time.Second):
			t.Fatal("debounced callback did not run")
		}
	}
	require.Equal(t, map[string]bool{"a.logo": true, "b.logo": true}, got)

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, int32(2), calls.Load())
}

func TestDebouncerStop(t *testing.T) {
	var calls atomic.Int32
	d := newDebouncer(30*time.Millisecond, func(string) { calls.Add(1) })
	d.trigger("a.logo")
	d.stop()
	time.Sleep(100 * time.Millisecond)
	require.Zero(t, calls.Load())
}

// A timer that expired just before a new trigger must neither run fn nor
// drop the newer timer
func TestDebouncerIgnoresSupersededTimer(t *testing.T) {
	var calls atomic.Int32
	d := newDebouncer(time.Hour, func(string) { calls.Add(1) })
	defer d.stop()

	d.trigger("a.logo")
	old := d.timers["a.logo"]
	d.trigger("a.logo")
	current := d.timers["a.logo"]
	require.NotSame(t, old, current)

	d.fire("a.logo", old)
	require.Zero(t, calls.Load())
	require.Same(t, current, d.timers["a.logo"])

	d.fire("a.logo", current)
	require.Equal(t, int32(1), calls.Load())
	require.Empty(t, d.timers)
}

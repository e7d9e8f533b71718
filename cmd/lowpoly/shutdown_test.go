package main

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestClosesWindowAndWaitsForTeardown(t *testing.T) {
	sd := newShutdown()
	var closes atomic.Int32
	sd.Attach(func() { closes.Add(1) })

	returned := make(chan struct{})
	go func() {
		sd.Request()
		close(returned)
	}()

	require.Eventually(t, func() bool { return closes.Load() == 1 }, time.Second, time.Millisecond)
	assert.True(t, sd.Requested())

	select {
	case <-returned:
		t.Fatal("Request returned before teardown finished")
	case <-time.After(50 * time.Millisecond):
	}

	sd.Detach()
	sd.Finish()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Request still blocked after Finish")
	}
	assert.Equal(t, int32(1), closes.Load())
}

func TestRequestAfterDetachLeavesWindowAlone(t *testing.T) {
	sd := newShutdown()
	called := false
	sd.Attach(func() { called = true })
	sd.Detach()
	sd.Finish()

	sd.Request()
	assert.False(t, called)
	assert.True(t, sd.Requested())
}

func TestEarlyRequestAppliesOnAttach(t *testing.T) {
	sd := newShutdown()
	go sd.Request()
	require.Eventually(t, sd.Requested, time.Second, time.Millisecond)

	called := false
	sd.Attach(func() { called = true })
	assert.True(t, called)
	sd.Finish()
}

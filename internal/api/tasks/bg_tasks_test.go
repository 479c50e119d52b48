package tasks

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	bgTasks := New(slog.Default(), 3, 10)
	bgTasks.Run()
	var runned atomic.Int32
	for i := 0; i < 5; i++ {
		bgTasks.Add(func() { runned.Add(1) })
	}
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.Equal(t, int32(5), runned.Load())
	assert.True(t, bgTasks.IsEmpty())
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	bgTasks := New(slog.Default(), 1, 10)
	bgTasks.Run()
	taskRunned := false
	bgTasks.Add(func() { panic("boom") })
	bgTasks.Add(func() { taskRunned = true })
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.True(t, taskRunned)
}

func TestAddAfterShutdown(t *testing.T) {
	bgTasks := New(slog.Default(), 1, 1)
	bgTasks.Run()
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	taskRunned := false
	bgTasks.Add(func() { taskRunned = true })
	assert.False(t, taskRunned)
	require.NoError(t, bgTasks.Shutdown(context.Background()))
}

func TestShutdownTimeout(t *testing.T) {
	bgTasks := New(slog.Default(), 1, 1)
	bgTasks.Run()
	release := make(chan struct{})
	bgTasks.Add(func() { <-release })
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bgTasks.Shutdown(ctx), context.DeadlineExceeded)
	close(release)
}

func TestShutdownWithBlockedAdd(t *testing.T) {
	bgTasks := New(slog.Default(), 1, 1)
	bgTasks.Run()
	release := make(chan struct{})
	started := make(chan struct{})
	bgTasks.Add(func() {
		close(started)
		<-release
	})
	<-started
	bgTasks.Add(func() {})

	var dropped atomic.Bool
	addReturned := make(chan struct{})
	go func() {
		defer close(addReturned)
		bgTasks.Add(func() { dropped.Store(true) })
	}()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	assert.ErrorIs(t, bgTasks.Shutdown(ctx), context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)

	select {
	case <-addReturned:
	case <-time.After(time.Second):
		t.Fatal("Add stayed blocked after Shutdown")
	}
	close(release)
	require.NoError(t, bgTasks.Shutdown(context.Background()))
	assert.False(t, dropped.Load())
}

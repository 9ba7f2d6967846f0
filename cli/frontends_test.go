package cli

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRotateLogs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var rotations atomic.Int32

	done := make(chan struct{})
	go func() {
		defer close(done)
		rotateLogs(ctx, 5*time.Millisecond, func() { rotations.Add(1) })
	}()

	assert.Eventually(t, func() bool { return rotations.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("rotateLogs did not stop with the context")
	}
}

package iqueue

import (
	"testing"
	"time"
)

func TestQueueOrdering(t *testing.T) {
	q := New()
	go q.Loop()

	for i := 0; i < 100; i++ {
		q.Send(i)
	}
	for i := 0; i < 100; i++ {
		select {
		case v := <-q.Receive():
			if v.(int) != i {
				t.Fatalf("receiving from queue, got: %v, expected: %v", v, i)
			}
		case <-time.After(time.Second):
			t.Fatalf("receiving from queue, timed out waiting for value %d", i)
		}
	}
}

func TestQueueSendNeverBlocks(t *testing.T) {
	q := New()
	go q.Loop()

	done := make(chan struct{})
	go func() {
		// nothing reads the receive side here
		for i := 0; i < 1000; i++ {
			q.Send(i)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("sending with no consumer blocked")
	}
}

package rworker

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestJobRateLimit(t *testing.T) {
	var wg sync.WaitGroup
	rateCh := make(chan struct{}, 2)
	errCh := make(chan error, 1)

	var running, peak int32
	for i := 0; i < 20; i++ {
		Job(&wg, func() error {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			atomic.AddInt32(&running, -1)
			return nil
		}, rateCh, errCh)
	}
	wg.Wait()

	if p := atomic.LoadInt32(&peak); p > 2 {
		t.Errorf("running rate-limited jobs, peak concurrency got: %v, expected at most: 2", p)
	}
}

func TestJobReportsFirstError(t *testing.T) {
	var wg sync.WaitGroup
	rateCh := make(chan struct{}, 4)
	errCh := make(chan error, 1)

	for i := 0; i < 10; i++ {
		Job(&wg, func() error {
			return errors.New("job failed")
		}, rateCh, errCh)
	}
	wg.Wait()

	select {
	case err := <-errCh:
		if err == nil {
			t.Errorf("collecting job errors, got: nil, expected an error")
		}
	default:
		t.Errorf("collecting job errors, none delivered")
	}
}

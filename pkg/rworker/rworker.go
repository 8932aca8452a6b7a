// Package rworker runs fire-and-forget jobs on goroutines bounded by a
// shared rate channel.
package rworker

import "sync"

// Job starts fn once a slot in rate frees up. Errors are reported to
// errCh on a best-effort basis: when the channel is full they are
// dropped rather than blocking the worker.
func Job(wg *sync.WaitGroup, fn func() error, rate chan struct{}, errCh chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		rate <- struct{}{}
		defer func() { <-rate }()
		if err := fn(); err != nil {
			select {
			case errCh <- err:
			default:
			}
		}
	}()
}

// Package iqueue is an unbounded in-memory queue bridging a producer
// channel and a consumer channel, so senders never block on a slow
// consumer.
package iqueue

import (
	"container/list"
)

func New() *Queue {
	return &Queue{
		pending: list.New(),
		send:    make(chan interface{}, 1),
		recv:    make(chan interface{}, 1),
	}
}

type Queue struct {
	pending *list.List
	send    chan interface{}
	recv    chan interface{}
}

func (q *Queue) Send(v interface{}) {
	q.send <- v
}

func (q *Queue) Receive() <-chan interface{} {
	return q.recv
}

func (q *Queue) Len() int {
	return q.pending.Len()
}

// Loop shuttles values from the send side to the receive side in FIFO
// order, buffering in between. It runs for the life of the process; the
// owning goroutine is simply abandoned at shutdown.
func (q *Queue) Loop() {
	for {
		front := q.pending.Front()
		if front == nil {
			q.pending.PushBack(<-q.send)
			continue
		}
		select {
		case q.recv <- front.Value:
			q.pending.Remove(front)
		case v := <-q.send:
			q.pending.PushBack(v)
		}
	}
}

package util

import (
	"bytes"
	"sync"
)

var bytesBuffer = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

// GetBytesBuffer hands out a pooled buffer. Return it with
// PutBytesBuffer when done.
func GetBytesBuffer() *bytes.Buffer {
	return bytesBuffer.Get().(*bytes.Buffer)
}

// PutBytesBuffer resets the buffer and returns it to the pool.
func PutBytesBuffer(p *bytes.Buffer) {
	p.Reset()
	bytesBuffer.Put(p)
}

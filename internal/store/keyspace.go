package store

import (
	"io"
	"sync"

	"github.com/gatogato999/ordstore/pkg/container/avltree"
)

// Pair is one key/value produced by a scan or min/max lookup.
type Pair struct {
	Key   string `json:"key"`
	Value []byte `json:"value"`
}

// keyspace wraps one ordered tree behind a rwmutex. The tree itself is
// single-writer; every access goes through these methods while holding
// the appropriate lock, and no iterator ever escapes the lock.
type keyspace struct {
	mtx  sync.RWMutex
	tree *avltree.Tree[string, []byte]
}

func newKeyspace() *keyspace {
	return &keyspace{tree: avltree.New[string, []byte](avltree.Ordered[string])}
}

func (ks *keyspace) set(key string, value []byte) (prev []byte, replaced bool) {
	ks.mtx.Lock()
	defer ks.mtx.Unlock()
	return ks.tree.Insert(key, value)
}

func (ks *keyspace) get(key string) ([]byte, bool) {
	ks.mtx.RLock()
	defer ks.mtx.RUnlock()
	return ks.tree.Find(key)
}

func (ks *keyspace) delete(key string) ([]byte, bool) {
	ks.mtx.Lock()
	defer ks.mtx.Unlock()
	return ks.tree.Delete(key)
}

// scan collects up to limit pairs with key >= from, copying them out
// under the read lock so the iterator never outlives it.
func (ks *keyspace) scan(from string, limit int) []Pair {
	ks.mtx.RLock()
	defer ks.mtx.RUnlock()
	pairs := make([]Pair, 0, limit)
	it := ks.tree.IterFrom(from)
	for len(pairs) < limit {
		k, v, ok := it.Next()
		if !ok {
			break
		}
		pairs = append(pairs, Pair{Key: k, Value: v})
	}
	return pairs
}

func (ks *keyspace) min() (Pair, bool) {
	ks.mtx.RLock()
	defer ks.mtx.RUnlock()
	k, v, ok := ks.tree.Min()
	return Pair{Key: k, Value: v}, ok
}

func (ks *keyspace) max() (Pair, bool) {
	ks.mtx.RLock()
	defer ks.mtx.RUnlock()
	k, v, ok := ks.tree.Max()
	return Pair{Key: k, Value: v}, ok
}

func (ks *keyspace) count() int {
	ks.mtx.RLock()
	defer ks.mtx.RUnlock()
	return ks.tree.Len()
}

func (ks *keyspace) height() int {
	ks.mtx.RLock()
	defer ks.mtx.RUnlock()
	return ks.tree.Height()
}

func (ks *keyspace) dump(w io.Writer) {
	ks.mtx.RLock()
	defer ks.mtx.RUnlock()
	ks.tree.Dump(w)
}

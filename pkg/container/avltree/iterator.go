package avltree

// Iterator yields pairs in ascending key order. It keeps the pending path
// on an explicit stack, never deeper than the tree height. An iterator is
// invalidated by any Insert, Delete or Clear on its tree; using it after
// that is a caller error and the results are undefined.
type Iterator[K, V any] struct {
	stack []*node[K, V]
}

// Iter returns an iterator positioned before the smallest key.
func (t *Tree[K, V]) Iter() *Iterator[K, V] {
	it := &Iterator[K, V]{stack: make([]*node[K, V], 0, t.Height())}
	it.pushLeftSpine(t.root)
	return it
}

// IterFrom returns an iterator positioned before the first key >= from.
// Subtrees strictly below from are pruned during the descent.
func (t *Tree[K, V]) IterFrom(from K) *Iterator[K, V] {
	it := &Iterator[K, V]{stack: make([]*node[K, V], 0, t.Height())}
	n := t.root
	for n != nil {
		if t.cmp(n.key, from) >= 0 {
			it.stack = append(it.stack, n)
			n = n.left
		} else {
			n = n.right
		}
	}
	return it
}

// Next returns the next pair, false once the sequence is exhausted.
func (it *Iterator[K, V]) Next() (K, V, bool) {
	if len(it.stack) == 0 {
		var k K
		var v V
		return k, v, false
	}
	n := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	it.pushLeftSpine(n.right)
	return n.key, n.value, true
}

func (it *Iterator[K, V]) pushLeftSpine(n *node[K, V]) {
	for n != nil {
		it.stack = append(it.stack, n)
		n = n.left
	}
}

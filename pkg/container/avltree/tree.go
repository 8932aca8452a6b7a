// Package avltree implements a self-balancing (AVL) ordered map.
//
// Keys are unique under the comparator supplied at construction; inserting
// an existing key overwrites its value in place. All operations are
// worst-case O(log n). A tree is not safe for concurrent mutation, guard it
// with a mutex or rwmutex when shared between goroutines.
package avltree

// CompareFn orders keys: negative if a < b, zero if equal, positive if a > b.
// It must be a strict total order over every key stored in the tree.
type CompareFn[K any] func(a, b K) int

// RangeFn receives pairs during Range; returning false stops the walk.
type RangeFn[K, V any] func(key K, value V) bool

func New[K, V any](cmp CompareFn[K]) *Tree[K, V] {
	return &Tree[K, V]{cmp: cmp}
}

type Tree[K, V any] struct {
	root *node[K, V]
	cmp  CompareFn[K]
	len  int
}

// Len returns the number of keys currently stored.
func (t *Tree[K, V]) Len() int {
	return t.len
}

func (t *Tree[K, V]) IsEmpty() bool {
	return t.root == nil
}

// Height of the whole tree, 0 when empty.
func (t *Tree[K, V]) Height() int {
	return t.root.subHeight()
}

// Clear drops every node and resets the tree to empty.
func (t *Tree[K, V]) Clear() {
	t.root = nil
	t.len = 0
}

// Find returns the value stored under key, or the zero value and false when
// the key is absent.
func (t *Tree[K, V]) Find(key K) (V, bool) {
	n := t.root
	for n != nil {
		c := t.cmp(key, n.key)
		switch {
		case c < 0:
			n = n.left
		case c > 0:
			n = n.right
		default:
			return n.value, true
		}
	}
	var zero V
	return zero, false
}

func (t *Tree[K, V]) Contains(key K) bool {
	_, ok := t.Find(key)
	return ok
}

// Min returns the smallest key and its value, false when the tree is empty.
func (t *Tree[K, V]) Min() (K, V, bool) {
	if n := t.root.first(); n != nil {
		return n.key, n.value, true
	}
	var k K
	var v V
	return k, v, false
}

// Max returns the largest key and its value, false when the tree is empty.
func (t *Tree[K, V]) Max() (K, V, bool) {
	if n := t.root.last(); n != nil {
		return n.key, n.value, true
	}
	var k K
	var v V
	return k, v, false
}

// Range walks the tree in ascending key order calling fn for every pair
// until fn returns false. The tree must not be mutated from inside fn.
func (t *Tree[K, V]) Range(fn RangeFn[K, V]) {
	t.root.walk(fn)
}

func (n *node[K, V]) walk(fn RangeFn[K, V]) bool {
	if n == nil {
		return true
	}
	if !n.left.walk(fn) {
		return false
	}
	if !fn(n.key, n.value) {
		return false
	}
	return n.right.walk(fn)
}

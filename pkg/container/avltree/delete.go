package avltree

// Delete removes key from the tree, returning the removed value. A miss
// returns the zero value and false and leaves the tree untouched. Unlike
// insertion a single delete can require a rotation at every ancestor of
// the removed node, so the unwind rebalances all the way to the root.
func (t *Tree[K, V]) Delete(key K) (removed V, ok bool) {
	t.root, removed, ok = t.delete(t.root, key)
	if ok {
		t.len--
	}
	return removed, ok
}

func (t *Tree[K, V]) delete(n *node[K, V], key K) (*node[K, V], V, bool) {
	if n == nil {
		var zero V
		return nil, zero, false
	}

	var removed V
	var ok bool
	switch c := t.cmp(key, n.key); {
	case c < 0:
		n.left, removed, ok = t.delete(n.left, key)
	case c > 0:
		n.right, removed, ok = t.delete(n.right, key)
	default:
		removed, ok = n.value, true
		switch {
		case n.left == nil:
			return n.right, removed, ok
		case n.right == nil:
			return n.left, removed, ok
		default:
			// two children: copy the in-order successor here, then
			// delete the successor from the right subtree where it is
			// a leaf or has only a right child
			succ := n.right.first()
			n.key = succ.key
			n.value = succ.value
			n.right, _, _ = t.delete(n.right, succ.key)
		}
	}
	if !ok {
		return n, removed, ok
	}
	return rebalance(n), removed, ok
}

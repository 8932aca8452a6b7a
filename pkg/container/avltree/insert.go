package avltree

// Insert stores value under key. When the key already exists its value is
// overwritten in place and the previous value is returned with replaced
// true; the tree shape does not change in that case.
func (t *Tree[K, V]) Insert(key K, value V) (prev V, replaced bool) {
	t.root, prev, replaced = t.insert(t.root, key, value)
	if !replaced {
		t.len++
	}
	return prev, replaced
}

func (t *Tree[K, V]) insert(n *node[K, V], key K, value V) (*node[K, V], V, bool) {
	if n == nil {
		var zero V
		return &node[K, V]{key: key, value: value, height: 1}, zero, false
	}

	var prev V
	var replaced bool
	switch c := t.cmp(key, n.key); {
	case c < 0:
		n.left, prev, replaced = t.insert(n.left, key, value)
	case c > 0:
		n.right, prev, replaced = t.insert(n.right, key, value)
	default:
		prev, replaced = n.value, true
		n.value = value
		return n, prev, replaced
	}
	return rebalance(n), prev, replaced
}

package avltree

type node[K, V any] struct {
	key    K
	value  V
	left   *node[K, V]
	right  *node[K, V]
	height int
}

// height of a possibly nil subtree, nil counts as 0 so a leaf is 1
func (n *node[K, V]) subHeight() int {
	if n == nil {
		return 0
	}
	return n.height
}

// left height minus right height
func (n *node[K, V]) balance() int {
	return n.left.subHeight() - n.right.subHeight()
}

func (n *node[K, V]) recomputeHeight() {
	lh, rh := n.left.subHeight(), n.right.subHeight()
	if lh > rh {
		n.height = lh + 1
	} else {
		n.height = rh + 1
	}
}

// leftmost node of a subtree
func (n *node[K, V]) first() *node[K, V] {
	if n == nil {
		return nil
	}
	for n.left != nil {
		n = n.left
	}
	return n
}

// rightmost node of a subtree
func (n *node[K, V]) last() *node[K, V] {
	if n == nil {
		return nil
	}
	for n.right != nil {
		n = n.right
	}
	return n
}

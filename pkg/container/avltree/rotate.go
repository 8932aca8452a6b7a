package avltree

// rotateLeft lifts the right child into n's position. Heights are
// recomputed for n first, the new root's height depends on it.
func rotateLeft[K, V any](n *node[K, V]) *node[K, V] {
	root := n.right
	n.right = root.left
	root.left = n
	n.recomputeHeight()
	root.recomputeHeight()
	return root
}

// rotateRight is the mirror of rotateLeft.
func rotateRight[K, V any](n *node[K, V]) *node[K, V] {
	root := n.left
	n.left = root.right
	root.right = n
	n.recomputeHeight()
	root.recomputeHeight()
	return root
}

// rebalance refreshes n's height and restores the AVL invariant at n,
// returning the subtree root after at most one single or double rotation.
// A heavier child with balance 0 only occurs on the delete path and takes
// the single-rotation case.
func rebalance[K, V any](n *node[K, V]) *node[K, V] {
	n.recomputeHeight()
	switch b := n.balance(); {
	case b > 1:
		if n.left.balance() < 0 {
			// LR: left child is right-heavy
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case b < -1:
		if n.right.balance() > 0 {
			// RL: right child is left-heavy
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	default:
		return n
	}
}

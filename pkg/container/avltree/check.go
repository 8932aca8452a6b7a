package avltree

import (
	"fmt"
)

// Verify walks the whole tree checking the structural invariants: strict
// key ordering, recorded heights matching the real subtree heights, every
// balance factor within [-1, 1] and the stored length matching the node
// count. It is O(n) and meant for tests and debug endpoints only; any
// error it returns indicates a bug in this package, not bad caller input.
func (t *Tree[K, V]) Verify() error {
	count, _, err := t.verify(t.root, nil, nil)
	if err != nil {
		return err
	}
	if count != t.len {
		return fmt.Errorf("avltree: len %d but %d nodes reachable", t.len, count)
	}
	return nil
}

func (t *Tree[K, V]) verify(n *node[K, V], lo, hi *K) (count, height int, err error) {
	if n == nil {
		return 0, 0, nil
	}
	if lo != nil && t.cmp(n.key, *lo) <= 0 {
		return 0, 0, fmt.Errorf("avltree: key %v out of order, not above %v", n.key, *lo)
	}
	if hi != nil && t.cmp(n.key, *hi) >= 0 {
		return 0, 0, fmt.Errorf("avltree: key %v out of order, not below %v", n.key, *hi)
	}

	lc, lh, err := t.verify(n.left, lo, &n.key)
	if err != nil {
		return 0, 0, err
	}
	rc, rh, err := t.verify(n.right, &n.key, hi)
	if err != nil {
		return 0, 0, err
	}

	height = lh + 1
	if rh > lh {
		height = rh + 1
	}
	if n.height != height {
		return 0, 0, fmt.Errorf("avltree: node %v height %d, expected %d", n.key, n.height, height)
	}
	if b := lh - rh; b < -1 || b > 1 {
		return 0, 0, fmt.Errorf("avltree: node %v balance factor %d", n.key, b)
	}
	return lc + rc + 1, height, nil
}

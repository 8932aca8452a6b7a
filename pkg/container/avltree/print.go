package avltree

import (
	"fmt"
	"io"
)

type branch int

const (
	atRoot branch = iota
	atLeft
	atRight
)

// Dump writes an ASCII rendering of the tree shape, right subtree on top,
// one node per line with its height and balance factor. Debug helper only.
func (t *Tree[K, V]) Dump(w io.Writer) {
	if t.root == nil {
		fmt.Fprintln(w, "(empty)")
		return
	}
	dump(w, t.root, "", atRoot)
}

func dump[K, V any](w io.Writer, n *node[K, V], prefix string, br branch) {
	if n == nil {
		return
	}
	if n.right != nil {
		pad := "       "
		if br == atLeft {
			pad = "|      "
		}
		dump(w, n.right, prefix+pad, atRight)
	}
	switch br {
	case atRoot:
		fmt.Fprintf(w, "%s|------+ ", prefix)
	case atLeft:
		fmt.Fprintf(w, "%s\\------+ ", prefix)
	case atRight:
		fmt.Fprintf(w, "%s/------+ ", prefix)
	}
	fmt.Fprintf(w, "%v h=%d b=%+d\n", n.key, n.height, n.balance())
	if n.left != nil {
		pad := "       "
		if br == atRight {
			pad = "|      "
		}
		dump(w, n.left, prefix+pad, atLeft)
	}
}

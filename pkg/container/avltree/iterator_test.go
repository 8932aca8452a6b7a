package avltree_test

import (
	"strconv"
	"testing"

	"github.com/gatogato999/ordstore/pkg/container/avltree"
)

func TestIterAscending(t *testing.T) {
	tree := buildTree(t, 5, 3, 8, 1, 4, 7, 9)

	it := tree.Iter()
	var keys []int
	for {
		k, v, ok := it.Next()
		if !ok {
			break
		}
		if want := "v" + strconv.Itoa(k); v != want {
			t.Errorf("key %d carries value %q, want %q", k, v, want)
		}
		keys = append(keys, k)
	}

	want := []int{1, 3, 4, 5, 7, 8, 9}
	if len(keys) != len(want) {
		t.Fatalf("iterator yielded %d keys, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("iterator order %v, want %v", keys, want)
		}
	}
	// exhausted iterator keeps reporting done
	if _, _, ok := it.Next(); ok {
		t.Error("exhausted iterator produced another pair")
	}
}

func TestIterEmpty(t *testing.T) {
	tree := avltree.New[int, string](avltree.Ordered[int])
	if _, _, ok := tree.Iter().Next(); ok {
		t.Error("iterator over empty tree produced a pair")
	}
}

func TestIterFrom(t *testing.T) {
	tree := buildTree(t, 10, 20, 30, 40, 50, 60, 70)

	tests := []struct {
		name string
		from int
		want []int
	}{
		{name: "exact_match", from: 30, want: []int{30, 40, 50, 60, 70}},
		{name: "between_keys", from: 35, want: []int{40, 50, 60, 70}},
		{name: "below_min", from: 1, want: []int{10, 20, 30, 40, 50, 60, 70}},
		{name: "at_max", from: 70, want: []int{70}},
		{name: "above_max", from: 71, want: nil},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			it := tree.IterFrom(test.from)
			var got []int
			for {
				k, _, ok := it.Next()
				if !ok {
					break
				}
				got = append(got, k)
			}
			if len(got) != len(test.want) {
				t.Fatalf("got %v, want %v", got, test.want)
			}
			for i := range test.want {
				if got[i] != test.want[i] {
					t.Fatalf("got %v, want %v", got, test.want)
				}
			}
		})
	}
}

// the iterator count must agree with Len at any tree size
func TestIterCountMatchesLen(t *testing.T) {
	tree := avltree.New[int, string](avltree.Ordered[int])
	for n := 0; n < 64; n++ {
		count := 0
		it := tree.Iter()
		for {
			if _, _, ok := it.Next(); !ok {
				break
			}
			count++
		}
		if count != tree.Len() {
			t.Fatalf("iterated %d pairs, len %d", count, tree.Len())
		}
		tree.Insert(n*7919%64, "")
	}
}

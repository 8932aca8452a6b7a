package avltree_test

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/gatogato999/ordstore/pkg/container/avltree"
)

func collect(t *testing.T, tree *avltree.Tree[int, string]) []int {
	t.Helper()
	var keys []int
	tree.Range(func(k int, _ string) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

func mustVerify(t *testing.T, tree *avltree.Tree[int, string]) {
	t.Helper()
	if err := tree.Verify(); err != nil {
		t.Fatalf("invariant check failed: %v", err)
	}
}

func buildTree(t *testing.T, keys ...int) *avltree.Tree[int, string] {
	t.Helper()
	tree := avltree.New[int, string](avltree.Ordered[int])
	for _, k := range keys {
		tree.Insert(k, fmt.Sprintf("v%d", k))
		mustVerify(t, tree)
	}
	return tree
}

func TestInsertOrdering(t *testing.T) {
	tree := buildTree(t, 5, 3, 8, 1, 4, 7, 9)

	got := collect(t, tree)
	want := []int{1, 3, 4, 5, 7, 8, 9}
	if len(got) != len(want) {
		t.Fatalf("traversal length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("traversal %v, want %v", got, want)
		}
	}
	if h := tree.Height(); h > 3 {
		t.Errorf("height %d, want <= 3", h)
	}
}

// ascending inserts are the worst case for an unbalanced bst; the
// rebalancing must keep the height logarithmic
func TestInsertAscending(t *testing.T) {
	tree := buildTree(t, 1, 2, 3, 4, 5, 6, 7)
	if h := tree.Height(); h > 3 {
		t.Errorf("height %d after ascending 1..7, want <= 3", h)
	}
	if tree.Len() != 7 {
		t.Errorf("len %d, want 7", tree.Len())
	}
}

func TestInsertReplace(t *testing.T) {
	tree := avltree.New[int, string](avltree.Ordered[int])

	prev, replaced := tree.Insert(42, "first")
	if replaced {
		t.Fatalf("fresh insert reported replaced, prev %q", prev)
	}
	prev, replaced = tree.Insert(42, "second")
	if !replaced || prev != "first" {
		t.Fatalf("re-insert got (%q, %v), want (first, true)", prev, replaced)
	}
	if v, _ := tree.Find(42); v != "second" {
		t.Errorf("find after overwrite got %q, want second", v)
	}
	if tree.Len() != 1 {
		t.Errorf("len %d after overwrite, want 1", tree.Len())
	}
	mustVerify(t, tree)
}

func TestDeleteTwoChildren(t *testing.T) {
	tree := buildTree(t, 1, 2, 3, 4, 5, 6, 7)

	removed, ok := tree.Delete(4)
	if !ok || removed != "v4" {
		t.Fatalf("delete got (%q, %v), want (v4, true)", removed, ok)
	}
	mustVerify(t, tree)

	got := collect(t, tree)
	want := []int{1, 2, 3, 5, 6, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("traversal after delete %v, want %v", got, want)
		}
	}
}

func TestDeleteAll(t *testing.T) {
	keys := []int{8, 4, 12, 2, 6, 10, 14, 1, 3, 5, 7, 9, 11, 13, 15}
	tree := buildTree(t, keys...)

	for i, k := range keys {
		removed, ok := tree.Delete(k)
		if !ok || removed != fmt.Sprintf("v%d", k) {
			t.Fatalf("delete %d got (%q, %v)", k, removed, ok)
		}
		mustVerify(t, tree)
		if tree.Len() != len(keys)-i-1 {
			t.Fatalf("len %d after %d deletes", tree.Len(), i+1)
		}
	}
	if !tree.IsEmpty() {
		t.Error("tree not empty after deleting every key")
	}
}

func TestDeleteMissing(t *testing.T) {
	tree := buildTree(t, 2, 1, 3)
	before := collect(t, tree)

	if _, ok := tree.Delete(99); ok {
		t.Fatal("delete of a never-inserted key reported success")
	}
	if tree.Len() != 3 {
		t.Errorf("len changed to %d by a failed delete", tree.Len())
	}
	after := collect(t, tree)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("order changed by a failed delete: %v vs %v", before, after)
		}
	}
	mustVerify(t, tree)
}

func TestEmptyTree(t *testing.T) {
	tree := avltree.New[int, string](avltree.Ordered[int])

	if _, ok := tree.Find(1); ok {
		t.Error("find on empty tree reported a hit")
	}
	if _, ok := tree.Delete(1); ok {
		t.Error("delete on empty tree reported success")
	}
	if _, _, ok := tree.Min(); ok {
		t.Error("min on empty tree reported a value")
	}
	if _, _, ok := tree.Max(); ok {
		t.Error("max on empty tree reported a value")
	}
	if !tree.IsEmpty() || tree.Len() != 0 || tree.Height() != 0 {
		t.Error("empty tree reports non-empty state")
	}
}

func TestMinMax(t *testing.T) {
	tree := buildTree(t, 5, 3, 8, 1, 4, 7, 9)

	k, v, ok := tree.Min()
	if !ok || k != 1 || v != "v1" {
		t.Errorf("min got (%d, %q, %v)", k, v, ok)
	}
	k, v, ok = tree.Max()
	if !ok || k != 9 || v != "v9" {
		t.Errorf("max got (%d, %q, %v)", k, v, ok)
	}
}

func TestClear(t *testing.T) {
	tree := buildTree(t, 1, 2, 3)
	tree.Clear()
	if !tree.IsEmpty() || tree.Len() != 0 {
		t.Error("clear left state behind")
	}
	tree.Insert(10, "v10")
	mustVerify(t, tree)
	if tree.Len() != 1 {
		t.Error("tree unusable after clear")
	}
}

func TestHeightBound(t *testing.T) {
	tree := avltree.New[int, string](avltree.Ordered[int])
	const n = 4096
	for i := 0; i < n; i++ {
		tree.Insert(i, "")
	}
	limit := 1.45 * math.Log2(float64(n+1))
	if h := float64(tree.Height()); h > limit {
		t.Errorf("height %.0f for %d ascending keys, AVL bound %.2f", h, n, limit)
	}
	mustVerify(t, tree)
}

// random churn: interleaved inserts and deletes with the invariants
// checked after every single mutation, mirrored against a plain map
func TestRandomChurn(t *testing.T) {
	rng := rand.New(rand.NewSource(0x5eed))
	tree := avltree.New[int, string](avltree.Ordered[int])
	shadow := make(map[int]string)

	for op := 0; op < 5000; op++ {
		k := rng.Intn(500)
		if rng.Intn(3) == 0 {
			removed, ok := tree.Delete(k)
			want, present := shadow[k]
			if ok != present || (ok && removed != want) {
				t.Fatalf("op %d: delete %d got (%q, %v), shadow (%q, %v)", op, k, removed, ok, want, present)
			}
			delete(shadow, k)
		} else {
			v := fmt.Sprintf("v%d.%d", k, op)
			prev, replaced := tree.Insert(k, v)
			want, present := shadow[k]
			if replaced != present || (replaced && prev != want) {
				t.Fatalf("op %d: insert %d got (%q, %v), shadow (%q, %v)", op, k, prev, replaced, want, present)
			}
			shadow[k] = v
		}

		if err := tree.Verify(); err != nil {
			t.Fatalf("op %d: %v", op, err)
		}
		if tree.Len() != len(shadow) {
			t.Fatalf("op %d: len %d, shadow %d", op, tree.Len(), len(shadow))
		}
	}

	// final sweep: ordered traversal matches the sorted shadow keys
	want := make([]int, 0, len(shadow))
	for k := range shadow {
		want = append(want, k)
	}
	sort.Ints(want)
	got := collect(t, tree)
	if len(got) != len(want) {
		t.Fatalf("traversal length %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("traversal diverges at %d: %d vs %d", i, got[i], want[i])
		}
	}
}

func TestRangeEarlyStop(t *testing.T) {
	tree := buildTree(t, 1, 2, 3, 4, 5)
	var seen int
	tree.Range(func(k int, _ string) bool {
		seen++
		return k < 3
	})
	if seen != 3 {
		t.Errorf("range visited %d keys, want 3", seen)
	}
}

func TestStringKeys(t *testing.T) {
	tree := avltree.New[string, int](avltree.Ordered[string])
	words := []string{"pear", "apple", "cherry", "banana", "plum", "fig"}
	for i, w := range words {
		tree.Insert(w, i)
	}
	mustVerifyStr(t, tree)

	var got []string
	tree.Range(func(k string, _ int) bool {
		got = append(got, k)
		return true
	})
	if !sort.StringsAreSorted(got) {
		t.Errorf("traversal not sorted: %v", got)
	}
}

func mustVerifyStr(t *testing.T, tree *avltree.Tree[string, int]) {
	t.Helper()
	if err := tree.Verify(); err != nil {
		t.Fatalf("invariant check failed: %v", err)
	}
}

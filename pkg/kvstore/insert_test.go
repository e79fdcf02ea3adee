package kvstore

import (
	"reflect"
	"testing"
)

func TestPutBasicScenario(t *testing.T) {
	// spec.md §8 scenario 1.
	it := Empty(nil)
	it.Put([]byte("b"), []byte("1"))
	it.Put([]byte("a"), []byte("2"))
	it.Put([]byte("c"), []byte("3"))

	checkRedBlack(t, it.root)

	want := []kv{{"a", "2"}, {"b", "1"}, {"c", "3"}}
	if got := inorder(it.root); !reflect.DeepEqual(got, want) {
		t.Fatalf("inorder = %v, want %v", got, want)
	}

	if string(it.root.key) != "b" || it.root.red {
		t.Fatalf("root = %q red=%v, want black \"b\"", it.root.key, it.root.red)
	}
	if !it.root.left.ref.red || !it.root.right.ref.red {
		t.Fatalf("expected both children of root red")
	}

	blob, err := it.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if len(blob.Tree) != 3 {
		t.Fatalf("blob has %d own nodes, want 3", len(blob.Tree))
	}
}

func TestPutUpdateInPlace(t *testing.T) {
	// spec.md §8 scenario 2.
	it := Empty(nil)
	it.Put([]byte("a"), []byte("1"))
	it.Put([]byte("a"), []byte("2"))

	want := []kv{{"a", "2"}}
	if got := inorder(it.root); !reflect.DeepEqual(got, want) {
		t.Fatalf("inorder = %v, want %v", got, want)
	}

	wantDesc := []string{"put: a", "update: a"}
	if !reflect.DeepEqual(it.description, wantDesc) {
		t.Fatalf("description = %v, want %v", it.description, wantDesc)
	}

	if it.root.red {
		t.Fatalf("single-node root must be black")
	}
}

func TestPutIntoEmptyBuilder(t *testing.T) {
	// spec.md §8 boundary: Put into an empty builder.
	it := Empty(nil)
	it.Put([]byte("x"), []byte("1"))
	if it.root.red {
		t.Fatalf("new root must be black after rebalance")
	}
}

func TestPutSequenceOneToSeven(t *testing.T) {
	// spec.md §8 scenario 5.
	it := Empty(nil)
	for i := byte('1'); i <= '7'; i++ {
		it.Put([]byte{i}, []byte{i})
	}
	checkRedBlack(t, it.root)

	h := height(it.root)
	if h > 4 {
		t.Fatalf("height = %d, want <= 4", h)
	}

	blob, err := it.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if len(blob.Tree) != 7 {
		t.Fatalf("blob has %d own nodes, want 7", len(blob.Tree))
	}
	for i, n := range blob.Tree {
		if i > 0 {
			// post-order: every child offset must refer to an
			// already-emitted (lower-indexed) own node.
			for _, ptr := range []struct{ off uint64; self bool }{{n.Left.Off, n.Left.Self}, {n.Right.Off, n.Right.Self}} {
				if ptr.self && int(ptr.off) >= i {
					t.Fatalf("node %d references own node %d before it is emitted", i, ptr.off)
				}
			}
		}
	}
}

func TestFieldIndexDenseAndPostOrder(t *testing.T) {
	it := Empty(nil)
	for _, k := range []string{"d", "b", "f", "a", "c", "e", "g"} {
		it.Put([]byte(k), []byte(k))
	}
	blob, err := it.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	seen := make([]bool, len(blob.Tree))
	var walk func(n *Node) int
	walk = func(n *Node) int {
		if isNil(n) || n.rid != it.rid {
			return -1
		}
		li := walk(n.left.ref)
		ri := walk(n.right.ref)
		if n.fieldIndex < 0 || n.fieldIndex >= len(blob.Tree) || seen[n.fieldIndex] {
			t.Fatalf("field_index %d out of range or reused", n.fieldIndex)
		}
		seen[n.fieldIndex] = true
		if li >= 0 && li >= n.fieldIndex {
			t.Fatalf("left child field_index %d not less than parent %d", li, n.fieldIndex)
		}
		if ri >= 0 && ri >= n.fieldIndex {
			t.Fatalf("right child field_index %d not less than parent %d", ri, n.fieldIndex)
		}
		return n.fieldIndex
	}
	walk(it.root)
	for i, ok := range seen {
		if !ok {
			t.Fatalf("field_index %d never assigned", i)
		}
	}
}

func height(n *Node) int {
	if isNil(n) {
		return 0
	}
	l, r := height(n.left.ref), height(n.right.ref)
	if l > r {
		return l + 1
	}
	return r + 1
}

package kvstore

import (
	"reflect"
	"testing"
)

func TestDeleteScenario(t *testing.T) {
	// spec.md §8 scenario 3.
	it := Empty(nil)
	it.Put([]byte("b"), []byte("1"))
	it.Put([]byte("a"), []byte("1"))
	it.Put([]byte("c"), []byte("1"))
	if !it.Delete([]byte("a")) {
		t.Fatalf("Delete(a) = false, want true")
	}

	checkRedBlack(t, it.root)

	want := []kv{{"b", "1"}, {"c", "1"}}
	if got := inorder(it.root); !reflect.DeepEqual(got, want) {
		t.Fatalf("inorder = %v, want %v", got, want)
	}
}

func TestDeleteMissingKeyIsNoOp(t *testing.T) {
	// spec.md §8 scenario 4 and boundary "Delete of a missing key".
	it := Empty(nil)
	it.Put([]byte("a"), []byte("1"))
	if it.Delete([]byte("b")) {
		t.Fatalf("Delete(b) = true, want false: key was never present")
	}

	want := []kv{{"a", "1"}}
	if got := inorder(it.root); !reflect.DeepEqual(got, want) {
		t.Fatalf("inorder = %v, want %v", got, want)
	}

	wantDesc := []string{"put: a", "del: b"}
	if !reflect.DeepEqual(it.description, wantDesc) {
		t.Fatalf("description = %v, want %v", it.description, wantDesc)
	}
}

func TestDeleteRootOfOneNodeTreeYieldsEmpty(t *testing.T) {
	// spec.md §8 boundary: deleting the root of a one-node tree.
	it := Empty(nil)
	it.Put([]byte("only"), []byte("1"))
	if !it.Delete([]byte("only")) {
		t.Fatalf("Delete(only) = false, want true")
	}
	if !it.Empty() {
		t.Fatalf("expected Empty() after deleting the only key")
	}
}

func TestDeleteSequenceMaintainsInvariants(t *testing.T) {
	it := Empty(nil)
	keys := []string{"d", "b", "f", "a", "c", "e", "g", "h", "i"}
	for _, k := range keys {
		it.Put([]byte(k), []byte(k))
	}
	checkRedBlack(t, it.root)

	for _, k := range []string{"a", "h", "d", "e"} {
		if !it.Delete([]byte(k)) {
			t.Fatalf("Delete(%s) = false, want true", k)
		}
		checkRedBlack(t, it.root)
	}

	want := []kv{{"b", "b"}, {"c", "c"}, {"f", "f"}, {"g", "g"}, {"i", "i"}}
	if got := inorder(it.root); !reflect.DeepEqual(got, want) {
		t.Fatalf("inorder = %v, want %v", got, want)
	}
}

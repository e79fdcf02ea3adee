package kvstore

import "testing"

// checkRedBlack walks root and fails t if any red-black or BST invariant
// is violated (spec.md §8 "structural invariants").
func checkRedBlack(t *testing.T, root *Node) {
	t.Helper()
	if root.red {
		t.Errorf("root is red")
	}
	if _, err := blackHeight(root); err != nil {
		t.Errorf("%v", err)
	}
	checkOrdering(t, root, nil, nil)
}

func blackHeight(n *Node) (int, error) {
	if isNil(n) {
		return 1, nil
	}
	if n.red {
		if n.left.ref.red || n.right.ref.red {
			return 0, errRedRed(n)
		}
	}
	lh, err := blackHeight(n.left.ref)
	if err != nil {
		return 0, err
	}
	rh, err := blackHeight(n.right.ref)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, errBlackHeight(n, lh, rh)
	}
	h := lh
	if !n.red {
		h++
	}
	return h, nil
}

func errRedRed(n *Node) error {
	return &InvariantViolation{Detail: "red node " + string(n.key) + " has a red child"}
}

func errBlackHeight(n *Node, lh, rh int) error {
	return &InvariantViolation{Detail: "unequal black height at " + string(n.key)}
}

func checkOrdering(t *testing.T, n *Node, lo, hi []byte) {
	t.Helper()
	if isNil(n) {
		return
	}
	if lo != nil && !keyLess(lo, n.key) {
		t.Errorf("key %q not greater than lower bound %q", n.key, lo)
	}
	if hi != nil && !keyLess(n.key, hi) {
		t.Errorf("key %q not less than upper bound %q", n.key, hi)
	}
	checkOrdering(t, n.left.ref, lo, n.key)
	checkOrdering(t, n.right.ref, n.key, hi)
}

// inorder returns the tree's key/value pairs in ascending key order.
func inorder(n *Node) []kv {
	if isNil(n) {
		return nil
	}
	out := inorder(n.left.ref)
	out = append(out, kv{string(n.key), string(n.val)})
	out = append(out, inorder(n.right.ref)...)
	return out
}

type kv struct {
	key, val string
}

// countOwn counts own nodes (rid == it.rid) reachable from root.
func countOwn(it *Intention, n *Node) int {
	if isNil(n) || n.rid != it.rid {
		return 0
	}
	return 1 + countOwn(it, n.left.ref) + countOwn(it, n.right.ref)
}

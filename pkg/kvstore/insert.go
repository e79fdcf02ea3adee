package kvstore

// Put inserts key with val, or updates val in place if key is already
// present. Ported from the teacher's intention.cc insert_recursive/Put,
// generalized from std::string keys to byte slices.
func (it *Intention) Put(key, val []byte) {
	var path pathDeque
	update := false
	newRoot := it.insertRecursive(it.baseRoot(), key, val, &path, &update)

	// A pure value update copies a path down to the matched node but
	// never changes tree shape or color, so no rebalancing is needed.
	if update {
		it.describe("update", string(key))
		it.root = newRoot
		return
	}

	it.describe("put", string(key))

	path.pushBack(nilNode)

	nn := path.popFront()
	parent := path.popFront()

	for parent.red {
		grandParent := path.front()
		if grandParent.left.ref == parent {
			parent, nn = it.insertBalance(parent, nn, &path, sideLeft, sideRight, &newRoot)
		} else {
			parent, nn = it.insertBalance(parent, nn, &path, sideRight, sideLeft, &newRoot)
		}
	}

	newRoot.red = false
	it.root = newRoot
}

// insertRecursive descends to key's position, copying every node on the
// path that this transaction does not already own, and returns the
// (possibly new) subtree root. update is set to true iff key was already
// present, in which case the matched node itself is not pushed and the
// caller ignores path, skipping rebalancing entirely, mirroring the
// teacher exactly.
func (it *Intention) insertRecursive(node *Node, key, val []byte, path *pathDeque, update *bool) *Node {
	if isNil(node) {
		nn := &Node{
			key:     key,
			val:     val,
			red:     true,
			rid:     it.rid,
			altered: true,
			depends: false,

			fieldIndex: -1,
		}
		nn.left = NodePtr{ref: nilNode}
		nn.right = NodePtr{ref: nilNode}
		path.pushBack(nn)
		*update = false
		return nn
	}

	less := keyLess(key, node.key)
	equal := !less && keyBytesEqual(key, node.key)

	if equal {
		var copy *Node
		if node.rid == it.rid {
			copy = node
		} else {
			copy = copyNode(node, it.rid, it.cfg)
		}
		copy.val = val
		copy.altered = true
		*update = true
		return copy
	}

	var child *Node
	if less {
		child = it.insertRecursive(node.left.ref, key, val, path, update)
	} else {
		child = it.insertRecursive(node.right.ref, key, val, path, update)
	}

	var copy *Node
	if node.rid == it.rid {
		copy = node
	} else {
		copy = copyNode(node, it.rid, it.cfg)
	}

	if less {
		copy.left.ref = child
	} else {
		copy.right.ref = child
	}

	path.pushBack(copy)
	return copy
}

// insertBalance restores red-black invariants after a red-red conflict
// between parent and nn, where a/b name the mirrored rotation direction
// (a is the side on which parent hangs off its own parent). Returns the
// (possibly swapped) parent/nn the caller's loop should continue with.
//
// Ported from the teacher's intention.cc insert_balance<ChildA,ChildB>.
func (it *Intention) insertBalance(parent, nn *Node, path *pathDeque, a, b side, root **Node) (*Node, *Node) {
	uncleEdge := path.front().child(b)
	if uncleEdge.ref.red {
		ensureOwn(uncleEdge, it.rid, it.cfg)
		parent.red = false
		uncleEdge.ref.red = false
		path.front().red = true
		nn = path.popFront()
		parent = path.popFront()
		return parent, nn
	}

	if nn == parent.child(b).ref {
		nn, parent = parent, nn
		rotate(root, path.front(), nn, a, b)
	}
	grandParent := path.popFront()
	grandParent.swapColor(parent)
	rotate(root, path.front(), grandParent, b, a)
	return parent, nn
}

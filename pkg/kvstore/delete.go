package kvstore

// Delete removes key if present. It returns false, with no structural
// change, if key was not found — but per spec.md §9's resolution of the
// "missing key" open question, a description entry is still appended
// unconditionally, exactly as the teacher's Delete does.
//
// Ported from the teacher's intention.cc delete_recursive/Delete/
// transplant/build_min_path/mirror_remove_balance/balance_delete.
func (it *Intention) Delete(key []byte) bool {
	var path pathDeque
	it.describe("del", string(key))

	newRoot, found := it.deleteRecursive(it.baseRoot(), key, &path)
	if !found {
		return false
	}

	path.pushBack(nilNode)

	removed := path.front()
	transplanted := removed.right.ref

	switch {
	case isNil(removed.left.ref):
		path.popFront()
		transplant(&newRoot, path.front(), removed, transplanted)
	case isNil(removed.right.ref):
		path.popFront()
		transplanted = removed.left.ref
		transplant(&newRoot, path.front(), removed, transplanted)
	default:
		temp := removed
		ensureOwn(&removed.right, it.rid, it.cfg)
		removed = it.buildMinPath(removed.right.ref, &path)
		transplanted = removed.right.ref
		temp.stealPayload(removed)
		transplant(&newRoot, path.front(), removed, transplanted)
	}

	if !removed.red {
		it.balanceDelete(transplanted, &path, &newRoot)
	}

	it.root = newRoot
	return true
}

// deleteRecursive descends to key's position, copying every node on the
// path that this transaction does not already own. ok is false if key was
// never found, in which case no node was copied and path is left
// untouched by this call.
func (it *Intention) deleteRecursive(node *Node, key []byte, path *pathDeque) (copy *Node, ok bool) {
	if isNil(node) {
		return nil, false
	}

	less := keyLess(key, node.key)
	equal := !less && keyBytesEqual(key, node.key)

	if equal {
		if node.rid == it.rid {
			copy = node
		} else {
			copy = copyNode(node, it.rid, it.cfg)
		}
		path.pushBack(copy)
		return copy, true
	}

	var child *Node
	if less {
		child, ok = it.deleteRecursive(node.left.ref, key, path)
	} else {
		child, ok = it.deleteRecursive(node.right.ref, key, path)
	}
	if !ok {
		return nil, false
	}

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
	return copy, true
}

// transplant replaces removed, which hangs off parent (or is the tree
// root when parent is Nil), with transplanted.
func transplant(root **Node, parent, removed, transplanted *Node) {
	switch {
	case isNil(parent):
		*root = transplanted
	case parent.left.ref == removed:
		parent.left.ref = transplanted
	default:
		parent.right.ref = transplanted
	}
}

// buildMinPath descends node's left spine to find its in-order successor,
// copying every node it passes through that this transaction does not
// already own, and pushing each onto the FRONT of path (so the successor's
// immediate ancestors are seen ahead of the ancestors already recorded for
// the node being deleted).
func (it *Intention) buildMinPath(node *Node, path *pathDeque) *Node {
	for !isNil(node.left.ref) {
		ensureOwn(&node.left, it.rid, it.cfg)
		path.pushFront(node)
		node = node.left.ref
	}
	return node
}

// mirrorRemoveBalance restores red-black invariants after removing a
// black node leaves extraBlack carrying an extra unit of black-height. a/b
// name the mirrored direction: a is the side extraBlack hangs off parent,
// b is the side its sibling ("brother") hangs off.
//
// Ported from the teacher's intention.cc mirror_remove_balance<ChildA,ChildB>.
func (it *Intention) mirrorRemoveBalance(extraBlack, parent **Node, path *pathDeque, a, b side, root **Node) {
	brother := (*parent).child(b).ref

	if brother.red {
		brother = ensureOwn((*parent).child(b), it.rid, it.cfg)
		brother.swapColor(*parent)
		rotate(root, path.front(), *parent, a, b)
		path.pushFront(brother)
		brother = (*parent).child(b).ref
	}

	if !brother.left.ref.red && !brother.right.ref.red {
		brother = ensureOwn((*parent).child(b), it.rid, it.cfg)
		brother.red = true
		*extraBlack = *parent
		*parent = path.popFront()
		return
	}

	if !brother.child(b).ref.red {
		brother = ensureOwn((*parent).child(b), it.rid, it.cfg)
		nephew := ensureOwn(brother.child(a), it.rid, it.cfg)
		brother.swapColor(nephew)
		brother = rotate(root, *parent, brother, b, a)
	}

	brother = ensureOwn((*parent).child(b), it.rid, it.cfg)
	farNephew := ensureOwn(brother.child(b), it.rid, it.cfg)
	brother.red = (*parent).red
	(*parent).red = false
	farNephew.red = false
	rotate(root, path.front(), *parent, a, b)

	*extraBlack = *root
	*parent = nilNode
}

// balanceDelete walks from extraBlack's parent back toward the root,
// rebalancing at each level that still carries the extra black unit, then
// finally recolors the node occupying the gap's position black (Nil is
// always already black, so it is left untouched).
//
// Ported from the teacher's intention.cc balance_delete.
func (it *Intention) balanceDelete(extraBlack *Node, path *pathDeque, root **Node) {
	parent := path.popFront()

	for extraBlack != *root && !extraBlack.red {
		if parent.left.ref == extraBlack {
			it.mirrorRemoveBalance(&extraBlack, &parent, path, sideLeft, sideRight, root)
		} else {
			it.mirrorRemoveBalance(&extraBlack, &parent, path, sideRight, sideLeft, root)
		}
	}

	newNode := extraBlack
	if !isNil(extraBlack) && extraBlack.rid != it.rid {
		newNode = copyNode(extraBlack, it.rid, it.cfg)
	}
	transplant(root, parent, extraBlack, newNode)

	if !isNil(newNode) {
		newNode.red = false
	}
}

package kvstore

import "github.com/maximecaron/zlog/pkg/logstore"

// ensureOwn is the single copy-on-write primitive every mutating path
// routes through (spec.md §4.B). If the edge already points at Nil or at a
// node this transaction already owns, it is left untouched. Otherwise the
// target is replaced with an own copy, and the edge's ref is repointed at
// it; (csn, offset) are left as scratch, to be rewritten at serialize
// time.
//
// Every uncle/sibling access along the insert and delete rebalancing
// paths goes through ensureOwn before it is mutated — none of them are
// skippable, since skipping one would mutate a node a concurrent reader
// might still be observing.
func ensureOwn(edge *NodePtr, rid logstore.RID, cfg *Config) *Node {
	if isNil(edge.ref) || edge.ref.rid == rid {
		return edge.ref
	}
	edge.ref = copyNode(edge.ref, rid, cfg)
	return edge.ref
}

// rotate performs one mirrored tree rotation around child, which hangs off
// either side of parent (or is the tree root). a/b name the rotation's
// direction: a left rotation passes (sideLeft, sideRight); a right
// rotation passes (sideRight, sideLeft). Returns the node that now
// occupies child's former position.
//
// Ported from the teacher's intention.cc template<ChildA, ChildB> rotate,
// generalized here via the Side accessor instead of C++ template
// instantiation.
func rotate(root **Node, parent, child *Node, a, b side) *Node {
	grandChild := *child.child(b)
	*child.child(b) = *grandChild.ref.child(a)
	switch {
	case *root == child:
		*root = grandChild.ref
	case parent.child(a).ref == child:
		*parent.child(a) = grandChild
	default:
		*parent.child(b) = grandChild
	}
	grandChild.ref.child(a).ref = child
	return grandChild.ref
}

// pathDeque is the double-ended node path used by both insert and delete
// to walk back up the tree during rebalancing (spec.md §9). Descent
// pushes to the back so the deepest node visited ends at the front;
// buildMinPath pushes to the front so ancestors of the in-order successor
// are seen before nodes already on the path.
type pathDeque struct {
	nodes []*Node
}

func (d *pathDeque) pushBack(n *Node) {
	d.nodes = append(d.nodes, n)
}

func (d *pathDeque) pushFront(n *Node) {
	d.nodes = append(d.nodes, nil)
	copy(d.nodes[1:], d.nodes)
	d.nodes[0] = n
}

func (d *pathDeque) popFront() *Node {
	n := d.nodes[0]
	d.nodes = d.nodes[1:]
	return n
}

func (d *pathDeque) front() *Node {
	return d.nodes[0]
}

func (d *pathDeque) empty() bool {
	return len(d.nodes) == 0
}

package kvstore

import "github.com/maximecaron/zlog/pkg/logstore"

// NodePtr is a single edge from a parent to a child (spec.md §3 NodePtr).
//
// If the target is own, (csn, offset) are scratch and get rewritten during
// serialization; ref is authoritative. If the target is foreign, (csn,
// offset) are authoritative and ref is a resolved cache of it. If the
// target is Nil, the edge serializes with nil=true and csn/offset are
// zero.
type NodePtr struct {
	ref    *Node
	csn    logstore.CSN
	offset int
}

// Node is one key/value entry of the ordered map, and one vertex of the
// red-black tree (spec.md §3 Node).
type Node struct {
	key, val []byte
	red      bool
	left     NodePtr
	right    NodePtr

	// rid is the transaction that created this node instance. Nodes with
	// rid equal to the owning builder's rid are "own" (mutable by it);
	// all others are "foreign".
	rid logstore.RID

	// altered is true when this node's payload differs from its source
	// (set on inserts/updates; false on structural-only copies).
	altered bool

	// depends is true when this node was copied purely for structural
	// reasons and still logically depends on its source's value
	// semantics.
	depends bool

	// ssv is the source-shadow-value: the source node's nsv at the
	// moment this node was copied from it. nil means undefined (true of
	// every purely-new node, and legal on purely structural copies too).
	ssv []byte

	// subtreeRODependent mirrors the wire-level subtree_ro_dependent
	// flag of the node this was resolved from. It is only meaningful for
	// foreign nodes resolved from a previously-serialized blob: own
	// nodes compute this value transiently during Serialize rather than
	// storing it on the node itself.
	subtreeRODependent bool

	// fieldIndex is this node's dense post-order position within its
	// containing intention. -1 while floating (not yet serialized);
	// assigned exactly once, during Serialize.
	fieldIndex int
}

// nilNode is the process-wide shared terminal sentinel (spec.md §3
// "Node::Nil()"). It is always black, has no key/value, and both of its
// child edges point back to itself. It is never mutated.
var nilNode = newNilNode()

func newNilNode() *Node {
	n := &Node{
		rid:        logstore.NilRID,
		fieldIndex: -1,
	}
	n.left = NodePtr{ref: n}
	n.right = NodePtr{ref: n}
	return n
}

// Nil returns the shared terminal sentinel.
func Nil() *Node { return nilNode }

// isNil reports whether n is the shared terminal sentinel.
func isNil(n *Node) bool { return n == nilNode }

// nsv derives the node's now-shadow-value per spec.md §3 and the two
// Config-gated open questions from spec.md §9: nsv equals ssv when the
// node's subtree is read-only-dependent, otherwise it equals the node's
// own value. When ssv is undefined, cfg.AbsentSSVIsOwnValue decides
// whether to fall back to the node's own value (the default, and the
// safe choice spec.md recommends) or leave it undefined (nil).
func (n *Node) nsv(cfg *Config) []byte {
	if n.subtreeRODependent {
		if n.ssv != nil {
			return n.ssv
		}
		if cfg.AbsentSSVIsOwnValue {
			return n.val
		}
		return nil
	}
	return n.val
}

// copyNode produces an own copy of a foreign node, per spec.md §4.A
// Node::Copy: it duplicates key, val, color and both edges, stamps rid to
// the caller's, resets fieldIndex to -1 (floating), marks the copy as
// depends-only (altered=false, depends=true), and derives ssv from the
// source's current nsv at the moment of divergence.
func copyNode(src *Node, rid logstore.RID, cfg *Config) *Node {
	return &Node{
		key:        src.key,
		val:        src.val,
		red:        src.red,
		left:       src.left,
		right:      src.right,
		rid:        rid,
		fieldIndex: -1,
		altered:    false,
		depends:    true,
		ssv:        src.nsv(cfg),
	}
}

// swapColor exchanges colors with another own node (spec.md §4.A).
func (n *Node) swapColor(other *Node) {
	n.red, other.red = other.red, n.red
}

// stealPayload moves key/val from other into n, leaving other's payload
// empty. Used by the delete path when an internal node is replaced by its
// in-order successor (spec.md §4.A).
func (n *Node) stealPayload(other *Node) {
	n.key, other.key = other.key, nil
	n.val, other.val = other.val, nil
}

// side selects one of the two mirrored child accessors used throughout
// insert/delete rebalancing (spec.md §9 "mirrored rotations").
type side int

const (
	sideLeft side = iota
	sideRight
)

func (s side) opposite() side {
	if s == sideLeft {
		return sideRight
	}
	return sideLeft
}

// child returns the edge on side s of n.
func (n *Node) child(s side) *NodePtr {
	if s == sideLeft {
		return &n.left
	}
	return &n.right
}

// The accessors below expose just enough of a node's shape for a caller
// to walk and verify a resolved tree (tests, the pkg/zlog demonstration
// facade). They are not a traversal/cache component in their own right —
// that reader is explicitly out of scope (spec.md §1) — just visibility
// into the structure Serialize/Resolve already built.

// Key returns the node's key. Meaningless on Nil.
func (n *Node) Key() []byte { return n.key }

// Val returns the node's current value. Meaningless on Nil.
func (n *Node) Val() []byte { return n.val }

// Red reports the node's color.
func (n *Node) Red() bool { return n.red }

// Left returns the left child, or the shared Nil sentinel.
func (n *Node) Left() *Node { return n.left.ref }

// Right returns the right child, or the shared Nil sentinel.
func (n *Node) Right() *Node { return n.right.ref }

// IsNil reports whether n is the shared terminal sentinel.
func (n *Node) IsNil() bool { return isNil(n) }

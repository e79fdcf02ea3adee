package kvstore

import (
	"github.com/maximecaron/zlog/internal/logging"
	"github.com/maximecaron/zlog/pkg/wire"
)

// Serialize converts the intention's own subtree into the
// position-independent wire format (spec.md §6), assigning each own node
// a dense post-order field_index as it goes. It may be called at most
// once per Intention. Self edges in the resulting record always carry
// Csn 0; a later SetCSN (spec.md §4.F) stamps the builder's in-memory
// edges and leaves the returned record unchanged.
//
// Ported from the teacher's intention.cc Serialize/serialize_intention/
// serialize_node/serialize_node_ptr.
func (it *Intention) Serialize() (*wire.Intention, error) {
	if it.serialized {
		return nil, &PreconditionViolation{Op: "Serialize", Reason: "intention already serialized"}
	}
	if it.root == nil {
		return nil, &PreconditionViolation{Op: "Serialize", Reason: "root is null: no mutation has been made"}
	}

	out := &wire.Intention{
		Snapshot:    uint64(it.snapshot),
		Description: append([]string(nil), it.description...),
	}

	fieldIndex := 0
	it.serializeIntention(out, it.root, &fieldIndex, nil)

	it.serialized = true
	return out, nil
}

// serializeIntention is a post-order walk: both children are fully
// emitted before node itself, so that by the time node is written, every
// own descendant already has a field_index a self-edge can reference.
//
// this_subtree_ro_dependent starts true and is cleared by any altered
// descendant (or any descendant whose own subtree already failed to be
// read-only-dependent); it is threaded back to the caller via
// parentSubtreeRODependent exactly as the teacher threads it through a
// bool* out-param.
func (it *Intention) serializeIntention(out *wire.Intention, node *Node, fieldIndex *int, parentSubtreeRODependent *bool) {
	if isNil(node) || node.rid != it.rid {
		return
	}

	thisSubtreeRODependent := true

	it.serializeIntention(out, node.left.ref, fieldIndex, &thisSubtreeRODependent)
	it.serializeIntention(out, node.right.ref, fieldIndex, &thisSubtreeRODependent)

	// Config.StrictLeafROOverride gates the teacher's commented-out branch:
	// an own node both of whose children are non-own (foreign or Nil) can
	// still be forced subtree_ro_dependent=false, on the theory that a leaf
	// with no own descendants to blame should not silently inherit a stale
	// true. Left off by default per spec.md §9's resolution of this open
	// question.
	if it.cfg.StrictLeafROOverride {
		leftOwn := !isNil(node.left.ref) && node.left.ref.rid == it.rid
		rightOwn := !isNil(node.right.ref) && node.right.ref.rid == it.rid
		if !leftOwn && !rightOwn {
			thisSubtreeRODependent = false
		}
	}

	dst := it.serializeNode(node, *fieldIndex, thisSubtreeRODependent)
	out.Tree = append(out.Tree, *dst)
	*fieldIndex++

	if parentSubtreeRODependent != nil && (node.altered || !thisSubtreeRODependent) {
		*parentSubtreeRODependent = false
	}
}

// serializeNode panics wrapping an *InvariantViolation if node was already
// serialized — a bug in this package, not a caller error, since Serialize
// already guards against re-entry at the Intention level (spec.md §7).
func (it *Intention) serializeNode(node *Node, fieldIndex int, subtreeRODependent bool) *wire.Node {
	if node.fieldIndex != -1 {
		violation := &InvariantViolation{Detail: "node serialized twice within one intention"}
		logging.WithComponent("kvstore").Error().
			Str("detail", violation.Detail).
			Msg("invariant violation before panic")
		panic(violation)
	}

	dst := &wire.Node{
		Red:                node.red,
		Key:                node.key,
		Val:                node.val,
		Altered:            node.altered,
		Depends:            node.depends,
		SubtreeRODependent: subtreeRODependent,
	}
	if node.ssv != nil {
		dst.HasSSV = true
		dst.SSV = node.ssv
	}

	node.fieldIndex = fieldIndex

	dst.Left = it.serializeNodePtr(&node.left)
	dst.Right = it.serializeNodePtr(&node.right)
	return dst
}

// serializeNodePtr resolves one edge to its wire form: Nil edges carry no
// position, self edges reference the target's field_index within this
// same blob, and foreign edges carry the (csn, offset) recorded when the
// target was last resolved. Resolving a self edge also caches the
// target's field_index back onto the in-memory NodePtr's offset, mirroring
// the teacher's src.set_offset(...) side effect.
func (it *Intention) serializeNodePtr(src *NodePtr) wire.NodePtr {
	switch {
	case isNil(src.ref):
		return wire.NodePtr{Nil: true}
	case src.ref.rid == it.rid:
		src.offset = src.ref.fieldIndex
		return wire.NodePtr{Self: true, Off: uint64(src.ref.fieldIndex)}
	default:
		return wire.NodePtr{Csn: uint64(src.csn), Off: uint64(src.offset)}
	}
}

package kvstore

import "github.com/maximecaron/zlog/pkg/logstore"

// SetCSN fixes up every self edge within this intention's own subtree to
// carry pos as its csn, once the log has assigned this intention that
// position (spec.md §4.F). Offsets were already cached onto each self
// edge during Serialize, so after this call every edge that pointed at an
// own node resolves exactly as a foreign edge into the newly-committed
// blob would.
//
// Ported from the teacher's intention.cc SetCSN/set_intention_self_csn/
// set_intention_self_csn_recursive.
func (it *Intention) SetCSN(pos logstore.CSN) error {
	if !it.serialized {
		return &PreconditionViolation{Op: "SetCSN", Reason: "called before Serialize"}
	}
	if it.csnSet {
		return &PreconditionViolation{Op: "SetCSN", Reason: "called more than once"}
	}
	setSelfCSNRecursive(it.root.rid, it.root, pos)
	it.csnSet = true
	return nil
}

func setSelfCSNRecursive(rid logstore.RID, node *Node, pos logstore.CSN) {
	if isNil(node) || node.rid != rid {
		return
	}

	if !isNil(node.right.ref) && node.right.ref.rid == rid {
		node.right.csn = pos
	}
	if !isNil(node.left.ref) && node.left.ref.rid == rid {
		node.left.csn = pos
	}

	setSelfCSNRecursive(rid, node.right.ref, pos)
	setSelfCSNRecursive(rid, node.left.ref, pos)
}

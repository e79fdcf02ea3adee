package kvstore

import (
	"github.com/maximecaron/zlog/pkg/logstore"
	"github.com/maximecaron/zlog/pkg/wire"
)

// Resolver turns committed blobs back into in-memory trees, resolving
// self edges against their own blob and foreign edges by fetching and
// materializing whatever earlier blob (csn, off) names — exactly the
// read-side counterpart of Serialize's position-independent encoding
// (spec.md §6). It caches every blob it has already materialized, since a
// tree with long-lived foreign subtrees can reference the same ancestor
// blob from many edges.
//
// Grounded on the teacher's trie_reader.go/trie_db.go pattern of a small
// read-through cache in front of a backing store.
type Resolver struct {
	fetch func(csn logstore.CSN) ([]byte, error)
	cache map[logstore.CSN][]*Node
}

// NewResolver builds a Resolver backed by fetch, which must return the
// exact bytes wire.Encode produced for pos.
func NewResolver(fetch func(pos logstore.CSN) ([]byte, error)) *Resolver {
	return &Resolver{fetch: fetch, cache: make(map[logstore.CSN][]*Node)}
}

// NewLogResolver builds a Resolver reading directly from log.
func NewLogResolver(log logstore.Log) *Resolver {
	return NewResolver(log.Get)
}

// Snapshot materializes the tree committed at pos and returns a read
// handle to its root. pos == 0 denotes the empty store.
func (r *Resolver) Snapshot(pos logstore.CSN) (*Snapshot, error) {
	if pos == 0 {
		return &Snapshot{Root: nilNode, CSN: 0}, nil
	}
	nodes, err := r.nodesFor(pos)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return &Snapshot{Root: nilNode, CSN: pos}, nil
	}
	// Post-order serialization always emits the subtree root last.
	return &Snapshot{Root: nodes[len(nodes)-1], CSN: pos}, nil
}

func (r *Resolver) nodesFor(pos logstore.CSN) ([]*Node, error) {
	if nodes, ok := r.cache[pos]; ok {
		return nodes, nil
	}
	blob, err := r.fetch(pos)
	if err != nil {
		return nil, err
	}
	intention, err := wire.DecodeFromBytes(blob)
	if err != nil {
		return nil, err
	}
	nodes, err := r.materialize(intention, pos)
	if err != nil {
		return nil, err
	}
	r.cache[pos] = nodes
	return nodes, nil
}

// materialize allocates one foreign Node per wire.Node in post-order
// (so that self edges, which reference by index within the same blob,
// can be resolved with a single pass), then fills in each node's payload
// and edges. Self edges are stamped with pos, the blob's own position, so
// that a later builder copying one of these nodes carries a valid foreign
// (csn, offset) for every untouched child.
func (r *Resolver) materialize(intention *wire.Intention, pos logstore.CSN) ([]*Node, error) {
	nodes := make([]*Node, len(intention.Tree))
	for i := range nodes {
		nodes[i] = &Node{fieldIndex: -1}
	}
	for i := range intention.Tree {
		wn := &intention.Tree[i]
		n := nodes[i]
		n.red = wn.Red
		n.key = wn.Key
		n.val = wn.Val
		n.altered = wn.Altered
		n.depends = wn.Depends
		n.subtreeRODependent = wn.SubtreeRODependent
		if wn.HasSSV {
			n.ssv = wn.SSV
		}

		left, err := r.resolvePtr(&wn.Left, nodes, pos)
		if err != nil {
			return nil, err
		}
		right, err := r.resolvePtr(&wn.Right, nodes, pos)
		if err != nil {
			return nil, err
		}
		n.left, n.right = left, right
	}
	return nodes, nil
}

func (r *Resolver) resolvePtr(p *wire.NodePtr, nodes []*Node, pos logstore.CSN) (NodePtr, error) {
	switch {
	case p.Nil:
		return NodePtr{ref: nilNode}, nil
	case p.Self:
		if int(p.Off) >= len(nodes) {
			return NodePtr{}, &InvariantViolation{Detail: "self edge offset out of range"}
		}
		return NodePtr{ref: nodes[p.Off], csn: pos, offset: int(p.Off)}, nil
	default:
		foreign, err := r.nodesFor(logstore.CSN(p.Csn))
		if err != nil {
			return NodePtr{}, err
		}
		if int(p.Off) >= len(foreign) {
			return NodePtr{}, &InvariantViolation{Detail: "foreign edge offset out of range"}
		}
		return NodePtr{ref: foreign[p.Off], csn: logstore.CSN(p.Csn), offset: int(p.Off)}, nil
	}
}

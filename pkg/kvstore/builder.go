// Package kvstore implements the Intention Builder: an in-memory
// copy-on-write red-black tree that materializes one transaction's writes
// against a prior snapshot of the store, and serializes the result into
// the position-independent binary format defined by pkg/wire. A
// serialized intention is handed to a pkg/logstore.Log, which assigns it
// a CSN; SetCSN then fixes up the scratch edges that pointed at the
// builder's own new nodes.
package kvstore

import "github.com/maximecaron/zlog/pkg/logstore"

// Snapshot is a read handle into a prior intention: the root of the tree
// as of some committed CSN. It lives here rather than in pkg/logstore
// because it needs to name *Node, and logstore must not import kvstore.
type Snapshot struct {
	Root *Node
	CSN  logstore.CSN
}

// Intention is one transaction's in-progress write set: a copy-on-write
// overlay on top of a parent Snapshot's tree. Put and Delete mutate it in
// place; Serialize converts it to a position-independent wire.Intention
// exactly once.
type Intention struct {
	cfg *Config
	rid logstore.RID

	base     *Node // the parent snapshot's root; immutable, possibly shared
	root     *Node // this builder's own effective root; nil until the first successful mutation (spec.md §3)
	snapshot logstore.CSN

	description []string

	serialized bool
	csnSet     bool
}

// NewIntention starts a new transaction against parent. cfg may be nil,
// in which case DefaultConfig is used.
func NewIntention(parent *Snapshot, cfg *Config) *Intention {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	base := nilNode
	var snapshot logstore.CSN
	if parent != nil {
		base = parent.Root
		snapshot = parent.CSN
	}
	return &Intention{
		cfg:      cfg,
		rid:      logstore.NewRID(),
		base:     base,
		snapshot: snapshot,
	}
}

// Empty starts a new transaction against an empty store.
func Empty(cfg *Config) *Intention {
	return NewIntention(nil, cfg)
}

// baseRoot is the root the next Put/Delete descent starts from: this
// builder's own root once it has mutated, else the parent snapshot's root
// untouched. Mirrors the teacher's `base_root = root_ == nullptr ?
// snapshot_->ref() : root_`.
func (it *Intention) baseRoot() *Node {
	if it.root != nil {
		return it.root
	}
	return it.base
}

// Root returns the current effective root of the tree, own or foreign.
func (it *Intention) Root() *Node {
	return it.baseRoot()
}

// Empty reports whether the store, as of this builder, currently holds no
// keys at all.
func (it *Intention) Empty() bool {
	return isNil(it.baseRoot())
}

// RID returns the transaction identifier this intention's own nodes carry.
func (it *Intention) RID() logstore.RID {
	return it.rid
}

// describe appends a human-readable record of one mutation, in the order
// applied, mirroring the teacher's habit of keeping a per-transaction
// change log for diagnostics (spec.md §6 Intention.Description).
func (it *Intention) describe(op, key string) {
	it.description = append(it.description, op+": "+key)
}

func keyBytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func keyLess(a, b []byte) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

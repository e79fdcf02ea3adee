// Package logstore defines the external collaborator contracts that the
// kvstore intention builder consumes: a CSN-addressed append-only log and
// a transaction-id allocator. The snapshot handle into that log is
// kvstore.Snapshot, since it names kvstore's node type.
//
// The actual durable log, its on-disk layout, replication and garbage
// collection are out of scope for this module (see spec.md §1) — this
// package only defines the interfaces the builder needs, plus a minimal
// in-memory implementation used by tests and by the demonstration facade
// in pkg/zlog.
package logstore

import "github.com/google/uuid"

// CSN is a Commit Sequence Number: the log position assigned to an
// intention once it has been appended. CSNs are monotonically increasing.
type CSN uint64

// RID identifies the transaction that owns a given builder. Nodes carry
// the RID of the transaction that created or copied them; NilRID is the
// zero value and is never a valid transaction identifier.
type RID = uuid.UUID

// NilRID is the sentinel "no owner" identifier. The shared Nil tree node
// carries this RID.
var NilRID RID

// NewRID allocates a fresh transaction identifier. Backed by google/uuid
// so that concurrently-started transactions never collide without needing
// a shared counter.
func NewRID() RID {
	return uuid.New()
}

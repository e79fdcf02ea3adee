// Package zlog wires pkg/kvstore, pkg/wire and pkg/logstore together into
// the minimal round trip spec.md describes: begin a builder against a
// snapshot, mutate it, serialize it, append it to a log, and fix up its
// CSN. It is a demonstration/test facade, not a server or a CLI — every
// piece it composes already does the real work.
package zlog

import (
	"github.com/maximecaron/zlog/pkg/kvstore"
	"github.com/maximecaron/zlog/pkg/logstore"
	"github.com/maximecaron/zlog/pkg/wire"
)

// Store is a single-process, in-memory zlog instance.
type Store struct {
	log      logstore.Log
	resolver *kvstore.Resolver
	cfg      *kvstore.Config

	live *kvstore.Snapshot
}

// Open ties log to a fresh Store. cfg may be nil, in which case
// kvstore.DefaultConfig is used.
func Open(log logstore.Log, cfg *kvstore.Config) *Store {
	if cfg == nil {
		cfg = kvstore.DefaultConfig()
	}
	return &Store{
		log:      log,
		resolver: kvstore.NewLogResolver(log),
		cfg:      cfg,
		live:     &kvstore.Snapshot{Root: kvstore.Nil(), CSN: 0},
	}
}

// Begin starts a new transaction against the most recently committed
// snapshot this Store observed in-process. This is the fast path: no log
// round trip, and the builder shares the live in-memory node graph.
func (s *Store) Begin() *kvstore.Intention {
	return kvstore.NewIntention(s.live, s.cfg)
}

// BeginAt starts a new transaction against the snapshot committed at pos.
// If pos is the Store's current live snapshot this is equivalent to
// Begin; otherwise the snapshot is resolved from the log.
func (s *Store) BeginAt(pos logstore.CSN) (*kvstore.Intention, error) {
	if s.live.CSN == pos {
		return kvstore.NewIntention(s.live, s.cfg), nil
	}
	snap, err := s.resolver.Snapshot(pos)
	if err != nil {
		return nil, err
	}
	return kvstore.NewIntention(snap, s.cfg), nil
}

// Commit serializes it, appends the resulting blob to the log, fixes up
// its own edges with the position the log assigned, and adopts it as the
// new live snapshot.
func (s *Store) Commit(it *kvstore.Intention) (logstore.CSN, error) {
	intention, err := it.Serialize()
	if err != nil {
		return 0, err
	}

	blob, err := wire.EncodeToBytes(intention)
	if err != nil {
		return 0, err
	}

	pos, err := s.log.Append(blob)
	if err != nil {
		return 0, err
	}

	if err := it.SetCSN(pos); err != nil {
		return 0, err
	}

	s.live = &kvstore.Snapshot{Root: it.Root(), CSN: pos}
	return pos, nil
}

// CurrentCSN returns the position of the most recently committed
// intention, or 0 if nothing has been committed yet.
func (s *Store) CurrentCSN() logstore.CSN {
	return s.live.CSN
}

// Resolver exposes the Store's read-through blob resolver, for a caller
// that wants to materialize a historical snapshot directly.
func (s *Store) Resolver() *kvstore.Resolver {
	return s.resolver
}

// Get looks up key in root's tree, walking the binary-search order Put
// maintains. It is a plain read-only walk using the node accessors
// Serialize/Resolve already populate — not the out-of-scope reader
// component, just enough to verify round trips.
func Get(root *kvstore.Node, key []byte) ([]byte, bool) {
	node := root
	for !node.IsNil() {
		switch {
		case bytesLess(key, node.Key()):
			node = node.Left()
		case bytesLess(node.Key(), key):
			node = node.Right()
		default:
			return node.Val(), true
		}
	}
	return nil, false
}

func bytesLess(a, b []byte) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

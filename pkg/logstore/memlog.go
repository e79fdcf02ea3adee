package logstore

import (
	"fmt"
	"sync"

	"github.com/maximecaron/zlog/internal/logging"
	"github.com/maximecaron/zlog/pkg/wire"
)

// Log is the append-only, CSN-addressed store that intentions are
// ultimately persisted to. Its real implementation — replicated, durable,
// garbage collected — is out of scope for this module (spec.md §1); Log
// is the narrow interface the rest of this module needs from it.
type Log interface {
	// Append stores blob and returns the CSN assigned to it. CSNs are
	// monotonically increasing starting at 1; 0 is never a valid CSN.
	Append(blob []byte) (CSN, error)

	// Get retrieves the blob previously stored at pos, or an error if pos
	// was never assigned or has been evicted.
	Get(pos CSN) ([]byte, error)
}

// ErrUnknownCSN is returned by Get for a position that was never appended
// or that has since been evicted from a bounded Log.
var ErrUnknownCSN = fmt.Errorf("logstore: unknown CSN")

// entry pairs a stored blob with its insertion order, mirroring the
// teacher's cachedNode flush-list (oldest/newest) used to bound the
// in-memory dirty set.
type entry struct {
	blob []byte
	prev CSN
	next CSN
}

// MemLog is an in-memory Log, adapted from the teacher's
// accdb/memorydb.MemDB (a bare map+mutex) and accdb's cleaner flush-list
// (oldest/newest chain) for bounded retention. It exists for tests and for
// the demonstration facade in pkg/zlog — it is not a production store.
type MemLog struct {
	mu   sync.RWMutex
	logs map[CSN]*entry
	next CSN

	oldest, newest CSN
	capacity       int // 0 means unbounded
}

// NewMemLog creates an empty in-memory log. capacity bounds the number of
// retained entries; 0 means unbounded. Entries beyond capacity are evicted
// oldest-first, mirroring the teacher's dirty-node flush-list eviction in
// trie_db_cleaner.go.
func NewMemLog(capacity int) *MemLog {
	return &MemLog{
		logs:     make(map[CSN]*entry),
		capacity: capacity,
	}
}

func (l *MemLog) Append(blob []byte) (CSN, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.next++
	pos := l.next

	e := &entry{blob: blob, prev: l.newest}
	if l.newest != 0 {
		l.logs[l.newest].next = pos
	} else {
		l.oldest = pos
	}
	l.newest = pos
	l.logs[pos] = e

	logging.WithComponent("logstore").Debug().
		Uint64("csn", uint64(pos)).
		Int("bytes", len(blob)).
		Str("fingerprint", wire.Fingerprint(blob)).
		Msg("appended intention")

	l.evictLocked()
	return pos, nil
}

func (l *MemLog) Get(pos CSN) ([]byte, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, ok := l.logs[pos]
	if !ok {
		return nil, ErrUnknownCSN
	}
	return e.blob, nil
}

// evictLocked drops the oldest entries until the log is within capacity.
// Caller must hold l.mu.
func (l *MemLog) evictLocked() {
	if l.capacity <= 0 {
		return
	}
	for len(l.logs) > l.capacity {
		oldest := l.oldest
		e := l.logs[oldest]
		delete(l.logs, oldest)
		l.oldest = e.next
		if l.oldest != 0 {
			l.logs[l.oldest].prev = 0
		} else {
			l.newest = 0
		}
		logging.WithComponent("logstore").Debug().
			Uint64("csn", uint64(oldest)).
			Msg("evicted intention")
	}
}

// Len reports the number of entries currently retained.
func (l *MemLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.logs)
}

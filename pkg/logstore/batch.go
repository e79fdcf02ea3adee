package logstore

// IdealBatchSize is the size at which a Batch should ideally be submitted,
// adapted from the teacher's accdb.IdealBatchSize.
const IdealBatchSize = 100 * 1024

// Batch buffers a sequence of intention blobs and submits them to a Log
// together, so that a caller committing several transactions back-to-back
// pays one round of log bookkeeping instead of one per intention. Adapted
// from the teacher's accdb.Batch/Batcher, narrowed from an arbitrary
// key/value writer to the append-only, CSN-returning shape Log needs.
type Batch struct {
	log     Log
	pending [][]byte
	size    int
}

// NewBatch creates a batch that will submit to log.
func NewBatch(log Log) *Batch {
	return &Batch{log: log}
}

// Stage queues blob for submission and returns the number of bytes now
// buffered.
func (b *Batch) Stage(blob []byte) int {
	b.pending = append(b.pending, blob)
	b.size += len(blob)
	return b.size
}

// ValueSize reports the number of bytes currently buffered.
func (b *Batch) ValueSize() int {
	return b.size
}

// Submit appends every staged blob to the underlying Log in order and
// returns the CSNs assigned, one per blob, then resets the batch.
func (b *Batch) Submit() ([]CSN, error) {
	csns := make([]CSN, 0, len(b.pending))
	for _, blob := range b.pending {
		pos, err := b.log.Append(blob)
		if err != nil {
			return csns, err
		}
		csns = append(csns, pos)
	}
	b.Reset()
	return csns, nil
}

// Reset clears the batch for reuse.
func (b *Batch) Reset() {
	b.pending = b.pending[:0]
	b.size = 0
}

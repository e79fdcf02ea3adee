// Package wire defines the binary intention record described in spec.md
// §6: a self-contained, post-order sequence of nodes in which intra-
// intention edges are resolved by local index and inter-intention edges
// are resolved by (csn, offset) against the log.
//
// Encoding is hand-rolled length-prefixed binary (encoding/binary), in the
// spirit of the teacher's trie_node_dec.go hand-written RLP decoder: this
// module owns its wire format byte-for-byte rather than depending on a
// schema compiler it cannot invoke in this environment.
package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
)

// NodePtr is the serialized form of one child edge (spec.md §3 NodePtr,
// §6 schema).
type NodePtr struct {
	Nil  bool   // true: terminal edge, Csn/Off are zero, Self is ignored.
	Self bool   // true: intra-intention edge, Off indexes Tree within this blob.
	Csn  uint64 // valid when !Nil && !Self: foreign intention's log position.
	Off  uint64 // valid when !Nil: target's field_index within its container.
}

// Node is the serialized form of one own tree node (spec.md §3 Node, §6 schema).
type Node struct {
	Red                bool
	Key                []byte
	Val                []byte
	Altered            bool
	Depends            bool
	SubtreeRODependent bool
	HasSSV             bool
	SSV                []byte
	Left               NodePtr
	Right              NodePtr
}

// Intention is the top-level binary record produced by Serialize and
// consumed by a log reader (spec.md §6).
type Intention struct {
	Tree        []Node
	Snapshot    uint64
	Description []string
}

// Encode writes the deterministic binary form of i to w. The encoding is
// deterministic given a fixed field_index assignment: encoding the same
// logical intention twice yields byte-identical output except for Csn
// fields that were stamped in between (spec.md §8 "determinism").
func Encode(w io.Writer, i *Intention) error {
	bw := &binWriter{w: w}
	bw.uvarint(uint64(len(i.Tree)))
	for idx := range i.Tree {
		encodeNode(bw, &i.Tree[idx])
	}
	bw.uvarint(i.Snapshot)
	bw.uvarint(uint64(len(i.Description)))
	for _, s := range i.Description {
		bw.bytes([]byte(s))
	}
	return bw.err
}

// EncodeToBytes is a convenience wrapper around Encode.
func EncodeToBytes(i *Intention) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, i); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a blob produced by Encode.
func Decode(r io.Reader) (*Intention, error) {
	br := &binReader{r: r}
	n := br.uvarint()
	tree := make([]Node, n)
	for idx := range tree {
		tree[idx] = decodeNode(br)
	}
	snapshot := br.uvarint()
	descCount := br.uvarint()
	desc := make([]string, descCount)
	for idx := range desc {
		desc[idx] = string(br.bytes())
	}
	if br.err != nil && br.err != io.EOF {
		return nil, wrapDecodeErr(br.err)
	}
	return &Intention{Tree: tree, Snapshot: snapshot, Description: desc}, nil
}

// DecodeFromBytes is a convenience wrapper around Decode.
func DecodeFromBytes(blob []byte) (*Intention, error) {
	return Decode(bytes.NewReader(blob))
}

func encodeNode(bw *binWriter, n *Node) {
	bw.boolean(n.Red)
	bw.bytes(n.Key)
	bw.bytes(n.Val)
	bw.boolean(n.Altered)
	bw.boolean(n.Depends)
	bw.boolean(n.SubtreeRODependent)
	bw.boolean(n.HasSSV)
	if n.HasSSV {
		bw.bytes(n.SSV)
	}
	encodePtr(bw, &n.Left)
	encodePtr(bw, &n.Right)
}

func encodePtr(bw *binWriter, p *NodePtr) {
	bw.boolean(p.Nil)
	bw.boolean(p.Self)
	bw.uvarint(p.Csn)
	bw.uvarint(p.Off)
}

func decodeNode(br *binReader) Node {
	var n Node
	n.Red = br.boolean()
	n.Key = br.bytes()
	n.Val = br.bytes()
	n.Altered = br.boolean()
	n.Depends = br.boolean()
	n.SubtreeRODependent = br.boolean()
	n.HasSSV = br.boolean()
	if n.HasSSV {
		n.SSV = br.bytes()
	}
	n.Left = decodePtr(br)
	n.Right = decodePtr(br)
	return n
}

func decodePtr(br *binReader) NodePtr {
	var p NodePtr
	p.Nil = br.boolean()
	p.Self = br.boolean()
	p.Csn = br.uvarint()
	p.Off = br.uvarint()
	return p
}

// Fingerprint returns a short hex digest of blob (16 hex characters),
// used for logging by logstore.MemLog.Append. Determinism tests compare
// encoded blobs byte for byte rather than by fingerprint.
func Fingerprint(blob []byte) string {
	sum := blake2b.Sum256(blob)
	return fmt.Sprintf("%x", sum[:8])
}

// --- minimal binary read/write helpers -------------------------------------

type binWriter struct {
	w   io.Writer
	err error
}

func (bw *binWriter) uvarint(v uint64) {
	if bw.err != nil {
		return
	}
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	_, bw.err = bw.w.Write(buf[:n])
}

func (bw *binWriter) boolean(v bool) {
	if v {
		bw.uvarint(1)
	} else {
		bw.uvarint(0)
	}
}

func (bw *binWriter) bytes(b []byte) {
	bw.uvarint(uint64(len(b)))
	if bw.err != nil || len(b) == 0 {
		return
	}
	_, bw.err = bw.w.Write(b)
}

type binReader struct {
	r   io.Reader
	err error
}

func (br *binReader) readByte() byte {
	var b [1]byte
	if br.err != nil {
		return 0
	}
	_, err := io.ReadFull(br.r, b[:])
	if err != nil {
		br.err = err
		return 0
	}
	return b[0]
}

func (br *binReader) uvarint() uint64 {
	var x uint64
	var s uint
	for {
		b := br.readByte()
		if br.err != nil {
			return 0
		}
		if b < 0x80 {
			return x | uint64(b)<<s
		}
		x |= uint64(b&0x7f) << s
		s += 7
	}
}

func (br *binReader) boolean() bool {
	return br.uvarint() != 0
}

func (br *binReader) bytes() []byte {
	n := br.uvarint()
	if br.err != nil || n == 0 {
		return nil
	}
	buf := make([]byte, n)
	_, err := io.ReadFull(br.r, buf)
	if err != nil {
		br.err = err
	}
	return buf
}

// decodeError wraps a low-level read failure with context, mirroring the
// teacher's decodeError/wrapError in trie_node_dec.go.
type decodeError struct {
	what error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("wire: decode error: %v", e.what)
}

func (e *decodeError) Unwrap() error {
	return e.what
}

func wrapDecodeErr(err error) error {
	if err == nil {
		return nil
	}
	return &decodeError{what: err}
}

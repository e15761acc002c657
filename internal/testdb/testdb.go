// Package testdb builds well-formed hwdb trie buffers in memory, for use by
// internal/trie and the root hwdb package's tests. It plays the role the
// pack's own testdata fixtures play for internal/squashfs: a small builder
// that produces exactly the record shapes the decoder expects, so tests
// exercise the decoder against real bytes instead of hand-maintained
// structs.
package testdb

import (
	"bytes"
	"encoding/binary"
)

const (
	headerSize     = 80
	nodeSize       = 17
	childEntrySize = 16
	valueEntrySize = 32
	signature      = "KSLEXYZ\x00"
)

// Value is one property attached to a node.
type Value struct {
	Key   string
	Value string
}

// Child is one outgoing edge, built bottom-up: Node must already be built
// (via Builder.Node) before it is referenced as a Child.
type Child struct {
	C    byte
	Node uint64 // offset returned by a prior Builder.Node call
}

// Builder assembles node/string records into a single buffer, to be sealed
// with Finish once the whole trie is built.
type Builder struct {
	body    bytes.Buffer // everything after the header
	strings map[string]uint64
}

// NewBuilder returns an empty Builder. Body offsets are relative to the
// start of the sealed buffer (i.e. already include the header size).
func NewBuilder() *Builder {
	return &Builder{strings: make(map[string]uint64)}
}

func (b *Builder) off() uint64 {
	return headerSize + uint64(b.body.Len())
}

// String interns s into the string pool, returning its offset. The empty
// string is never interned (callers use offset 0 to mean "no prefix").
func (b *Builder) String(s string) uint64 {
	if s == "" {
		return 0
	}
	if off, ok := b.strings[s]; ok {
		return off
	}
	off := b.off()
	b.body.WriteString(s)
	b.body.WriteByte(0)
	b.strings[s] = off
	return off
}

// Node writes one node record (prefix, sorted by caller or not — the
// decoder sorts children itself) followed by its child and value records,
// and returns the node's offset. Build leaf nodes first, bottom-up, so
// their offsets are available when building the parent that references
// them as Children.
func (b *Builder) Node(prefix string, children []Child, values []Value) uint64 {
	prefixOff := b.String(prefix)
	nodeOff := b.off()

	var hdr [nodeSize]byte
	binary.LittleEndian.PutUint64(hdr[0:8], prefixOff)
	hdr[8] = byte(len(children))
	binary.LittleEndian.PutUint64(hdr[9:17], uint64(len(values)))
	b.body.Write(hdr[:])

	for _, c := range children {
		var rec [childEntrySize]byte
		rec[0] = c.C
		binary.LittleEndian.PutUint64(rec[2:10], c.Node)
		b.body.Write(rec[:])
	}

	for _, v := range values {
		var rec [valueEntrySize]byte
		binary.LittleEndian.PutUint64(rec[0:8], b.String(v.Key))
		binary.LittleEndian.PutUint64(rec[8:16], b.String(v.Value))
		b.body.Write(rec[:])
	}

	return nodeOff
}

// Finish seals the buffer: it prepends the 80-byte header, declaring
// rootOff as the trie root and the three record sizes this builder used.
func (b *Builder) Finish(rootOff uint64) []byte {
	body := b.body.Bytes()
	total := headerSize + len(body)

	buf := make([]byte, total)
	copy(buf[0:8], signature)
	binary.LittleEndian.PutUint64(buf[8:16], 1)               // tool_version
	binary.LittleEndian.PutUint64(buf[16:24], uint64(total))  // file_size
	binary.LittleEndian.PutUint64(buf[24:32], headerSize)     // header_size
	binary.LittleEndian.PutUint64(buf[32:40], nodeSize)       // node_size
	binary.LittleEndian.PutUint64(buf[40:48], childEntrySize) // child_entry_size
	binary.LittleEndian.PutUint64(buf[48:56], valueEntrySize) // value_entry_size
	binary.LittleEndian.PutUint64(buf[56:64], uint64(len(body)))
	binary.LittleEndian.PutUint64(buf[64:72], uint64(len(body)))
	binary.LittleEndian.PutUint64(buf[72:80], rootOff)
	copy(buf[headerSize:], body)
	return buf
}

// Sample builds a small trie mirroring two real modalias entries, for
// integration-style tests: a USB vendor/product prefix followed by '*',
// and a PCI vendor match with '?' wildcards over the device id.
func Sample() []byte {
	b := NewBuilder()

	// Each child node's prefix omits the edge-label byte the parent's
	// child-entry already consumed.
	usbLeaf := b.Node("sb:v1D6Bp0001*", nil, []Value{
		{Key: " ID_VENDOR_FROM_DATABASE", Value: "Linux Foundation"},
	})
	pciLeaf := b.Node("ci:v00008086d0000????*", nil, []Value{
		{Key: " ID_VENDOR_FROM_DATABASE", Value: "Intel Corporation"},
	})

	root := b.Node("", []Child{
		{C: 'u', Node: usbLeaf},
		{C: 'p', Node: pciLeaf},
	}, nil)

	return b.Finish(root)
}

package trie

import "encoding/binary"

// Node is the fixed fields of a node record. It precedes, contiguously in
// the file, ChildrenCount child-edge records and then ValuesCount value
// records.
type Node struct {
	PrefixOff     uint64
	ChildrenCount uint8
	ValuesCount   uint64
}

// ChildEntry is one outgoing edge from a node.
type ChildEntry struct {
	C        byte
	ChildOff uint64
}

// ValueEntry is one property record attached to a node.
type ValueEntry struct {
	KeyOff   uint64
	ValueOff uint64
}

// minNodeSize/minChildSize/minValueSize are the smallest record layouts
// this decoder understands. A Layout may declare larger sizes (a newer
// encoder growing records); decoders only read the fields they know and
// then skip forward by the declared size, never by these constants.
const (
	minNodeSize  = 17 // prefix_off(8) + children_count(1) + values_count(8)
	minChildSize = 10 // c(1) + pad(1) + child_off(8)
	minValueSize = 32 // key_off(8) + value_off(8) + reserved(16)
)

func checkRange(buf []byte, off, size uint64) error {
	if size == 0 {
		return newErr(KindBounds, "zero-sized record")
	}
	end := off + size
	if end < off { // overflow
		return newErr(KindBounds, "offset overflow: off=%d size=%d", off, size)
	}
	if end > uint64(len(buf)) {
		return newErr(KindBounds, "record [%d,%d) exceeds buffer of length %d", off, end, len(buf))
	}
	return nil
}

// decodeNode reads one node record at off, using layout.NodeSize as the
// declared record size (which may exceed minNodeSize on a newer file;
// trailing bytes this decoder doesn't understand are simply not read).
func decodeNode(buf []byte, layout Layout, off uint64) (Node, error) {
	if layout.NodeSize < minNodeSize {
		return Node{}, newErr(KindHeader, "node_size %d smaller than minimum %d", layout.NodeSize, minNodeSize)
	}
	if err := checkRange(buf, off, layout.NodeSize); err != nil {
		return Node{}, err
	}
	b := buf[off:]
	return Node{
		PrefixOff:     binary.LittleEndian.Uint64(b[0:8]),
		ChildrenCount: b[8],
		ValuesCount:   binary.LittleEndian.Uint64(b[9:17]),
	}, nil
}

// decodeChild reads one child-edge record at off. The padding byte is
// ignored, matching spec.md's documented layout.
func decodeChild(buf []byte, layout Layout, off uint64) (ChildEntry, error) {
	if layout.ChildEntrySize < minChildSize {
		return ChildEntry{}, newErr(KindHeader, "child_entry_size %d smaller than minimum %d", layout.ChildEntrySize, minChildSize)
	}
	if err := checkRange(buf, off, layout.ChildEntrySize); err != nil {
		return ChildEntry{}, err
	}
	b := buf[off:]
	return ChildEntry{
		C:        b[0],
		ChildOff: binary.LittleEndian.Uint64(b[2:10]),
	}, nil
}

// decodeValue reads one value record at off. The 16 reserved/metadata
// bytes are ignored.
func decodeValue(buf []byte, layout Layout, off uint64) (ValueEntry, error) {
	if layout.ValueEntrySize < minValueSize {
		return ValueEntry{}, newErr(KindHeader, "value_entry_size %d smaller than minimum %d", layout.ValueEntrySize, minValueSize)
	}
	if err := checkRange(buf, off, layout.ValueEntrySize); err != nil {
		return ValueEntry{}, err
	}
	b := buf[off:]
	return ValueEntry{
		KeyOff:   binary.LittleEndian.Uint64(b[0:8]),
		ValueOff: binary.LittleEndian.Uint64(b[8:16]),
	}, nil
}

// trieString reads the NUL-terminated string starting at offset off within
// buf (a trie string pool offset is relative to the whole file buffer, per
// spec.md). off and the terminating NUL are checked against the buffer
// length only; neither this function nor its callers check that off lies
// inside the string pool region.
func trieString(buf []byte, off uint64) (string, error) {
	if off >= uint64(len(buf)) {
		return "", newErr(KindBounds, "string offset %d outside buffer of length %d", off, len(buf))
	}
	rest := buf[off:]
	for i, c := range rest {
		if c == 0 {
			return string(rest[:i]), nil
		}
	}
	return "", newErr(KindBounds, "unterminated string at offset %d", off)
}

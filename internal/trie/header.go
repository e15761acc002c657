package trie

import "encoding/binary"

// Signature is the 8-byte magic identifying an hwdb trie file.
const Signature = "KSLEXYZ\x00"

// HeaderSize is the on-disk size of Header as laid out by this decoder.
// A Header read from a file that declares a larger HeaderSize is still
// accepted: decoders only ever read the HeaderSize-declared record sizes
// from the fields below, never assume the struct stops here.
const HeaderSize = 80

// Header is the fixed-size record at file offset 0. All integers are
// little-endian on disk.
type Header struct {
	Signature      [8]byte
	ToolVersion    uint64
	FileSize       uint64
	HeaderSize     uint64
	NodeSize       uint64
	ChildEntrySize uint64
	ValueEntrySize uint64
	StringsLen     uint64
	NodesLen       uint64
	NodesRootOff   uint64
}

// Layout carries the header-declared record sizes through every decode
// call, rather than publishing them into package-level globals. This is
// the "attach sizes to a context value that travels with the buffer"
// re-architecture the format's design notes call for.
type Layout struct {
	NodeSize       uint64
	ChildEntrySize uint64
	ValueEntrySize uint64
}

// DecodeHeader parses the header record from the start of buf.
func DecodeHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, newErr(KindHeader, "header short: have %d bytes, want %d", len(buf), HeaderSize)
	}

	var h Header
	copy(h.Signature[:], buf[0:8])
	if string(h.Signature[:]) != Signature {
		return nil, newErr(KindHeader, "bad signature: %q", h.Signature[:])
	}

	h.ToolVersion = binary.LittleEndian.Uint64(buf[8:16])
	h.FileSize = binary.LittleEndian.Uint64(buf[16:24])
	h.HeaderSize = binary.LittleEndian.Uint64(buf[24:32])
	h.NodeSize = binary.LittleEndian.Uint64(buf[32:40])
	h.ChildEntrySize = binary.LittleEndian.Uint64(buf[40:48])
	h.ValueEntrySize = binary.LittleEndian.Uint64(buf[48:56])
	h.StringsLen = binary.LittleEndian.Uint64(buf[56:64])
	h.NodesLen = binary.LittleEndian.Uint64(buf[64:72])
	h.NodesRootOff = binary.LittleEndian.Uint64(buf[72:80])

	if h.HeaderSize == 0 || h.NodeSize == 0 || h.ChildEntrySize == 0 || h.ValueEntrySize == 0 {
		return nil, newErr(KindHeader, "zero-sized record declared in header: header=%d node=%d child=%d value=%d",
			h.HeaderSize, h.NodeSize, h.ChildEntrySize, h.ValueEntrySize)
	}

	return &h, nil
}

// Layout extracts the record sizes this Header declares.
func (h *Header) Layout() Layout {
	return Layout{
		NodeSize:       h.NodeSize,
		ChildEntrySize: h.ChildEntrySize,
		ValueEntrySize: h.ValueEntrySize,
	}
}

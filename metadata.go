package heapfit

import "unsafe"

var sizeOfMetadata = uint64(unsafe.Sizeof(metadata{}))

// metadata sits at offset 0 of the region, so heap state survives a detach
// and reattach of a shared or file-backed backend. All block fields are
// offsets into the region, 0 meaning none.
type metadata struct {
	Magic     uint64
	TotalSize uint64
	Seed      uint64 // canary seed, fixed at initialization
	Mode      uint32 // active SearchMode
	_         uint32
	BrkStart  uint64 // first byte past the metadata prologue
	BrkEnd    uint64 // current break
	HeapStart uint64 // first block header
	Top       uint64 // tail block header
	Cursor    uint64 // next-fit resume position
	Lock      processLocker
}

func (m *metadata) reset() {
	m.Magic = 0
	m.TotalSize = 0
	m.Seed = 0
	m.Mode = 0
	m.BrkStart = 0
	m.BrkEnd = 0
	m.HeapStart = 0
	m.Top = 0
	m.Cursor = 0
	m.Lock.reset()
}

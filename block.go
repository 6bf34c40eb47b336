package heapfit

import (
	"encoding/binary"
	"unsafe"

	"github.com/cespare/xxhash/v2"
)

// wordSize is the machine word the allocator aligns to.
const wordSize = 8

var sizeOfBlockHeader = uint64(unsafe.Sizeof(blockHeader{}))

// blockHeader precedes every block's payload in the region. The payload's
// first byte is immediately after the header, and the next block (if any)
// starts immediately after the payload.
type blockHeader struct {
	Size  uint64 // payload bytes, always word aligned
	Next  uint64 // header offset of the successor block, 0 = none
	Used  uint32
	Check uint32 // canary over (seed, header offset)
}

// align rounds n up to the machine word boundary.
func align(n uint64) uint64 {
	return (n + wordSize - 1) &^ (wordSize - 1)
}

// headerOf recovers the header offset from a payload offset. Pure arithmetic,
// valid only for offsets returned by Alloc and not invalidated by Reset.
func headerOf(payload uint64) uint64 {
	return payload - sizeOfBlockHeader
}

// payloadOf is the inverse of headerOf.
func payloadOf(header uint64) uint64 {
	return header + sizeOfBlockHeader
}

func canary(seed, header uint64) uint32 {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], seed)
	binary.LittleEndian.PutUint64(b[8:], header)
	return uint32(xxhash.Sum64(b[:]))
}

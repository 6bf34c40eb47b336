// Package heapfit implements a free-list heap allocator over one contiguous
// memory region. The region is reserved by a Memory backend (Go memory, SysV
// shared memory or a file mapping) and carved incrementally by an sbrk-style
// break into a singly linked, address-ordered chain of blocks. Free blocks
// are reused before the break moves, located by one of three interchangeable
// search policies: first-fit, next-fit or best-fit.
//
// Adjacent free blocks are never coalesced, so sustained alloc/free churn
// fragments the region over time. Callers that need a clean slate use Reset.
package heapfit

import (
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"unsafe"

	"github.com/heapfit/heapfit/gom"
	"github.com/heapfit/heapfit/mmap"
	"github.com/heapfit/heapfit/shm"
)

const magic = uint64(0x68656170666974) // "heapfit"

// Heap is a block allocator over a single growable arena. Offsets returned by
// Alloc address the block payload; Ptr and Bytes materialize them. A Heap is
// not safe for concurrent use unless configured with Concurrent.
type Heap interface {
	// Init switches the search mode and discards all prior state
	Init(mode SearchMode) error
	// Alloc returns the payload offset of a word-aligned block of at least
	// size bytes, reusing a free block when the active policy finds one and
	// extending the arena otherwise. Fails with ErrOutOfMemory when the
	// reserved region is exhausted.
	Alloc(size uint64) (uint64, error)
	// Free marks the block owning offset as free. The offset must come from
	// Alloc on this heap and must not have been freed already; this is caller
	// responsibility, only the DetectCorruption canary guards against it.
	Free(offset uint64) error
	// Reset rolls the break back to the first block and empties the chain.
	// Every previously returned offset becomes invalid.
	Reset() error
	// Ptr materializes a payload offset. Panics after Close.
	Ptr(offset uint64) unsafe.Pointer
	// Bytes returns the payload as a slice of the block's full size.
	// Panics after Close.
	Bytes(offset uint64) []byte
	// SizeOf returns the payload size of the block owning offset.
	// Panics after Close.
	SizeOf(offset uint64) uint64
	// Walk visits every block in address order until fn returns false.
	Walk(fn func(Block) bool)
	// Stats aggregates the current chain.
	Stats() Stats
	// Close detaches the backend, further calls fail with ErrHeapClosed.
	Close() error
}

// Block is the Walk view of one chain entry.
type Block struct {
	Offset  uint64 // header offset
	Payload uint64
	Size    uint64
	Used    bool
}

// New reserves size bytes through the configured backend and returns a ready
// heap. A region that already carries a valid heap (shared memory, mmap file)
// is adopted as-is; its stored search mode must match the configured one.
func New(size int, c *Config) (Heap, error) {
	if size < 1*KB {
		return nil, ErrMemorySizeTooSmall
	}

	config := mergeConfig(c)
	s, err := newSearcher(config.SearchMode)
	if err != nil {
		return nil, err
	}

	var mem Memory
	switch config.MemoryType {
	case GO:
		mem = gom.NewMemory(uint64(size))
	case SHM:
		if config.MemoryKey == "" {
			return nil, errors.New("shm MemoryKey is required")
		}
		mem = shm.NewMemory(config.MemoryKey, uint64(size), true)
	case MMAP:
		if config.MemoryKey == "" {
			return nil, errors.New("mmap MemoryKey is required")
		}
		mem = mmap.NewMemory(config.MemoryKey, uint64(size))
	default:
		return nil, fmt.Errorf("MemoryType: %d not support", config.MemoryType)
	}

	if err = mem.Attach(); err != nil {
		return nil, err
	}

	meta := (*metadata)(mem.Ptr())
	h := &heap{
		mem:      mem,
		meta:     meta,
		brk:      &brk{mem: mem, meta: meta},
		searcher: s,
		locker:   &nopLocker{},
		detect:   config.DetectCorruption,
	}

	if meta.Magic == magic {
		if SearchMode(meta.Mode) != config.SearchMode {
			_ = mem.Detach()
			return nil, ErrSearchModeChanged
		}
	} else {
		meta.reset()
		meta.Magic = magic
		meta.TotalSize = mem.Size()
		meta.Seed = rand.Uint64()
		meta.Mode = uint32(config.SearchMode)
		meta.BrkStart = align(sizeOfMetadata)
		meta.BrkEnd = meta.BrkStart
	}

	if config.Concurrent {
		h.locker = &meta.Lock
	}
	return h, nil
}

type heap struct {
	mem      Memory
	meta     *metadata
	brk      *brk
	searcher searcher
	locker   Locker
	detect   bool
	closed   uint32
}

func (h *heap) Init(mode SearchMode) error {
	if atomic.LoadUint32(&h.closed) == 1 {
		return ErrHeapClosed
	}
	s, err := newSearcher(mode)
	if err != nil {
		return err
	}
	h.locker.Lock()
	defer h.locker.Unlock()
	h.meta.Mode = uint32(mode)
	h.searcher = s
	h.resetLocked()
	return nil
}

func (h *heap) Alloc(size uint64) (uint64, error) {
	if atomic.LoadUint32(&h.closed) == 1 {
		return 0, ErrHeapClosed
	}
	h.locker.Lock()
	defer h.locker.Unlock()

	want := align(size)
	if want == 0 {
		want = wordSize
	}
	// Neither align nor the header addition below may wrap, a wrapped want
	// would link a bogus block over the current tail.
	if want < size || want > ^uint64(0)-sizeOfBlockHeader {
		return 0, ErrOutOfMemory
	}

	// 1. Reuse a free block when the active policy locates one.
	if off := h.searcher.find(h, want); off != 0 {
		hdr := h.header(off)
		if canSplit(hdr, want) {
			h.split(off, hdr, want)
		}
		hdr.Used = 1
		return payloadOf(off), nil
	}

	// 2. Otherwise grow the arena; nothing is linked until extend succeeded.
	off, err := h.brk.extend(sizeOfBlockHeader + want)
	if err != nil {
		return 0, err
	}

	hdr := h.header(off)
	hdr.Size = want
	hdr.Next = 0
	hdr.Used = 1
	hdr.Check = canary(h.meta.Seed, off)

	if h.meta.HeapStart == 0 {
		h.meta.HeapStart = off
	}
	if h.meta.Top != 0 {
		h.header(h.meta.Top).Next = off
	}
	h.meta.Top = off
	return payloadOf(off), nil
}

func (h *heap) Free(offset uint64) error {
	if atomic.LoadUint32(&h.closed) == 1 {
		return ErrHeapClosed
	}
	h.locker.Lock()
	defer h.locker.Unlock()

	off := headerOf(offset)
	hdr := h.header(off)
	if h.detect && hdr.Check != canary(h.meta.Seed, off) {
		return ErrHeapCorrupted
	}
	hdr.Used = 0
	return nil
}

func (h *heap) Reset() error {
	if atomic.LoadUint32(&h.closed) == 1 {
		return ErrHeapClosed
	}
	h.locker.Lock()
	defer h.locker.Unlock()
	h.resetLocked()
	return nil
}

func (h *heap) resetLocked() {
	h.brk.retract(h.meta.BrkStart)
	h.meta.HeapStart = 0
	h.meta.Top = 0
	h.meta.Cursor = 0
}

func (h *heap) Ptr(offset uint64) unsafe.Pointer {
	h.mustOpen()
	return h.mem.PtrOffset(offset)
}

func (h *heap) Bytes(offset uint64) []byte {
	h.mustOpen()
	size := h.header(headerOf(offset)).Size
	return unsafe.Slice((*byte)(h.mem.PtrOffset(offset)), size)
}

func (h *heap) SizeOf(offset uint64) uint64 {
	h.mustOpen()
	return h.header(headerOf(offset)).Size
}

// mustOpen guards the accessors that cannot return an error, the detached
// backend would otherwise fault on a nil base pointer.
func (h *heap) mustOpen() {
	if atomic.LoadUint32(&h.closed) == 1 {
		panic("heapfit: heap closed")
	}
}

func (h *heap) Close() error {
	if !atomic.CompareAndSwapUint32(&h.closed, 0, 1) {
		return ErrHeapClosed
	}
	return h.mem.Detach()
}

func (h *heap) header(off uint64) *blockHeader {
	return (*blockHeader)(h.mem.PtrOffset(off))
}

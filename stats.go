package heapfit

import (
	"sync/atomic"
	"unsafe"
)

// Stats is a point-in-time aggregate of the block chain.
type Stats struct {
	Blocks     int
	FreeBlocks int
	UsedBytes  uint64 // payload bytes of used blocks
	FreeBytes  uint64 // payload bytes of free blocks
	ArenaUsed  uint64 // break extent past the metadata prologue
	ArenaSize  uint64
}

func (h *heap) Walk(fn func(Block) bool) {
	if atomic.LoadUint32(&h.closed) == 1 {
		return
	}
	h.locker.Lock()
	defer h.locker.Unlock()
	h.walkLocked(fn)
}

// walkLocked rides Memory.Travel: blocks are contiguous, so each step
// advances by exactly one header plus its payload until the break.
func (h *heap) walkLocked(fn func(Block) bool) {
	start := h.meta.HeapStart
	if start == 0 {
		return
	}
	off := start
	h.mem.Travel(start, func(ptr unsafe.Pointer, _ uint64) uint64 {
		if off >= h.meta.BrkEnd {
			return 0
		}
		hdr := (*blockHeader)(ptr)
		b := Block{
			Offset:  off,
			Payload: payloadOf(off),
			Size:    hdr.Size,
			Used:    hdr.Used == 1,
		}
		advance := sizeOfBlockHeader + hdr.Size
		off += advance
		if !fn(b) {
			return 0
		}
		return advance
	})
}

func (h *heap) Stats() Stats {
	if atomic.LoadUint32(&h.closed) == 1 {
		return Stats{}
	}
	h.locker.Lock()
	defer h.locker.Unlock()

	s := Stats{
		ArenaUsed: h.meta.BrkEnd - h.meta.BrkStart,
		ArenaSize: h.meta.TotalSize,
	}
	h.walkLocked(func(b Block) bool {
		s.Blocks++
		if b.Used {
			s.UsedBytes += b.Size
		} else {
			s.FreeBlocks++
			s.FreeBytes += b.Size
		}
		return true
	})
	return s
}

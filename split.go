package heapfit

// canSplit reports whether a found free block is worth dividing: the
// remainder must fit its own header plus at least one word of payload.
// Otherwise the block is consumed whole and its size left untouched.
func canSplit(hdr *blockHeader, want uint64) bool {
	return hdr.Size >= want+sizeOfBlockHeader+wordSize
}

// split shrinks the block at off to exactly want payload bytes and carves a
// free remainder block immediately after it, linked directly behind the block
// to preserve address order. Byte conservation holds:
//
//	sizeBefore == want + headerOverhead + remainderSize
func (h *heap) split(off uint64, hdr *blockHeader, want uint64) {
	restOff := payloadOf(off) + want
	rest := h.header(restOff)
	rest.Size = hdr.Size - want - sizeOfBlockHeader
	rest.Next = hdr.Next
	rest.Used = 0
	rest.Check = canary(h.meta.Seed, restOff)

	hdr.Size = want
	hdr.Next = restOff

	if h.meta.Top == off {
		h.meta.Top = restOff
	}
}

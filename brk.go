package heapfit

// brk is the sbrk-style break over the reserved region. The break only moves
// forward during allocation; retract is reserved for a full reset.
type brk struct {
	mem  Memory
	meta *metadata
}

// extend advances the break by n bytes and returns the pre-extension break.
// On ErrOutOfMemory the break is untouched, all or nothing.
func (b *brk) extend(n uint64) (uint64, error) {
	end := b.meta.BrkEnd
	if n > b.mem.Size() || end > b.mem.Size()-n {
		return 0, ErrOutOfMemory
	}
	b.meta.BrkEnd = end + n
	return end, nil
}

// retract rolls the break back to offset.
func (b *brk) retract(offset uint64) {
	b.meta.BrkEnd = offset
}

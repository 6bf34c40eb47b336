package heapfit

import (
	"testing"

	"github.com/heapfit/heapfit/gom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBrk(t *testing.T, size uint64) *brk {
	mem := gom.NewMemory(size)
	require.NoError(t, mem.Attach())
	meta := (*metadata)(mem.Ptr())
	meta.reset()
	meta.TotalSize = size
	meta.BrkStart = align(sizeOfMetadata)
	meta.BrkEnd = meta.BrkStart
	return &brk{mem: mem, meta: meta}
}

func TestBrkExtend(t *testing.T) {
	b := newTestBrk(t, 1*KB)
	start := b.meta.BrkStart

	off1, err := b.extend(64)
	assert.NoError(t, err)
	assert.Equal(t, start, off1)

	off2, err := b.extend(32)
	assert.NoError(t, err)
	assert.Equal(t, start+64, off2)
	assert.Equal(t, start+96, b.meta.BrkEnd)
}

func TestBrkExtendOutOfMemory(t *testing.T) {
	b := newTestBrk(t, 1*KB)
	_, err := b.extend(128)
	require.NoError(t, err)
	end := b.meta.BrkEnd

	// Refused extension leaves the break untouched.
	_, err = b.extend(2 * KB)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, end, b.meta.BrkEnd)

	// Overflow-sized request is refused the same way.
	_, err = b.extend(^uint64(0) - 8)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, end, b.meta.BrkEnd)
}

func TestBrkRetract(t *testing.T) {
	b := newTestBrk(t, 1*KB)
	off, err := b.extend(256)
	require.NoError(t, err)
	b.retract(off)
	assert.Equal(t, b.meta.BrkStart, b.meta.BrkEnd)
}
